package pricing

import (
	"slices"

	"github.com/nicodev/webstudio/internal/catalog"
)

// Comparison is the ordered list of plans a visitor picked for side-by-side
// comparison. It is independent of the quote Selection.
type Comparison struct {
	plans []catalog.Plan
}

// Toggle appends p if absent, otherwise removes it. Plans are matched by id.
func (c *Comparison) Toggle(p catalog.Plan) {
	i := slices.IndexFunc(c.plans, func(q catalog.Plan) bool { return q.ID == p.ID })
	if i >= 0 {
		c.plans = slices.Delete(c.plans, i, i+1)
		return
	}
	p.Features = slices.Clone(p.Features)
	c.plans = append(c.plans, p)
}

// Plans returns the compared plans in the order they were picked.
func (c *Comparison) Plans() []catalog.Plan {
	return slices.Clone(c.plans)
}

// IDs returns the picked plan ids in order.
func (c *Comparison) IDs() []int {
	ids := make([]int, len(c.plans))
	for i, p := range c.plans {
		ids[i] = p.ID
	}
	return ids
}

// ComparisonRow is one feature's inclusion across the compared plans.
// Included[i] corresponds to the i-th compared plan.
type ComparisonRow struct {
	Feature  string `json:"feature"`
	Included []bool `json:"included"`
}

// Compare builds the feature matrix: one row per entry of features, in
// order, with one column per plan, in order.
func Compare(plans []catalog.Plan, features []string) []ComparisonRow {
	rows := make([]ComparisonRow, len(features))
	for i, f := range features {
		included := make([]bool, len(plans))
		for j, p := range plans {
			included[j] = p.Includes(f)
		}
		rows[i] = ComparisonRow{Feature: f, Included: included}
	}
	return rows
}

// FilterByFeatures returns the plans that include every required feature,
// keeping their order. With no required features every plan matches.
func FilterByFeatures(plans []catalog.Plan, required []string) []catalog.Plan {
	out := make([]catalog.Plan, 0, len(plans))
	for _, p := range plans {
		if includesAll(p, required) {
			out = append(out, p)
		}
	}
	return out
}

func includesAll(p catalog.Plan, required []string) bool {
	for _, f := range required {
		if !p.Includes(f) {
			return false
		}
	}
	return true
}

// ToggleFeature adds f to the filter list, or removes it if present.
func ToggleFeature(list []string, f string) []string {
	if i := slices.Index(list, f); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(slices.Clone(list), f)
}
