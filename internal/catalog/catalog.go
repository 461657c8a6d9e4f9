// Package catalog holds the purchasable web-development plans, add-ons and
// maintenance tiers offered on the site.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidCatalog is returned when catalog data breaks one of its rules.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Plan is a web-development service tier.
type Plan struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Price    int      `json:"price" yaml:"price"` // whole dollars
	Benefits string   `json:"benefits" yaml:"benefits"`
	Features []string `json:"features" yaml:"features"`
}

// Includes reports whether the plan lists the feature.
func (p Plan) Includes(feature string) bool {
	return slices.Contains(p.Features, feature)
}

// AddOn is an optional extra bought alongside a plan.
type AddOn struct {
	Title       string `json:"title" yaml:"title"`
	Price       int    `json:"price" yaml:"price"`
	Description string `json:"description" yaml:"description"`
}

// MaintenancePlan is a monthly upkeep tier. It is listed next to the plans
// but never contributes to a quote total.
type MaintenancePlan struct {
	Title        string `json:"title" yaml:"title"`
	MonthlyPrice int    `json:"monthlyPrice" yaml:"monthly_price"`
	Description  string `json:"description" yaml:"description"`
}

// Catalog is an immutable, ordered set of plans, add-ons and maintenance tiers.
type Catalog struct {
	plans       []Plan
	addOns      []AddOn
	maintenance []MaintenancePlan
}

// New validates and copies the given records into a Catalog. Nil feature
// lists become empty ones so consumers never need a nil check.
func New(plans []Plan, addOns []AddOn, maintenance []MaintenancePlan) (*Catalog, error) {
	c := &Catalog{
		plans:       make([]Plan, 0, len(plans)),
		addOns:      slices.Clone(addOns),
		maintenance: slices.Clone(maintenance),
	}

	seenIDs := make(map[int]bool, len(plans))
	for _, p := range plans {
		if p.ID <= 0 {
			return nil, fmt.Errorf("%w: plan %q needs a positive id", ErrInvalidCatalog, p.Name)
		}
		if seenIDs[p.ID] {
			return nil, fmt.Errorf("%w: duplicate plan id %d", ErrInvalidCatalog, p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("%w: plan %q has negative price", ErrInvalidCatalog, p.Name)
		}
		seenIDs[p.ID] = true
		p.Features = normalizeFeatures(p.Features)
		c.plans = append(c.plans, p)
	}

	seenTitles := make(map[string]bool, len(addOns))
	for _, a := range addOns {
		if a.Title == "" {
			return nil, fmt.Errorf("%w: add-on without title", ErrInvalidCatalog)
		}
		if seenTitles[a.Title] {
			return nil, fmt.Errorf("%w: duplicate add-on %q", ErrInvalidCatalog, a.Title)
		}
		if a.Price < 0 {
			return nil, fmt.Errorf("%w: add-on %q has negative price", ErrInvalidCatalog, a.Title)
		}
		seenTitles[a.Title] = true
	}

	for _, m := range maintenance {
		if m.MonthlyPrice < 0 {
			return nil, fmt.Errorf("%w: maintenance plan %q has negative price", ErrInvalidCatalog, m.Title)
		}
	}

	return c, nil
}

func normalizeFeatures(features []string) []string {
	if features == nil {
		return []string{}
	}
	return slices.Clone(features)
}

// Plans returns the plans in catalog order.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	for i, p := range c.plans {
		p.Features = slices.Clone(p.Features)
		out[i] = p
	}
	return out
}

// AddOns returns the add-ons in catalog order.
func (c *Catalog) AddOns() []AddOn {
	return slices.Clone(c.addOns)
}

// Maintenance returns the maintenance tiers in catalog order.
func (c *Catalog) Maintenance() []MaintenancePlan {
	return slices.Clone(c.maintenance)
}

// Plan looks up a plan by id.
func (c *Catalog) Plan(id int) (Plan, bool) {
	for _, p := range c.plans {
		if p.ID == id {
			p.Features = slices.Clone(p.Features)
			return p, true
		}
	}
	return Plan{}, false
}

// AddOn looks up an add-on by title.
func (c *Catalog) AddOn(title string) (AddOn, bool) {
	for _, a := range c.addOns {
		if a.Title == title {
			return a, true
		}
	}
	return AddOn{}, false
}

// Features returns the master feature list: every feature named by any
// plan, in the order it first appears in the catalog.
func (c *Catalog) Features() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.plans {
		for _, f := range p.Features {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}
