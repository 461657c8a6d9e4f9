// Package pricing derives quotes and plan comparisons from a visitor's
// plan and add-on choices.
package pricing

import (
	"errors"
	"slices"

	"github.com/nicodev/webstudio/internal/catalog"
)

// ErrNoPlanSelected is returned when an add-on is toggled before a plan is chosen.
var ErrNoPlanSelected = errors.New("no plan selected")

// Selection is one visitor's current plan and add-on choices. The zero
// value has no plan selected. A Selection is not safe for concurrent use.
type Selection struct {
	plan   *catalog.Plan
	addOns []catalog.AddOn
}

// SelectPlan makes p the selected plan and clears any add-ons, including
// when p is already selected.
func (s *Selection) SelectPlan(p catalog.Plan) {
	p.Features = slices.Clone(p.Features)
	s.plan = &p
	s.addOns = nil
}

// ClearPlan deselects the plan and its add-ons.
func (s *Selection) ClearPlan() {
	s.plan = nil
	s.addOns = nil
}

// ToggleAddOn adds a to the selection, or removes it if already present.
// Membership is keyed by title.
func (s *Selection) ToggleAddOn(a catalog.AddOn) error {
	if s.plan == nil {
		return ErrNoPlanSelected
	}
	if i := s.indexOf(a.Title); i >= 0 {
		s.addOns = slices.Delete(s.addOns, i, i+1)
		return nil
	}
	s.addOns = append(s.addOns, a)
	return nil
}

func (s *Selection) indexOf(title string) int {
	return slices.IndexFunc(s.addOns, func(a catalog.AddOn) bool {
		return a.Title == title
	})
}

// Plan returns the selected plan, if any.
func (s *Selection) Plan() (catalog.Plan, bool) {
	if s.plan == nil {
		return catalog.Plan{}, false
	}
	p := *s.plan
	p.Features = slices.Clone(p.Features)
	return p, true
}

// AddOns returns the selected add-ons in the order they were toggled on.
func (s *Selection) AddOns() []catalog.AddOn {
	return slices.Clone(s.addOns)
}

// HasAddOn reports whether the add-on with the given title is selected.
func (s *Selection) HasAddOn(title string) bool {
	return s.indexOf(title) >= 0
}

// Total is the selected plan's price plus every selected add-on's price,
// or 0 with no plan.
func (s *Selection) Total() int {
	if s.plan == nil {
		return 0
	}
	return Total(*s.plan, s.addOns)
}

// Total computes plan.Price plus the sum of the add-on prices.
func Total(plan catalog.Plan, addOns []catalog.AddOn) int {
	total := plan.Price
	for _, a := range addOns {
		total += a.Price
	}
	return total
}

// Quote is a read-only view of a Selection for rendering.
type Quote struct {
	PlanID    int             `json:"planId,omitempty"`
	PlanName  string          `json:"planName,omitempty"`
	PlanPrice int             `json:"planPrice"`
	AddOns    []catalog.AddOn `json:"addOns"`
	Total     int             `json:"total"`
	Selected  bool            `json:"selected"`
}

// Snapshot returns the current quote.
func (s *Selection) Snapshot() Quote {
	q := Quote{AddOns: s.AddOns(), Total: s.Total()}
	if q.AddOns == nil {
		q.AddOns = []catalog.AddOn{}
	}
	if s.plan != nil {
		q.Selected = true
		q.PlanID = s.plan.ID
		q.PlanName = s.plan.Name
		q.PlanPrice = s.plan.Price
	}
	return q
}
