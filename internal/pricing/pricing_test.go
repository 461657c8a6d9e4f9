package pricing

import (
	"testing"

	"github.com/nicodev/webstudio/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPlan(t *testing.T, c *catalog.Catalog, id int) catalog.Plan {
	t.Helper()
	p, ok := c.Plan(id)
	require.True(t, ok, "plan %d", id)
	return p
}

func mustAddOn(t *testing.T, c *catalog.Catalog, title string) catalog.AddOn {
	t.Helper()
	a, ok := c.AddOn(title)
	require.True(t, ok, "add-on %q", title)
	return a
}

func TestSelection_ZeroValue(t *testing.T) {
	var s Selection
	_, ok := s.Plan()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Total())

	q := s.Snapshot()
	assert.False(t, q.Selected)
	assert.Equal(t, []catalog.AddOn{}, q.AddOns)
}

func TestTotal_PlanOnly(t *testing.T) {
	c := catalog.Default()
	for _, p := range c.Plans() {
		var s Selection
		s.SelectPlan(p)
		assert.Equal(t, p.Price, s.Total(), p.Name)
	}
}

func TestTotal_EverySubset(t *testing.T) {
	c := catalog.Default()
	addOns := c.AddOns()

	for _, p := range c.Plans() {
		for mask := 0; mask < 1<<len(addOns); mask++ {
			var s Selection
			s.SelectPlan(p)
			want := p.Price
			for i, a := range addOns {
				if mask&(1<<i) != 0 {
					require.NoError(t, s.ToggleAddOn(a))
					want += a.Price
				}
			}
			assert.Equal(t, want, s.Total(), "plan %s mask %b", p.Name, mask)
		}
	}
}

func TestToggleAddOn_TwiceRestores(t *testing.T) {
	c := catalog.Default()
	var s Selection
	s.SelectPlan(mustPlan(t, c, 1))
	require.NoError(t, s.ToggleAddOn(mustAddOn(t, c, "Custom Animations")))

	before := s.AddOns()
	a := mustAddOn(t, c, "Additional Pages")
	require.NoError(t, s.ToggleAddOn(a))
	require.NoError(t, s.ToggleAddOn(a))

	assert.ElementsMatch(t, before, s.AddOns())
}

func TestToggleAddOn_InsertionOrder(t *testing.T) {
	c := catalog.Default()
	var s Selection
	s.SelectPlan(mustPlan(t, c, 2))
	require.NoError(t, s.ToggleAddOn(mustAddOn(t, c, "Custom Animations")))
	require.NoError(t, s.ToggleAddOn(mustAddOn(t, c, "Additional Pages")))

	got := s.AddOns()
	require.Len(t, got, 2)
	assert.Equal(t, "Custom Animations", got[0].Title)
	assert.Equal(t, "Additional Pages", got[1].Title)
	assert.True(t, s.HasAddOn("Additional Pages"))
	assert.False(t, s.HasAddOn("E-commerce Integration"))
}

func TestToggleAddOn_WithoutPlan(t *testing.T) {
	c := catalog.Default()
	var s Selection
	err := s.ToggleAddOn(mustAddOn(t, c, "Additional Pages"))
	assert.ErrorIs(t, err, ErrNoPlanSelected)
	assert.Empty(t, s.AddOns())
}

func TestSelectPlan_ClearsAddOns(t *testing.T) {
	c := catalog.Default()
	var s Selection
	s.SelectPlan(mustPlan(t, c, 1))
	for _, a := range c.AddOns() {
		require.NoError(t, s.ToggleAddOn(a))
	}

	s.SelectPlan(mustPlan(t, c, 2))
	assert.Empty(t, s.AddOns())
}

func TestSelectPlan_ReselectSameClearsAddOns(t *testing.T) {
	c := catalog.Default()
	basic := mustPlan(t, c, 1)
	var s Selection
	s.SelectPlan(basic)
	require.NoError(t, s.ToggleAddOn(mustAddOn(t, c, "Custom Animations")))

	s.SelectPlan(basic)
	assert.Empty(t, s.AddOns())
	assert.Equal(t, 500, s.Total())
}

func TestClearPlan(t *testing.T) {
	c := catalog.Default()
	var s Selection
	s.SelectPlan(mustPlan(t, c, 1))
	require.NoError(t, s.ToggleAddOn(mustAddOn(t, c, "Custom Animations")))

	s.ClearPlan()
	_, ok := s.Plan()
	assert.False(t, ok)
	assert.Empty(t, s.AddOns())
	assert.Equal(t, 0, s.Total())
}

func TestScenario_BasicWithEcommerce(t *testing.T) {
	c := catalog.Default()
	var s Selection
	s.SelectPlan(mustPlan(t, c, 1))
	ecommerce := mustAddOn(t, c, "E-commerce Integration")

	require.NoError(t, s.ToggleAddOn(ecommerce))
	assert.Equal(t, 1000, s.Total())

	require.NoError(t, s.ToggleAddOn(ecommerce))
	assert.Equal(t, 500, s.Total())
}

func TestScenario_StandardThenPremium(t *testing.T) {
	c := catalog.Default()
	var s Selection
	s.SelectPlan(mustPlan(t, c, 2))
	require.NoError(t, s.ToggleAddOn(mustAddOn(t, c, "Additional Pages")))
	s.SelectPlan(mustPlan(t, c, 3))

	p, ok := s.Plan()
	require.True(t, ok)
	assert.Equal(t, "Premium Plan", p.Name)
	assert.Empty(t, s.AddOns())
	assert.Equal(t, 2000, s.Total())

	q := s.Snapshot()
	assert.True(t, q.Selected)
	assert.Equal(t, 3, q.PlanID)
	assert.Equal(t, 2000, q.PlanPrice)
	assert.Equal(t, 2000, q.Total)
}

func TestSelection_PlanIsCopied(t *testing.T) {
	c := catalog.Default()
	p := mustPlan(t, c, 1)
	var s Selection
	s.SelectPlan(p)
	p.Features[0] = "changed"

	got, _ := s.Plan()
	assert.Equal(t, "Responsive design", got.Features[0])
}

func TestCompare_Matrix(t *testing.T) {
	c := catalog.Default()
	features := c.Features()

	orders := [][]int{{1}, {2, 1}, {3, 1, 2}, {}}
	for _, ids := range orders {
		var plans []catalog.Plan
		for _, id := range ids {
			plans = append(plans, mustPlan(t, c, id))
		}

		rows := Compare(plans, features)
		require.Len(t, rows, len(features))
		for i, row := range rows {
			assert.Equal(t, features[i], row.Feature)
			require.Len(t, row.Included, len(plans))
			for j, p := range plans {
				assert.Equal(t, p.Includes(row.Feature), row.Included[j])
			}
		}
	}
}

func TestCompare_EmptyFeaturesPlan(t *testing.T) {
	c := catalog.Default()
	premium := mustPlan(t, c, 3)

	rows := Compare([]catalog.Plan{premium}, c.Features())
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Equal(t, []bool{false}, row.Included)
	}

	assert.Empty(t, Compare([]catalog.Plan{premium}, nil))
}

func TestComparison_ToggleKeepsPickOrder(t *testing.T) {
	c := catalog.Default()
	var cmp Comparison
	cmp.Toggle(mustPlan(t, c, 3))
	cmp.Toggle(mustPlan(t, c, 1))
	cmp.Toggle(mustPlan(t, c, 2))
	assert.Equal(t, []int{3, 1, 2}, cmp.IDs())

	cmp.Toggle(mustPlan(t, c, 1))
	assert.Equal(t, []int{3, 2}, cmp.IDs())

	plans := cmp.Plans()
	require.Len(t, plans, 2)
	assert.Equal(t, "Premium Plan", plans[0].Name)
}

func TestFilterByFeatures(t *testing.T) {
	c := catalog.Default()
	plans := c.Plans()

	assert.Len(t, FilterByFeatures(plans, nil), 3)

	got := FilterByFeatures(plans, []string{"SEO optimized"})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)

	assert.Empty(t, FilterByFeatures(plans, []string{"SEO optimized", "CMS integration"}))
}

func TestToggleFeature(t *testing.T) {
	list := ToggleFeature(nil, "a")
	list = ToggleFeature(list, "b")
	assert.Equal(t, []string{"a", "b"}, list)

	original := list
	list = ToggleFeature(list, "a")
	assert.Equal(t, []string{"b"}, list)
	assert.Equal(t, []string{"a", "b"}, original)
}
