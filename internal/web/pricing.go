package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nicodev/webstudio/internal/catalog"
	"github.com/nicodev/webstudio/internal/metrics"
	"github.com/nicodev/webstudio/internal/pricing"
	"github.com/nicodev/webstudio/internal/store"
)

type planRequest struct {
	PlanID int `json:"planId" binding:"required"`
}

type addOnRequest struct {
	Title string `json:"title" binding:"required"`
}

func (s *Server) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"plans":       s.catalog.Plans(),
		"addOns":      s.catalog.AddOns(),
		"maintenance": s.catalog.Maintenance(),
		"features":    s.catalog.Features(),
	})
}

// filterPlans lists plans offering every ?feature= given.
func (s *Server) filterPlans(c *gin.Context) {
	required := c.QueryArray("feature")
	c.JSON(http.StatusOK, gin.H{
		"features": required,
		"plans":    pricing.FilterByFeatures(s.catalog.Plans(), required),
	})
}

func (s *Server) getSelection(c *gin.Context) {
	c.JSON(http.StatusOK, quoteOf(c))
}

func (s *Server) selectPlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.logger, errBadRequest("planId is required"))
		return
	}
	quote, err := s.applyPlan(c, req.PlanID)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (s *Server) clearPlan(c *gin.Context) {
	var quote pricing.Quote
	withSession(c, func(sel *pricing.Selection, _ *pricing.Comparison) {
		sel.ClearPlan()
		quote = sel.Snapshot()
	})
	c.JSON(http.StatusOK, quote)
}

func (s *Server) toggleAddOn(c *gin.Context) {
	var req addOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.logger, errBadRequest("title is required"))
		return
	}
	quote, err := s.applyAddOn(c, req.Title)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// checkout stores the session's quote so the booking can refer to it.
func (s *Server) checkout(c *gin.Context) {
	quote := quoteOf(c)
	if !quote.Selected {
		respondError(c, s.logger, errConflict("select a plan before checking out"))
		return
	}

	rec := store.QuoteRecord{
		PlanID:   quote.PlanID,
		PlanName: quote.PlanName,
		AddOns:   make([]string, 0, len(quote.AddOns)),
		Total:    quote.Total,
	}
	for _, a := range quote.AddOns {
		rec.AddOns = append(rec.AddOns, a.Title)
	}

	if s.db != nil {
		saved, err := s.db.SaveQuote(c.Request.Context(), rec)
		if err != nil {
			respondError(c, s.logger, errInternal("failed to save quote", err))
			return
		}
		rec = saved
	}
	metrics.QuoteTotal.Observe(float64(quote.Total))
	s.logger.Info("quote checked out", "plan", rec.PlanName, "add_ons", len(rec.AddOns), "total", rec.Total)
	c.JSON(http.StatusCreated, rec)
}

type comparisonView struct {
	Plans []catalog.Plan          `json:"plans"`
	Rows  []pricing.ComparisonRow `json:"rows"`
}

func (s *Server) getComparison(c *gin.Context) {
	var plans []catalog.Plan
	withSession(c, func(_ *pricing.Selection, cmp *pricing.Comparison) {
		plans = cmp.Plans()
	})
	c.JSON(http.StatusOK, s.comparison(plans))
}

func (s *Server) toggleComparison(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.logger, errBadRequest("planId is required"))
		return
	}
	plan, ok := s.catalog.Plan(req.PlanID)
	if !ok {
		respondError(c, s.logger, errNotFound("plan not found"))
		return
	}

	var plans []catalog.Plan
	withSession(c, func(_ *pricing.Selection, cmp *pricing.Comparison) {
		cmp.Toggle(plan)
		plans = cmp.Plans()
	})
	c.JSON(http.StatusOK, s.comparison(plans))
}

func (s *Server) comparison(plans []catalog.Plan) comparisonView {
	if plans == nil {
		plans = []catalog.Plan{}
	}
	rows := pricing.Compare(plans, s.catalog.Features())
	if rows == nil {
		rows = []pricing.ComparisonRow{}
	}
	return comparisonView{Plans: plans, Rows: rows}
}

func (s *Server) applyPlan(c *gin.Context, id int) (pricing.Quote, error) {
	plan, ok := s.catalog.Plan(id)
	if !ok {
		return pricing.Quote{}, errNotFound("plan not found")
	}
	var quote pricing.Quote
	withSession(c, func(sel *pricing.Selection, _ *pricing.Comparison) {
		sel.SelectPlan(plan)
		quote = sel.Snapshot()
	})
	metrics.PlanSelectionsTotal.WithLabelValues(plan.Name).Inc()
	return quote, nil
}

func (s *Server) applyAddOn(c *gin.Context, title string) (pricing.Quote, error) {
	addOn, ok := s.catalog.AddOn(title)
	if !ok {
		return pricing.Quote{}, errNotFound("add-on not found")
	}
	var (
		quote pricing.Quote
		err   error
	)
	withSession(c, func(sel *pricing.Selection, _ *pricing.Comparison) {
		err = sel.ToggleAddOn(addOn)
		quote = sel.Snapshot()
	})
	if errors.Is(err, pricing.ErrNoPlanSelected) {
		return quote, errConflict("select a plan before adding extras")
	}
	return quote, err
}

func quoteOf(c *gin.Context) pricing.Quote {
	var quote pricing.Quote
	withSession(c, func(sel *pricing.Selection, _ *pricing.Comparison) {
		quote = sel.Snapshot()
	})
	return quote
}

// HTMX fragments. Each renders the whole pricing section so the page swaps
// it in place.

func (s *Server) pricingFragment(c *gin.Context) {
	s.renderPricing(c, http.StatusOK, "")
}

func (s *Server) selectPlanFragment(c *gin.Context) {
	// HTMX only swaps 2xx responses by default, so notices render with 200.
	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		_, err = s.applyPlan(c, id)
	}
	if err != nil {
		s.renderPricing(c, http.StatusOK, "Unknown plan.")
		return
	}
	s.renderPricing(c, http.StatusOK, "")
}

func (s *Server) toggleAddOnFragment(c *gin.Context) {
	_, err := s.applyAddOn(c, c.PostForm("title"))
	var appErr *AppError
	if errors.As(err, &appErr) {
		s.renderPricing(c, http.StatusOK, appErr.Message)
		return
	}
	s.renderPricing(c, http.StatusOK, "")
}

type addOnView struct {
	catalog.AddOn
	Selected bool
}

func (s *Server) renderPricing(c *gin.Context, status int, notice string) {
	var (
		quote  pricing.Quote
		addOns []addOnView
	)
	withSession(c, func(sel *pricing.Selection, _ *pricing.Comparison) {
		quote = sel.Snapshot()
		for _, a := range s.catalog.AddOns() {
			addOns = append(addOns, addOnView{AddOn: a, Selected: sel.HasAddOn(a.Title)})
		}
	})
	c.HTML(status, "pricing.html", gin.H{
		"plans":       s.catalog.Plans(),
		"addOns":      addOns,
		"maintenance": s.catalog.Maintenance(),
		"quote":       quote,
		"notice":      notice,
	})
}
