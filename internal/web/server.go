// Package web serves the site's pages, HTMX fragments and JSON API.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nicodev/webstudio/internal/catalog"
	"github.com/nicodev/webstudio/internal/contact"
	"github.com/nicodev/webstudio/internal/content"
	"github.com/nicodev/webstudio/internal/metrics"
	"github.com/nicodev/webstudio/internal/session"
	"github.com/nicodev/webstudio/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Options wires the server's collaborators.
type Options struct {
	Catalog       *catalog.Catalog
	Sessions      *session.Store
	SessionTTL    time.Duration
	Contact       *contact.Service
	Content       content.Source
	DB            *store.DB
	Logger        *slog.Logger
	Admin         AdminCredentials
	CORSOrigins   []string
	ContactPerMin int
	SecureCookies bool
	StaticDir     string // served at /static when set
}

// Server holds handler dependencies.
type Server struct {
	catalog       *catalog.Catalog
	sessions      *session.Store
	sessionTTL    time.Duration
	contact       *contact.Service
	content       content.Source
	db            *store.DB
	logger        *slog.Logger
	admin         *adminAuth
	contactLimit  *rateLimiter
	secureCookies bool
	corsOrigins   []string
	staticDir     string
}

// NewServer creates a Server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.ContactPerMin <= 0 {
		opts.ContactPerMin = 5
	}
	return &Server{
		catalog:       opts.Catalog,
		sessions:      opts.Sessions,
		sessionTTL:    opts.SessionTTL,
		contact:       opts.Contact,
		content:       opts.Content,
		db:            opts.DB,
		logger:        opts.Logger,
		admin:         newAdminAuth(opts.Admin, opts.Logger),
		contactLimit:  newRateLimiter(opts.ContactPerMin),
		secureCookies: opts.SecureCookies,
		corsOrigins:   opts.CORSOrigins,
		staticDir:     opts.StaticDir,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())

	if len(s.corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.corsOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "HX-Request"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")))
	if s.staticDir != "" {
		r.Static("/static", s.staticDir)
	}

	r.GET("/healthz", s.health)
	r.GET("/metrics", metrics.Handler())

	site := r.Group("/")
	site.Use(s.visitorTracking(), s.sessionMiddleware())
	{
		site.GET("/", s.index)
		site.GET("/pricing", s.pricingFragment)
		site.POST("/pricing/plan/:id", s.selectPlanFragment)
		site.POST("/pricing/addons/toggle", s.toggleAddOnFragment)
		site.GET("/contact-form", s.contactForm)
		site.POST("/contact", s.contactLimit.middleware(), s.submitContact)
	}

	api := r.Group("/api")
	api.Use(s.sessionMiddleware())
	{
		api.GET("/catalog", s.getCatalog)
		api.GET("/plans", s.filterPlans)
		api.GET("/selection", s.getSelection)
		api.POST("/selection/plan", s.selectPlan)
		api.DELETE("/selection/plan", s.clearPlan)
		api.POST("/selection/addons/toggle", s.toggleAddOn)
		api.POST("/selection/checkout", s.checkout)
		api.GET("/compare", s.getComparison)
		api.POST("/compare/toggle", s.toggleComparison)
		api.GET("/projects", s.listProjects)
		api.GET("/testimonials", s.listTestimonials)
	}

	s.registerAdminRoutes(r)
	return r
}

func (s *Server) health(c *gin.Context) {
	if s.db != nil {
		if err := s.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var templateFuncs = template.FuncMap{
	"dollars": func(n int) string {
		return "$" + humanize.Comma(int64(n))
	},
	"inc": func(i int) int { return i + 1 },
}
