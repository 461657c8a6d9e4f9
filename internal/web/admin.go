package web

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nicodev/webstudio/internal/store"
)

const (
	adminCookie = "admin_token"

	// VisitorRetention is how long page views are kept.
	VisitorRetention = 365 * 24 * time.Hour
)

// AdminCredentials are the dashboard login. Empty fields fall back to
// development defaults.
type AdminCredentials struct {
	Username string
	Password string
}

type adminAuth struct {
	creds  AdminCredentials
	token  string
	salt   string
	logger *slog.Logger
}

func newAdminAuth(creds AdminCredentials, logger *slog.Logger) *adminAuth {
	if creds.Username == "" {
		creds.Username = "admin"
		logger.Warn("using default admin username, set ADMIN_USERNAME")
	}
	if creds.Password == "" {
		creds.Password = "admin123"
		logger.Warn("using default admin password, set ADMIN_PASSWORD")
	}
	return &adminAuth{
		creds:  creds,
		token:  generateToken(),
		salt:   generateToken(),
		logger: logger,
	}
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("admin: read random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// hashIP returns a salted, truncated digest so raw addresses never reach the
// database. The salt lives only in memory.
func (a *adminAuth) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (a *adminAuth) checkLogin(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password))
	return u&p == 1
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// shouldTrack skips assets, admin pages, the privacy page and visitors who
// send Do Not Track.
func shouldTrack(path, dnt string) bool {
	if dnt == "1" {
		return false
	}
	for _, prefix := range []string{"/static/", "/images/", "/admin", "/favicon", "/privacy"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if s.db == nil || !shouldTrack(path, c.GetHeader("DNT")) {
			c.Next()
			return
		}

		hashed := s.admin.hashIP(c.ClientIP())
		ua := c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.db.RecordVisit(ctx, hashed, ua, path, time.Now()); err != nil {
				s.logger.Error("error recording visitor", "error", err)
			}
		}()
		c.Next()
	}
}

// RunVisitorCleanup deletes page views older than VisitorRetention now and
// then every interval until ctx is done.
func RunVisitorCleanup(ctx context.Context, db *store.DB, logger *slog.Logger, interval time.Duration) {
	cleanupVisitors(ctx, db, logger)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanupVisitors(ctx, db, logger)
		}
	}
}

func cleanupVisitors(ctx context.Context, db *store.DB, logger *slog.Logger) int64 {
	n, err := db.CleanupVisitors(ctx, time.Now().Add(-VisitorRetention))
	if err != nil {
		logger.Error("error cleaning up old visitor data", "error", err)
		return 0
	}
	if n > 0 {
		logger.Info("privacy cleanup removed old visitor records", "count", n)
	}
	return n
}

func (s *Server) registerAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{"title": "Privacy Policy"})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})
	r.POST("/admin/login", s.adminLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.secureCookies, true)
		s.logger.Info("admin logout", "visitor", s.admin.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.admin.middleware())
	{
		admin.GET("/dashboard", s.adminDashboard)
		admin.GET("/api/stats", s.adminStats)
		admin.GET("/messages", s.adminMessages)
		admin.GET("/visitors", s.adminVisitors)
		admin.GET("/export/stats", s.adminExport)
		admin.POST("/privacy/cleanup", s.adminCleanup)
	}
}

func (s *Server) adminLogin(c *gin.Context) {
	visitor := s.admin.hashIP(c.ClientIP())
	if !s.admin.checkLogin(c.PostForm("username"), c.PostForm("password")) {
		s.logger.Warn("failed admin login attempt", "visitor", visitor)
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", s.secureCookies, true)
	s.logger.Info("admin login successful", "visitor", visitor)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// dashboardData gathers what the dashboard and its JSON twins show.
type dashboardData struct {
	*store.Stats
	RecentVisitors []store.Visitor        `json:"recent_visitors"`
	RecentMessages []store.ContactMessage `json:"recent_messages"`
	ActiveSessions int                    `json:"active_sessions"`
}

func (s *Server) loadDashboard(ctx context.Context) (*dashboardData, error) {
	stats, err := s.db.Stats(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	visitors, err := s.db.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	messages, err := s.db.RecentMessages(ctx, 10)
	if err != nil {
		return nil, err
	}
	return &dashboardData{
		Stats:          stats,
		RecentVisitors: visitors,
		RecentMessages: messages,
		ActiveSessions: s.sessions.Len(),
	}, nil
}

func (s *Server) adminError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, "error", err)
	c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": msg})
}

func (s *Server) adminDashboard(c *gin.Context) {
	data, err := s.loadDashboard(c.Request.Context())
	if err != nil {
		s.adminError(c, "Failed to load statistics", err)
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": data})
}

func (s *Server) adminStats(c *gin.Context) {
	data, err := s.loadDashboard(c.Request.Context())
	if err != nil {
		respondError(c, s.logger, errInternal("failed to load statistics", err))
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) adminMessages(c *gin.Context) {
	messages, err := s.db.RecentMessages(c.Request.Context(), 200)
	if err != nil {
		s.adminError(c, "Failed to load messages", err)
		return
	}
	c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": messages})
}

func (s *Server) adminVisitors(c *gin.Context) {
	visitors, err := s.db.RecentVisitors(c.Request.Context(), 200)
	if err != nil {
		s.adminError(c, "Failed to load visitors", err)
		return
	}
	c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
}

func (s *Server) adminExport(c *gin.Context) {
	data, err := s.loadDashboard(c.Request.Context())
	if err != nil {
		respondError(c, s.logger, errInternal("failed to load statistics", err))
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	s.logger.Info("admin stats exported", "visitor", s.admin.hashIP(c.ClientIP()))
	c.JSON(http.StatusOK, data)
}

func (s *Server) adminCleanup(c *gin.Context) {
	n := cleanupVisitors(c.Request.Context(), s.db, s.logger)
	c.JSON(http.StatusOK, gin.H{"message": "privacy cleanup complete", "removed": n})
}
