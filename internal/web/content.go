package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicodev/webstudio/internal/content"
)

// index renders the home page. A content outage degrades to an empty
// portfolio rather than an error page.
func (s *Server) index(c *gin.Context) {
	ctx := c.Request.Context()

	projects, err := s.content.Projects(ctx)
	if err != nil {
		s.logger.Warn("projects unavailable", "error", err)
	}
	testimonials, err := s.content.Testimonials(ctx)
	if err != nil {
		s.logger.Warn("testimonials unavailable", "error", err)
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"aboutMe":      content.AboutMe,
		"projects":     projects,
		"testimonials": testimonials,
		"plans":        s.catalog.Plans(),
		"maintenance":  s.catalog.Maintenance(),
	})
}

func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.content.Projects(c.Request.Context())
	if err != nil {
		respondError(c, s.logger, errUpstream("content unavailable", err))
		return
	}
	if projects == nil {
		projects = []content.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (s *Server) listTestimonials(c *gin.Context) {
	testimonials, err := s.content.Testimonials(c.Request.Context())
	if err != nil {
		respondError(c, s.logger, errUpstream("content unavailable", err))
		return
	}
	if testimonials == nil {
		testimonials = []content.Testimonial{}
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}
