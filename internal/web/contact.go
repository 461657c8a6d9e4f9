package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nicodev/webstudio/internal/contact"
	"github.com/nicodev/webstudio/internal/store"
)

// ContactRecorder stores contact submissions in the site database.
type ContactRecorder struct {
	DB *store.DB
}

// Record saves s as an undelivered message.
func (r ContactRecorder) Record(ctx context.Context, s contact.Submission) (string, error) {
	return r.DB.SaveContactMessage(ctx, store.ContactMessage{
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Message: s.Message,
		Budget:  s.Budget,
	})
}

// MarkDelivered flags the message as relayed.
func (r ContactRecorder) MarkDelivered(ctx context.Context, id string) error {
	return r.DB.MarkDelivered(ctx, id)
}

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title":  "Contact Me",
		"budget": c.Query("budget"),
	})
}

// submitContact answers HTMX posts with a fragment and API clients that send
// Accept: application/json with JSON.
func (s *Server) submitContact(c *gin.Context) {
	wantsJSON := strings.Contains(c.GetHeader("Accept"), "application/json")

	var sub contact.Submission
	if err := c.ShouldBind(&sub); err != nil {
		if wantsJSON {
			respondError(c, s.logger, errBadRequest("malformed submission"))
			return
		}
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, we couldn't read your message. Please try again.",
		})
		return
	}

	res, err := s.contact.Submit(c.Request.Context(), sub)
	if err != nil {
		var verr *contact.ValidationError
		if !errors.As(err, &verr) {
			respondError(c, s.logger, errInternal("failed to submit message", err))
			return
		}
		if wantsJSON {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "please fill in your name, a valid email and a message",
				"fields": verr.Fields,
			})
			return
		}
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error":  "Please fill in your name, a valid email and a message.",
			"fields": verr.Fields,
		})
		return
	}

	if wantsJSON {
		c.JSON(http.StatusOK, res)
		return
	}
	if !res.Sent {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error":    "Sorry, there was an error sending your message. You can reach me directly instead:",
			"fallback": fallbackLinks(res.Fallback),
		})
		return
	}
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}

type fallbackView struct {
	MailtoURL template.URL
	SMSURL    template.URL
}

// fallbackLinks marks the links as trusted; html/template would otherwise
// replace the sms: scheme.
func fallbackLinks(l *contact.FallbackLinks) *fallbackView {
	if l == nil {
		return nil
	}
	return &fallbackView{
		MailtoURL: template.URL(l.MailtoURL),
		SMSURL:    template.URL(l.SMSURL),
	}
}
