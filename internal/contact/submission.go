// Package contact validates contact form submissions and relays them to the
// site owner's inbox.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission is the flat record collected by the contact and booking forms.
type Submission struct {
	Name    string `json:"name" form:"fullName" validate:"required,max=200"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone,omitempty" form:"phone" validate:"omitempty,max=40"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
	Budget  string `json:"budget,omitempty" form:"budget" validate:"omitempty,max=100"`
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + strings.Join(e.Fields, ", ")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Message = strings.TrimSpace(s.Message)
	s.Budget = strings.TrimSpace(s.Budget)
	return s
}

// Validate checks required fields and the email format.
func (s Submission) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate submission: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return &ValidationError{Fields: fields}
}

// FallbackLinks are the direct email/SMS links offered when the relay fails.
type FallbackLinks struct {
	MailtoURL string `json:"mailto,omitempty"`
	SMSURL    string `json:"sms,omitempty"`
}

// Fallback builds mailto: and sms: links prefilled with the submission so the
// visitor can reach the owner directly. Empty owner details omit that link.
func Fallback(s Submission, ownerEmail, ownerPhone string) FallbackLinks {
	var links FallbackLinks
	if ownerEmail != "" {
		q := url.Values{}
		q.Set("subject", "Website inquiry from "+s.Name)
		q.Set("body", mailBody(s))
		links.MailtoURL = "mailto:" + ownerEmail + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
	}
	if ownerPhone != "" {
		q := url.Values{}
		q.Set("body", fmt.Sprintf("Hi, this is %s (%s). %s", s.Name, s.Email, s.Message))
		links.SMSURL = "sms:" + ownerPhone + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
	}
	return links
}

func mailBody(s Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", s.Name)
	fmt.Fprintf(&b, "Email: %s\n", s.Email)
	if s.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", s.Phone)
	}
	if s.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", s.Budget)
	}
	fmt.Fprintf(&b, "Message:\n%s\n", s.Message)
	return b.String()
}
