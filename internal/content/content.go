// Package content supplies the portfolio projects and testimonials shown on
// the site, from the headless CMS when one is configured.
package content

import (
	"context"
	"time"
)

// Project is a portfolio entry.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Location is where a testimonial's project took place.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Testimonial is a client quote.
type Testimonial struct {
	PersonName string     `json:"personName"`
	Title      string     `json:"title,omitempty"`
	Headline   string     `json:"headline,omitempty"`
	Body       string     `json:"body,omitempty"`
	ImageURL   string     `json:"imageUrl,omitempty"`
	Website    string     `json:"website,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	Location   *Location  `json:"location,omitempty"`
}

// Source provides site content. One Source is built at startup and shared
// by every handler that renders content.
type Source interface {
	Projects(ctx context.Context) ([]Project, error)
	Testimonials(ctx context.Context) ([]Testimonial, error)
}
