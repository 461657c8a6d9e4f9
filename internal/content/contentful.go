package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultContentfulURL is the Contentful Content Delivery API.
const DefaultContentfulURL = "https://cdn.contentful.com"

// ContentfulConfig configures a ContentfulClient.
type ContentfulConfig struct {
	BaseURL     string
	SpaceID     string
	AccessToken string
	Environment string
	HTTPClient  *http.Client
}

// ContentfulClient reads entries from the Contentful Delivery API.
type ContentfulClient struct {
	baseURL string
	space   string
	token   string
	env     string
	http    *http.Client
}

// NewContentfulClient creates a client. Environment defaults to "master".
func NewContentfulClient(cfg ContentfulConfig) *ContentfulClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultContentfulURL
	}
	if cfg.Environment == "" {
		cfg.Environment = "master"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &ContentfulClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		space:   cfg.SpaceID,
		token:   cfg.AccessToken,
		env:     cfg.Environment,
		http:    cfg.HTTPClient,
	}
}

type entriesResponse struct {
	Items []struct {
		Fields json.RawMessage `json:"fields"`
	} `json:"items"`
	Includes struct {
		Asset []struct {
			Sys struct {
				ID string `json:"id"`
			} `json:"sys"`
			Fields struct {
				File struct {
					URL string `json:"url"`
				} `json:"file"`
			} `json:"fields"`
		} `json:"Asset"`
	} `json:"includes"`
}

type link struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
}

// assets maps asset ids to absolute URLs.
func (r *entriesResponse) assets() map[string]string {
	out := make(map[string]string, len(r.Includes.Asset))
	for _, a := range r.Includes.Asset {
		out[a.Sys.ID] = absoluteURL(a.Fields.File.URL)
	}
	return out
}

func absoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

func ensureHTTPS(u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

func (c *ContentfulClient) entries(ctx context.Context, contentType string) (*entriesResponse, error) {
	q := url.Values{}
	q.Set("content_type", contentType)
	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.baseURL, url.PathEscape(c.space), url.PathEscape(c.env), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", contentType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", contentType, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out entriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", contentType, err)
	}
	return &out, nil
}

// Projects fetches portfolioProjects entries.
func (c *ContentfulClient) Projects(ctx context.Context) ([]Project, error) {
	resp, err := c.entries(ctx, "portfolioProjects")
	if err != nil {
		return nil, err
	}
	assets := resp.assets()

	projects := make([]Project, 0, len(resp.Items))
	for _, item := range resp.Items {
		var f struct {
			Header        string `json:"header"`
			Description   string `json:"description"`
			Link          string `json:"link"`
			ProjectHeader *link  `json:"projectHeader"`
		}
		if err := json.Unmarshal(item.Fields, &f); err != nil {
			return nil, fmt.Errorf("decode project fields: %w", err)
		}
		p := Project{Title: f.Header, Description: f.Description, Link: ensureHTTPS(f.Link)}
		if f.ProjectHeader != nil {
			p.ImageURL = assets[f.ProjectHeader.Sys.ID]
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Testimonials fetches testimonials entries.
func (c *ContentfulClient) Testimonials(ctx context.Context) ([]Testimonial, error) {
	resp, err := c.entries(ctx, "testimonials")
	if err != nil {
		return nil, err
	}
	assets := resp.assets()

	out := make([]Testimonial, 0, len(resp.Items))
	for _, item := range resp.Items {
		var f struct {
			PersonName  string    `json:"testimonialPersonName"`
			Title       string    `json:"title"`
			Headline    string    `json:"headline"`
			Full        string    `json:"fullTestimonial"`
			PersonImage *link     `json:"TestimonialPersonImage"`
			Date        string    `json:"testimonialdate"`
			Website     string    `json:"websiteLink1"`
			Location    *Location `json:"location"`
		}
		if err := json.Unmarshal(item.Fields, &f); err != nil {
			return nil, fmt.Errorf("decode testimonial fields: %w", err)
		}
		t := Testimonial{
			PersonName: f.PersonName,
			Title:      f.Title,
			Headline:   f.Headline,
			Body:       f.Full,
			Website:    ensureHTTPS(f.Website),
			Location:   f.Location,
		}
		if f.PersonImage != nil {
			t.ImageURL = assets[f.PersonImage.Sys.ID]
		}
		if d, ok := parseDate(f.Date); ok {
			t.Date = &d
		}
		out = append(out, t)
	}
	return out, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
