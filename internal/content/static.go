package content

import "context"

// AboutMe is the intro copy on the home page.
const AboutMe = `I'm Nico, a frontend engineer with a background in tech, design and marketing.
I build fast, good-looking websites for local businesses: custom designs, local SEO,
responsive layouts and subtle animation that guides visitors toward booking or buying.`

// StaticSource serves the built-in copy. It is used when no CMS is configured.
type StaticSource struct{}

var staticProjects = []Project{
	{
		Title: "Bakery storefront",
		Description: `A responsive storefront for a neighborhood bakery with online pre-orders,
		a seasonal menu managed from a headless CMS and local SEO that doubled map-pack visits.`,
	},
	{
		Title: "Fitness studio booking",
		Description: `Class schedule and booking system for a small gym, with membership
		sign-up, email reminders and a mobile-first layout.`,
	},
	{
		Title: "Photographer portfolio",
		Description: `An interactive gallery with lazy-loaded images, custom page transitions
		and a contact form that routes inquiries by shoot type.`,
	},
}

// Projects returns the built-in projects.
func (StaticSource) Projects(context.Context) ([]Project, error) {
	out := make([]Project, len(staticProjects))
	copy(out, staticProjects)
	return out, nil
}

// Testimonials returns none; quotes only come from the CMS.
func (StaticSource) Testimonials(context.Context) ([]Testimonial, error) {
	return []Testimonial{}, nil
}
