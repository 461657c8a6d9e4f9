package catalog

// Default returns the catalog the site ships with.
func Default() *Catalog {
	c, err := New(defaultPlans(), defaultAddOns(), defaultMaintenance())
	if err != nil {
		// built-in data is fixed; a failure here is a programming error
		panic(err)
	}
	return c
}

func defaultPlans() []Plan {
	return []Plan{
		{
			ID:       1,
			Name:     "Basic Plan",
			Price:    500,
			Benefits: "Perfect for small websites.",
			Features: []string{"Responsive design", "SEO optimized", "Contact form integration"},
		},
		{
			ID:       2,
			Name:     "Standard Plan",
			Price:    1000,
			Benefits: "Great for businesses.",
			Features: []string{"Custom design", "CMS integration", "E-commerce functionality"},
		},
		{
			ID:       3,
			Name:     "Premium Plan",
			Price:    2000,
			Benefits: "Enterprise-level websites.",
			Features: []string{},
		},
	}
}

func defaultAddOns() []AddOn {
	return []AddOn{
		{
			Title:       "Additional Pages",
			Price:       100,
			Description: "Add more content to your website.",
		},
		{
			Title:       "E-commerce Integration",
			Price:       500,
			Description: "Integrate a store and manage your products online.",
		},
		{
			Title:       "Custom Animations",
			Price:       300,
			Description: "Bring your website to life with custom animations.",
		},
	}
}

func defaultMaintenance() []MaintenancePlan {
	return []MaintenancePlan{
		{Title: "Basic Maintenance", MonthlyPrice: 50, Description: "For basic monthly updates and security checks."},
		{Title: "Standard Maintenance", MonthlyPrice: 100, Description: "Includes all Basic features and priority support."},
		{Title: "Premium Maintenance", MonthlyPrice: 200, Description: "Includes advanced support, backups, and performance optimization."},
	}
}
