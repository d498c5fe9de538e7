package catalog

// Default returns the studio's built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultID, builtin()...)
	if err != nil {
		panic("catalog: invalid built-in catalog: " + err.Error())
	}
	return c
}

func builtin() []Package {
	return []Package{
		{
			ID:          "starter",
			Name:        "Starter Website",
			Price:       "$900 – $1,500",
			Description: "Clean, fast, custom-coded site for portfolios and small businesses.",
			Pages:       "1–3",
			Revisions:   "3",
			Timeline:    "1–2 weeks",
			ProjectType: ProjectTypeWeb,
			Features: []string{
				"Custom React components (no templates)",
				"Responsive & accessible (WCAG 2.1)",
				"Contact form + basic SEO",
				"Deployed with best practices",
				"Analytics setup",
				"Email/domain setup guidance",
			},
		},
		{
			ID:          "business",
			Name:        "Business Website",
			Price:       "$1,800 – $3,500",
			Description: "Marketing site plus content tools and integrations for growing teams.",
			Pages:       "4–7",
			Revisions:   "5",
			Timeline:    "2–3 weeks",
			Popular:     true,
			ProjectType: ProjectTypeWeb,
			Features: []string{
				"Everything from Starter",
				"CMS/admin for easy updates",
				"Multiple forms & dashboards",
				"Performance & image optimization",
				"Google Business/Maps integration",
				"Content modeling & SEO enhancements",
			},
		},
		{
			ID:          "ecommerce",
			Name:        "eCommerce Website",
			Price:       "$3,000 – $6,000+",
			Description: "Modern storefront with secure checkout, inventory, and order management.",
			Pages:       "5–10+",
			Revisions:   "Unlimited",
			Timeline:    "3–5 weeks",
			ProjectType: ProjectTypeEcommerce,
			Features: []string{
				"Stripe/PayPal integration",
				"Product catalog & orders",
				"Customer accounts & email receipts",
				"Speed & SEO tuned for conversions",
				"Admin dashboard for products",
				"Tax/shipping rules setup",
			},
		},
		{
			ID:          "custom",
			Name:        "Custom Web App",
			Price:       "Custom Quote",
			Description: "Bespoke apps, dashboards, workflows, and automation tailored to your ops.",
			Pages:       "Scoped",
			Revisions:   "Scoped",
			Timeline:    "Scoped per project",
			ProjectType: ProjectTypeWeb,
			Features: []string{
				"React front-end + Node/Express APIs",
				"Auth & role-based access",
				"MongoDB/Firebase data modeling",
				"Scalable, testable architecture",
			},
		},
	}
}
