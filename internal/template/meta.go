package template

import "strings"

// SiteName is appended to every page title.
const SiteName = "Boswell Web Development"

const (
	defaultDescription = "Custom web development for small businesses: fast, accessible websites and online stores built by hand."
	defaultKeywords    = "web development, small business website, ecommerce, react developer, custom website"
)

// Meta is the SEO metadata rendered into the head of every page.
type Meta struct {
	Title       string
	Description string
	Keywords    string
	URL         string
	Image       string
}

// NewMeta builds metadata for the page at path under siteURL. Empty title or
// description fall back to the site defaults.
func NewMeta(siteURL, path, title, description string) Meta {
	siteURL = strings.TrimSuffix(siteURL, "/")

	full := SiteName
	if title != "" {
		full = title + " | " + SiteName
	}
	if description == "" {
		description = defaultDescription
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}

	return Meta{
		Title:       full,
		Description: description,
		Keywords:    defaultKeywords,
		URL:         siteURL + path,
		Image:       siteURL + "/og-image.svg",
	}
}
