// Package catalog holds the fixed pricing packages offered on the contact page.
package catalog

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

const (
	// DefaultID is the package preselected on the contact form.
	DefaultID = "starter"

	// ProjectTypeWeb is the project type implied by most packages.
	ProjectTypeWeb = "web-development"

	// ProjectTypeEcommerce is the project type implied by the eCommerce package.
	ProjectTypeEcommerce = "ecommerce"
)

// Package is one pricing tier. Price and Timeline are display strings.
type Package struct {
	ID          string
	Name        string
	Price       string
	Timeline    string
	Description string
	Pages       string
	Revisions   string
	Popular     bool
	ProjectType string
	Features    []string
}

// Catalog is an immutable, ordered set of packages with a designated default.
type Catalog struct {
	packages  []Package
	byID      map[string]int
	defaultID string
}

// New builds a catalog. Ids must be non-empty and unique, and defaultID must
// name one of the packages.
func New(defaultID string, packages ...Package) (*Catalog, error) {
	if len(packages) == 0 {
		return nil, errors.New("catalog needs at least one package")
	}

	byID := make(map[string]int, len(packages))
	stored := make([]Package, len(packages))
	for i, p := range packages {
		if p.ID == "" {
			return nil, fmt.Errorf("package %d has an empty id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate package id %q", p.ID)
		}
		if p.ProjectType == "" {
			p.ProjectType = ProjectTypeWeb
		}
		p.Features = append([]string(nil), p.Features...)
		byID[p.ID] = i
		stored[i] = p
	}

	if _, ok := byID[defaultID]; !ok {
		return nil, fmt.Errorf("default package %q is not in the catalog", defaultID)
	}

	return &Catalog{packages: stored, byID: byID, defaultID: defaultID}, nil
}

// Find returns the package with the given id.
func (c *Catalog) Find(id string) (Package, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Package{}, false
	}
	return clonePackage(c.packages[i]), true
}

// Contains reports whether id names a package.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// DefaultID returns the id of the default package.
func (c *Catalog) DefaultID() string {
	return c.defaultID
}

// Default returns the default package.
func (c *Catalog) Default() Package {
	return clonePackage(c.packages[c.byID[c.defaultID]])
}

// Packages returns the packages in catalog order.
func (c *Catalog) Packages() []Package {
	return lo.Map(c.packages, func(p Package, _ int) Package {
		return clonePackage(p)
	})
}

// IDs returns the package ids in catalog order.
func (c *Catalog) IDs() []string {
	return lo.Map(c.packages, func(p Package, _ int) string {
		return p.ID
	})
}

func clonePackage(p Package) Package {
	p.Features = append([]string(nil), p.Features...)
	return p
}
