// Package catalog defines the static base-role catalog: the fixed
// permission and page-access sets each platform role carries before any
// tenant-specific customization is applied.
package catalog

import "sort"

// RoleDefinition is a single base role: a fixed permission set and a
// fixed page-access set. Definitions are immutable once the catalog is
// built; tenants override them through customizations, never in place.
type RoleDefinition struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
	Pages       []string `json:"pages"`
}

// Catalog is an immutable lookup table of base roles.
type Catalog struct {
	roles map[string]*RoleDefinition
	order []string
}

// New builds a catalog from the given definitions. Later definitions
// with the same slug replace earlier ones. Permission and page lists
// are defensively copied and sorted.
func New(defs ...RoleDefinition) *Catalog {
	c := &Catalog{roles: make(map[string]*RoleDefinition, len(defs))}
	for i := range defs {
		d := defs[i]
		d.Permissions = sortedCopy(d.Permissions)
		d.Pages = sortedCopy(d.Pages)
		if _, exists := c.roles[d.Slug]; !exists {
			c.order = append(c.order, d.Slug)
		}
		c.roles[d.Slug] = &d
	}
	return c
}

// Get returns the base definition for a role slug. The second return
// value is false for unrecognized slugs; callers must treat that as
// "no permissions, no pages", never as a failure.
func (c *Catalog) Get(slug string) (*RoleDefinition, bool) {
	d, ok := c.roles[slug]
	if !ok {
		return nil, false
	}
	cp := *d
	cp.Permissions = append([]string(nil), d.Permissions...)
	cp.Pages = append([]string(nil), d.Pages...)
	return &cp, true
}

// Roles returns all role definitions in registration order.
func (c *Catalog) Roles() []*RoleDefinition {
	out := make([]*RoleDefinition, 0, len(c.order))
	for _, slug := range c.order {
		d, _ := c.Get(slug)
		out = append(out, d)
	}
	return out
}

// Permissions returns the sorted, deduplicated union of every
// permission known to any role in the catalog.
func (c *Catalog) Permissions() []string {
	return c.union(func(d *RoleDefinition) []string { return d.Permissions })
}

// Pages returns the sorted, deduplicated union of every page
// identifier known to any role in the catalog.
func (c *Catalog) Pages() []string {
	return c.union(func(d *RoleDefinition) []string { return d.Pages })
}

func (c *Catalog) union(pick func(*RoleDefinition) []string) []string {
	seen := make(map[string]struct{})
	for _, d := range c.roles {
		for _, v := range pick(d) {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
