// Package catalog holds the immutable set of operations a client can call.
package catalog

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// Catalog maps operation names to descriptors. It is built once by New and
// is safe for concurrent use.
type Catalog struct {
	byName map[string]Descriptor
	names  []string
}

// New validates the descriptors and builds a catalog. Every invalid
// descriptor, malformed template and duplicate name is reported in the
// returned error.
func New(descs ...Descriptor) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]Descriptor, len(descs)),
	}

	var result *multierror.Error
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("operation %q: %w", d.Name, err))
			continue
		}

		tmpl, err := ParseTemplate(d.Path)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("operation %q: %w", d.Name, err))
			continue
		}

		if _, ok := c.byName[d.Name]; ok {
			result = multierror.Append(result, fmt.Errorf("duplicate operation %q", d.Name))
			continue
		}

		d.template = tmpl
		d.Header = d.Header.Clone()
		c.byName[d.Name] = d
		c.names = append(c.names, d.Name)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	slices.Sort(c.names)
	return c, nil
}

// MustNew is like New but panics on error. It is meant for catalogs built
// from static descriptor lists.
func MustNew(descs ...Descriptor) *Catalog {
	c, err := New(descs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve looks up an operation by name.
func (c *Catalog) Resolve(name string) (Descriptor, bool) {
	d, ok := c.byName[name]
	if ok {
		d.Header = d.Header.Clone()
	}
	return d, ok
}

// Names returns the operation names in sorted order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of operations.
func (c *Catalog) Len() int {
	return len(c.names)
}
