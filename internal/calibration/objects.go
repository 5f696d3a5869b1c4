package calibration

import (
	"fmt"
	"sort"
)

// ObjectKind identifies a reference object in the catalog.
type ObjectKind int

const (
	CreditCard ObjectKind = iota + 1
	CompactDisk
)

func (k ObjectKind) String() string {
	switch k {
	case CreditCard:
		return "credit-card"
	case CompactDisk:
		return "compact-disk"
	default:
		return fmt.Sprintf("object-%d", int(k))
	}
}

// ParseObjectKind accepts the kind names used on the command line and in
// MCP tool arguments.
func ParseObjectKind(s string) (ObjectKind, error) {
	switch s {
	case "credit-card", "card", "creditcard":
		return CreditCard, nil
	case "compact-disk", "disk", "cd", "compactdisk":
		return CompactDisk, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownObject, s)
	}
}

// ReferenceObject is a real-world object of known physical size.
type ReferenceObject struct {
	Kind            ObjectKind
	Name            string  // Display name, e.g. "credit card"
	Asset           string  // Image path relative to the assets root
	BaseWidthPx     int     // Unscaled image width
	BaseHeightPx    int     // Unscaled image height
	PhysicalWidthCm float64 // Width of the real object
	MaxScale        float64 // Image scale at ratio 1
}

// PhysicalWidthIn is the real width in inches.
func (o ReferenceObject) PhysicalWidthIn() float64 {
	return o.PhysicalWidthCm / CmPerInch
}

// MaxHeightPx is the tallest the object can be drawn, at ratio 1.
func (o ReferenceObject) MaxHeightPx() int {
	return int(roundHalfUp(float64(o.BaseHeightPx) * o.MaxScale))
}

// Catalog is an immutable table of reference objects keyed by kind.
// It is built once at startup and shared by pointer.
type Catalog struct {
	objects map[ObjectKind]ReferenceObject
}

// NewCatalog builds a catalog. Later entries replace earlier ones of the same kind.
func NewCatalog(objects ...ReferenceObject) (*Catalog, error) {
	c := &Catalog{objects: make(map[ObjectKind]ReferenceObject, len(objects))}
	for _, o := range objects {
		if o.BaseWidthPx <= 0 || o.BaseHeightPx <= 0 {
			return nil, fmt.Errorf("object %s: base size must be positive", o.Kind)
		}
		if o.PhysicalWidthCm <= 0 || o.MaxScale <= 0 {
			return nil, fmt.Errorf("object %s: physical width and max scale must be positive", o.Kind)
		}
		c.objects[o.Kind] = o
	}
	return c, nil
}

// DefaultCatalog returns the two shipped objects.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog(
		ReferenceObject{
			Kind:            CreditCard,
			Name:            "credit card",
			Asset:           "assets/credit-card.png",
			BaseWidthPx:     428,
			BaseHeightPx:    270,
			PhysicalWidthCm: 8.56,
			MaxScale:        2.0,
		},
		ReferenceObject{
			Kind:            CompactDisk,
			Name:            "compact disk",
			Asset:           "assets/compact-disk.png",
			BaseWidthPx:     600,
			BaseHeightPx:    600,
			PhysicalWidthCm: 12.0,
			MaxScale:        2.0,
		},
	)
	return c
}

// Get returns the object for kind.
func (c *Catalog) Get(kind ObjectKind) (ReferenceObject, bool) {
	if c == nil {
		return ReferenceObject{}, false
	}
	o, ok := c.objects[kind]
	return o, ok
}

// Objects returns all entries ordered by kind.
func (c *Catalog) Objects() []ReferenceObject {
	if c == nil {
		return nil
	}
	out := make([]ReferenceObject, 0, len(c.objects))
	for _, o := range c.objects {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
