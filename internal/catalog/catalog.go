// Package catalog holds the table of built-in primitive schema types.
//
// The catalog is constructed once before resolution starts and is read-only
// afterwards, so it is safe to share across parallel phases. It is passed by
// reference into every phase that needs it rather than looked up globally,
// which lets tests substitute a smaller table.
package catalog

// Class groups primitives into broad semantic families.
type Class uint8

const (
	ClassInt Class = iota
	ClassUint
	ClassFloat
	ClassBool
	ClassString
	ClassBytes
	ClassTime
)

func (c Class) String() string {
	switch c {
	case ClassInt:
		return "int"
	case ClassUint:
		return "uint"
	case ClassFloat:
		return "float"
	case ClassBool:
		return "bool"
	case ClassString:
		return "string"
	case ClassBytes:
		return "bytes"
	case ClassTime:
		return "time"
	}
	return "unknown"
}

// Primitive describes one built-in type.
type Primitive struct {
	Name   string
	Class  Class
	Width  uint8 // bit width for numeric classes, 0 otherwise
	Signed bool
}

// Catalog maps primitive names to their descriptions. Never mutated after
// construction.
type Catalog struct {
	byName map[string]Primitive
	names  []string
}

// New builds a catalog from the given primitives. Order is preserved for
// deterministic listings.
func New(prims []Primitive) *Catalog {
	c := &Catalog{
		byName: make(map[string]Primitive, len(prims)),
		names:  make([]string, 0, len(prims)),
	}
	for _, p := range prims {
		if _, exists := c.byName[p.Name]; exists {
			panic("catalog: duplicate primitive " + p.Name)
		}
		c.byName[p.Name] = p
		c.names = append(c.names, p.Name)
	}
	return c
}

// Default returns the full built-in primitive set.
func Default() *Catalog {
	return New([]Primitive{
		{Name: "i8", Class: ClassInt, Width: 8, Signed: true},
		{Name: "i16", Class: ClassInt, Width: 16, Signed: true},
		{Name: "i32", Class: ClassInt, Width: 32, Signed: true},
		{Name: "i64", Class: ClassInt, Width: 64, Signed: true},
		{Name: "u8", Class: ClassUint, Width: 8},
		{Name: "u16", Class: ClassUint, Width: 16},
		{Name: "u32", Class: ClassUint, Width: 32},
		{Name: "u64", Class: ClassUint, Width: 64},
		{Name: "usize", Class: ClassUint, Width: 64},
		{Name: "f16", Class: ClassFloat, Width: 16, Signed: true},
		{Name: "f32", Class: ClassFloat, Width: 32, Signed: true},
		{Name: "f64", Class: ClassFloat, Width: 64, Signed: true},
		{Name: "bool", Class: ClassBool},
		{Name: "str", Class: ClassString},
		{Name: "datetime", Class: ClassTime},
		{Name: "binary", Class: ClassBytes},
		{Name: "base64", Class: ClassBytes},
	})
}

// Lookup returns the primitive for a name.
func (c *Catalog) Lookup(name string) (Primitive, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Has reports whether name is a built-in primitive.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Names returns the primitive names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of primitives.
func (c *Catalog) Len() int {
	return len(c.names)
}
