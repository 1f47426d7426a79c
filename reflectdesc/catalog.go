package reflectdesc

import (
	"fmt"
	"reflect"
	"sync"

	"wiremeta/descriptor"
)

// Catalog holds the descriptors of registered runtime types.
// It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	types map[descriptor.TypeID]*descriptor.Type
	order []descriptor.TypeID
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[descriptor.TypeID]*descriptor.Type)}
}

// Register describes t and stores the result. Registering the same type
// twice is an error.
func (c *Catalog) Register(t reflect.Type, opts ...Option) (descriptor.TypeID, error) {
	desc, err := Describe(t, opts...)
	if err != nil {
		return descriptor.TypeID{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.types[desc.ID]; ok {
		return descriptor.TypeID{}, fmt.Errorf("reflectdesc: %s already registered", desc.ID)
	}

	c.types[desc.ID] = desc
	c.order = append(c.order, desc.ID)

	return desc.ID, nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(t reflect.Type, opts ...Option) descriptor.TypeID {
	id, err := c.Register(t, opts...)
	if err != nil {
		panic(err)
	}

	return id
}

// Lookup returns a copy of the descriptor registered under id.
func (c *Catalog) Lookup(id descriptor.TypeID) (*descriptor.Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	desc, ok := c.types[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", descriptor.ErrUnknownType, id)
	}

	return desc.Clone(), nil
}

// IDs returns the registered type ids in registration order.
func (c *Catalog) IDs() []descriptor.TypeID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]descriptor.TypeID, len(c.order))
	copy(ids, c.order)

	return ids
}

// IDOf returns the TypeID Describe assigns to t.
func IDOf(t reflect.Type) descriptor.TypeID {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return descriptor.TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}
