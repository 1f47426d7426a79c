// Package registry memoizes type metadata: each distinct type is resolved at
// most once and the published TypeMetadata is shared read-only by every
// caller.
package registry

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"wiremeta/descriptor"
	"wiremeta/resolve"
)

// Provider supplies type descriptors by id.
// reflectdesc.Catalog and analyze.TypeGraph implement it.
type Provider interface {
	Lookup(id descriptor.TypeID) (*descriptor.Type, error)
}

// Registry caches successful resolutions. Failures are returned to every
// waiting caller and never cached, so a later call retries.
type Registry struct {
	provider Provider
	opts     resolve.Options

	group singleflight.Group
	cache sync.Map // descriptor.TypeID -> *resolve.TypeMetadata

	// mu orders publication against Reset; gen counts resets.
	mu  sync.RWMutex
	gen uint64
}

// New creates a Registry resolving descriptors from provider with opts.
// provider may be nil when only Resolve is used.
func New(provider Provider, opts resolve.Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Registry{provider: provider, opts: opts}
}

// Get returns the metadata of the type registered under id in the provider.
func (r *Registry) Get(id descriptor.TypeID) (*resolve.TypeMetadata, error) {
	if meta, ok := r.load(id); ok {
		return meta, nil
	}

	if r.provider == nil {
		return nil, fmt.Errorf("registry: no provider for %s", id)
	}

	return r.compute(id, func() (*descriptor.Type, error) {
		t, err := r.provider.Lookup(id)
		if err != nil {
			return nil, fmt.Errorf("registry: lookup %s: %w", id, err)
		}

		if t.ID != id {
			return nil, fmt.Errorf("registry: provider returned %s for %s", t.ID, id)
		}

		return t, nil
	})
}

// Resolve returns the metadata of t, keyed by t.ID. A descriptor for an id
// that is already cached is not looked at.
func (r *Registry) Resolve(t *descriptor.Type) (*resolve.TypeMetadata, error) {
	if t == nil {
		return nil, errors.New("registry: nil type descriptor")
	}

	if meta, ok := r.load(t.ID); ok {
		return meta, nil
	}

	return r.compute(t.ID, func() (*descriptor.Type, error) { return t, nil })
}

// Len returns the number of cached entries.
func (r *Registry) Len() int {
	n := 0
	r.cache.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// Reset drops every cached entry. Metadata already handed out stays valid,
// and a resolution in flight during Reset is returned but not cached.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	r.cache.Clear()
}

func (r *Registry) generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.gen
}

// publish caches meta unless a Reset happened since gen was read.
func (r *Registry) publish(gen uint64, id descriptor.TypeID, meta *resolve.TypeMetadata) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.gen != gen {
		return false
	}
	r.cache.Store(id, meta)

	return true
}

// flightKey identifies one resolution of id within a cache generation.
// Package paths never contain NUL, so distinct ids never share a key.
func flightKey(gen uint64, id descriptor.TypeID) string {
	return strconv.FormatUint(gen, 10) + "\x00" + id.PkgPath + "\x00" + id.Name
}

func (r *Registry) load(id descriptor.TypeID) (*resolve.TypeMetadata, bool) {
	v, ok := r.cache.Load(id)
	if !ok {
		return nil, false
	}

	return v.(*resolve.TypeMetadata), true
}

func (r *Registry) compute(id descriptor.TypeID, describe func() (*descriptor.Type, error)) (*resolve.TypeMetadata, error) {
	gen := r.generation()

	v, err, shared := r.group.Do(flightKey(gen, id), func() (any, error) {
		// A caller may have published while this one waited to enter.
		if meta, ok := r.load(id); ok {
			return meta, nil
		}

		t, err := describe()
		if err != nil {
			return nil, err
		}

		meta, err := resolve.Resolve(t, r.opts)
		if err != nil {
			r.opts.Logger.Debug("resolution failed", zap.Stringer("type", id), zap.Error(err))
			return nil, err
		}

		if !r.publish(gen, id, meta) {
			r.opts.Logger.Debug("registry reset during resolution", zap.Stringer("type", id))
			return meta, nil
		}
		r.opts.Logger.Debug("type resolved",
			zap.Stringer("type", id),
			zap.Int("members", len(meta.Members)))

		return meta, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		r.opts.Logger.Debug("resolution shared", zap.Stringer("type", id))
	}

	return v.(*resolve.TypeMetadata), nil
}
