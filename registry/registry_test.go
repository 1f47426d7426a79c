package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiremeta/descriptor"
	"wiremeta/resolve"
)

var intType = descriptor.Named("int")

type countingProvider struct {
	types   map[descriptor.TypeID]*descriptor.Type
	lookups atomic.Int64
	gate    chan struct{}
}

func (p *countingProvider) Lookup(id descriptor.TypeID) (*descriptor.Type, error) {
	p.lookups.Add(1)

	if p.gate != nil {
		<-p.gate
	}

	t, ok := p.types[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", descriptor.ErrUnknownType, id)
	}

	return t.Clone(), nil
}

func newProvider(types ...*descriptor.Type) *countingProvider {
	p := &countingProvider{types: make(map[descriptor.TypeID]*descriptor.Type)}
	for _, t := range types {
		p.types[t.ID] = t
	}

	return p
}

var (
	pointID  = descriptor.TypeID{PkgPath: "example.com/geo", Name: "Point"}
	brokenID = descriptor.TypeID{PkgPath: "example.com/geo", Name: "Broken"}
)

func point() *descriptor.Type {
	return descriptor.NewBuilder(pointID, descriptor.ClassValue).
		Field("X", intType).
		Field("Y", intType).
		Constructor("NewPoint", []descriptor.Param{descriptor.P("x", intType), descriptor.P("y", intType)}).
		MustBuild()
}

func broken() *descriptor.Type {
	return descriptor.NewBuilder(brokenID, descriptor.ClassValue).
		Field("X", intType).
		Constructor("NewBroken", []descriptor.Param{descriptor.P("z", intType)}).
		MustBuild()
}

func TestRegistry_Get(t *testing.T) {
	p := newProvider(point())
	r := New(p, resolve.Options{})

	first, err := r.Get(pointID)
	require.NoError(t, err)
	assert.Equal(t, "NewPoint", first.Constructor.Name)

	second, err := r.Get(pointID)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), p.lookups.Load())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_AtMostOnceUnderContention(t *testing.T) {
	p := newProvider(point())
	p.gate = make(chan struct{})
	r := New(p, resolve.Options{})

	const callers = 32

	results := make([]*resolve.TypeMetadata, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			meta, err := r.Get(pointID)
			assert.NoError(t, err)
			results[i] = meta
		}()
	}

	close(p.gate)
	wg.Wait()

	assert.Equal(t, int64(1), p.lookups.Load())
	for _, meta := range results {
		assert.Same(t, results[0], meta)
	}
}

func TestRegistry_FailuresAreNotCached(t *testing.T) {
	p := newProvider(broken())
	r := New(p, resolve.Options{})

	_, err := r.Get(brokenID)
	require.Error(t, err)
	assert.ErrorIs(t, err, resolve.ErrNoMatchingConstructor)

	_, err = r.Get(brokenID)
	require.Error(t, err)

	assert.Equal(t, int64(2), p.lookups.Load())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_UnknownType(t *testing.T) {
	r := New(newProvider(), resolve.Options{})

	_, err := r.Get(pointID)
	assert.ErrorIs(t, err, descriptor.ErrUnknownType)
	assert.ErrorContains(t, err, "registry: lookup example.com/geo.Point")
}

type lyingProvider struct{}

func (lyingProvider) Lookup(descriptor.TypeID) (*descriptor.Type, error) {
	return point(), nil
}

func TestRegistry_ProviderMismatch(t *testing.T) {
	r := New(lyingProvider{}, resolve.Options{})

	_, err := r.Get(brokenID)
	assert.ErrorContains(t, err, "provider returned example.com/geo.Point")
}

func TestRegistry_Resolve(t *testing.T) {
	r := New(nil, resolve.Options{})

	meta, err := r.Resolve(point())
	require.NoError(t, err)

	// Cached by id: Get works without a provider.
	got, err := r.Get(pointID)
	require.NoError(t, err)
	assert.Same(t, meta, got)

	_, err = r.Get(brokenID)
	assert.ErrorContains(t, err, "no provider")

	_, err = r.Resolve(nil)
	assert.Error(t, err)
}

func TestRegistry_Reset(t *testing.T) {
	p := newProvider(point())
	r := New(p, resolve.Options{})

	before, err := r.Get(pointID)
	require.NoError(t, err)

	r.Reset()
	assert.Equal(t, 0, r.Len())

	after, err := r.Get(pointID)
	require.NoError(t, err)

	assert.NotSame(t, before, after)
	assert.Equal(t, before, after)
	assert.Equal(t, int64(2), p.lookups.Load())
}

func TestRegistry_ResetDuringResolution(t *testing.T) {
	p := newProvider(point())
	p.gate = make(chan struct{})
	r := New(p, resolve.Options{})

	done := make(chan *resolve.TypeMetadata)
	go func() {
		meta, err := r.Get(pointID)
		assert.NoError(t, err)
		done <- meta
	}()

	require.Eventually(t, func() bool { return p.lookups.Load() == 1 }, time.Second, time.Millisecond)

	r.Reset()
	close(p.gate)

	stale := <-done
	require.NotNil(t, stale)
	assert.Equal(t, 0, r.Len(), "a resolution started before Reset is not cached")

	fresh, err := r.Get(pointID)
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh)
	assert.Equal(t, int64(2), p.lookups.Load())
	assert.Equal(t, 1, r.Len())
}

func TestFlightKey(t *testing.T) {
	a := descriptor.TypeID{PkgPath: "", Name: "a.B"}
	b := descriptor.TypeID{PkgPath: "a", Name: "B"}

	require.Equal(t, a.String(), b.String())
	assert.NotEqual(t, flightKey(0, a), flightKey(0, b))
	assert.NotEqual(t, flightKey(0, b), flightKey(1, b))
}
