package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"wiremeta/descriptor"
	"wiremeta/internal/analyze"
	"wiremeta/internal/overlay"
	"wiremeta/registry"
	"wiremeta/resolve"
)

// session is an analyzed package set ready for resolution.
type session struct {
	graph    *analyze.TypeGraph
	registry *registry.Registry
}

// load analyzes pattern, applies the configured overlay and prepares a
// registry over the result. Overlay warnings are written to w.
func (a *app) load(w io.Writer, pattern string) (*session, error) {
	graph, err := analyze.NewAnalyzer().
		WithDir(a.dir).
		WithLogger(a.logger).
		LoadPackages(pattern)
	if err != nil {
		return nil, err
	}

	if a.cfg.Overlay != "" {
		ov, err := overlay.LoadFile(a.cfg.Overlay)
		if err != nil {
			return nil, err
		}

		diags := ov.Validate(graph)
		if diags.HasErrors() {
			return nil, fmt.Errorf("overlay: %w", diags.Error())
		}

		for _, d := range diags.Warnings {
			writeDiagnostic(w, d)
		}

		for _, d := range diags.Infos {
			a.logger.Debug("overlay note", zap.String("code", d.Code), zap.String("message", d.String()))
		}

		if err := ov.Apply(graph); err != nil {
			return nil, err
		}

		a.logger.Debug("overlay applied",
			zap.String("file", a.cfg.Overlay),
			zap.Int("types", len(ov.Types)))
	}

	reg := registry.New(graph, resolve.Options{
		NameMutator:        a.cfg.Mutator(),
		AllowPrivateAccess: a.cfg.AllowPrivate,
		Logger:             a.logger,
	})

	return &session{graph: graph, registry: reg}, nil
}

// selectTypes returns the ids named by refs, or every analyzed type when
// refs is empty.
func (s *session) selectTypes(refs []string) ([]descriptor.TypeID, error) {
	if len(refs) == 0 {
		return s.graph.IDs(), nil
	}

	ids := make([]descriptor.TypeID, 0, len(refs))
	for _, ref := range refs {
		t := overlay.ResolveType(ref, s.graph)
		if t == nil {
			return nil, fmt.Errorf("%w: %s", descriptor.ErrUnknownType, ref)
		}
		ids = append(ids, t.ID)
	}

	return ids, nil
}
