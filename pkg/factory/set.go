package factory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstage/pkg/dom"
	"github.com/goliatone/go-formstage/pkg/model"
)

// ErrUnknownKind is returned when a mount names a kind without a factory.
var ErrUnknownKind = errors.New("factory: unknown field kind")

// maxDepth bounds nested mounts so a kind listing itself as a child fails
// instead of recursing forever.
const maxDepth = 8

// SetOption configures a Set.
type SetOption func(*Set)

// WithBinding installs hook as the validation hook of every factory in the
// set.
func WithBinding(hook Hook) SetOption {
	return func(s *Set) {
		s.binding = hook
	}
}

// WithSetLogger sets the logger shared by the set and its factories.
func WithSetLogger(logger *zap.Logger) SetOption {
	return func(s *Set) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Set owns one Factory per kind of a form. Composite kinds get an
// after-insert hook that mounts their children relative to the new instance.
type Set struct {
	mu sync.Mutex

	factories map[model.Kind]*Factory
	binding   Hook
	logger    *zap.Logger
	instances []model.Instance
	depth     int
}

// NewSet builds the factories for every kind in fields.
func NewSet(fields map[model.Kind]model.FieldSpec, generator Generator, options ...SetOption) (*Set, error) {
	if generator == nil {
		return nil, errors.New("factory: generator is required")
	}
	s := &Set{
		factories: make(map[model.Kind]*Factory, len(fields)),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	for kind, spec := range fields {
		if spec.Kind == "" {
			spec.Kind = kind
		}
		if spec.Kind != kind {
			return nil, fmt.Errorf("factory: spec registered as %q declares kind %q", kind, spec.Kind)
		}
		opts := []Option{WithLogger(s.logger), WithValidation(s.bind)}
		if len(spec.Children) > 0 {
			children := append([]model.Mount(nil), spec.Children...)
			opts = append(opts, WithAfterInsert(func(doc *dom.Document, parent model.Instance) error {
				return s.mountChildren(doc, parent, children)
			}))
		}
		s.factories[kind] = New(spec, generator, opts...)
	}
	return s, nil
}

// Factory returns the factory for kind.
func (s *Set) Factory(kind model.Kind) (*Factory, bool) {
	f, ok := s.factories[kind]
	return f, ok
}

// Kinds returns the registered kinds sorted by name.
func (s *Set) Kinds() []model.Kind {
	kinds := make([]model.Kind, 0, len(s.factories))
	for kind := range s.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Mount instantiates m.Kind at a top-level anchor. The anchor may be an
// element id or a last:<class> reference.
func (s *Set) Mount(doc *dom.Document, m model.Mount) (model.Instance, error) {
	anchor, err := s.resolveAnchor(doc, m.Anchor, nil)
	if err != nil {
		return model.Instance{}, err
	}
	return s.add(doc, m, anchor, m.Required)
}

// Instances lists every instance mounted so far, parents before children.
func (s *Set) Instances() []model.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Instance(nil), s.instances...)
}

// Count returns the number of instances of kind added so far.
func (s *Set) Count(kind model.Kind) int {
	f, ok := s.factories[kind]
	if !ok {
		return 0
	}
	return f.Count()
}

// Reset rewinds every factory and forgets mounted instances.
func (s *Set) Reset() {
	for _, f := range s.factories {
		f.Reset()
	}
	s.mu.Lock()
	s.instances = nil
	s.depth = 0
	s.mu.Unlock()
}

func (s *Set) add(doc *dom.Document, m model.Mount, anchor string, required bool) (model.Instance, error) {
	f, ok := s.factories[m.Kind]
	if !ok {
		return model.Instance{}, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}
	return f.Add(doc, anchor, m.Position, m.Margin, required)
}

func (s *Set) bind(doc *dom.Document, inst model.Instance) error {
	s.mu.Lock()
	s.instances = append(s.instances, inst)
	s.mu.Unlock()
	if s.binding == nil {
		return nil
	}
	return s.binding(doc, inst)
}

// mountChildren populates a composite instance. A child is required only
// when both its mount and the parent are.
func (s *Set) mountChildren(doc *dom.Document, parent model.Instance, children []model.Mount) error {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > maxDepth {
		return fmt.Errorf("factory: nesting deeper than %d at %s", maxDepth, parent.RootID)
	}

	for _, child := range children {
		anchor, err := s.resolveAnchor(doc, child.Anchor, &parent)
		if err != nil {
			return err
		}
		if _, err := s.add(doc, child, anchor, child.Required && parent.Required); err != nil {
			return err
		}
	}
	return nil
}

func (s *Set) resolveAnchor(doc *dom.Document, anchor string, parent *model.Instance) (string, error) {
	anchor = strings.TrimSpace(anchor)
	switch {
	case anchor == model.AnchorParent:
		if parent == nil {
			return "", fmt.Errorf("factory: %s anchor outside a nested mount", model.AnchorParent)
		}
		return parent.RootID, nil
	case strings.HasPrefix(anchor, model.AnchorLastPrefix):
		class := strings.TrimPrefix(anchor, model.AnchorLastPrefix)
		if parent != nil {
			return doc.LastIDByClassWithin(parent.RootID, class)
		}
		return doc.LastIDByClass(class)
	case anchor == "":
		return "", errors.New("factory: empty anchor")
	default:
		return anchor, nil
	}
}
