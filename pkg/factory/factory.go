package factory

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstage/pkg/dom"
	"github.com/goliatone/go-formstage/pkg/model"
)

// Hook runs against a freshly inserted instance.
type Hook func(doc *dom.Document, inst model.Instance) error

// Option configures a Factory.
type Option func(*Factory)

// WithValidation sets the hook that binds validation to new instances.
func WithValidation(hook Hook) Option {
	return func(f *Factory) {
		f.validate = hook
	}
}

// WithAfterInsert sets the hook run after validation, typically to populate
// nested fields.
func WithAfterInsert(hook Hook) Option {
	return func(f *Factory) {
		f.afterInsert = hook
	}
}

// WithLogger sets the factory logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Factory instantiates one field kind. Each Add produces ids suffixed with
// the next counter value, so instances never collide.
type Factory struct {
	mu sync.Mutex

	spec        model.FieldSpec
	generator   Generator
	validate    Hook
	afterInsert Hook
	logger      *zap.Logger
	counter     int
}

// New returns a Factory for spec.
func New(spec model.FieldSpec, generator Generator, options ...Option) *Factory {
	f := &Factory{
		spec:      spec,
		generator: generator,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Spec returns the field spec the factory instantiates.
func (f *Factory) Spec() model.FieldSpec {
	return f.spec
}

// Add increments the counter, renders the fragment, inserts it at position
// relative to anchorID and runs the hooks in order.
func (f *Factory) Add(doc *dom.Document, anchorID string, position model.Position, margin int, required bool) (model.Instance, error) {
	if doc == nil {
		return model.Instance{}, fmt.Errorf("factory: %s: document is nil", f.spec.Kind)
	}
	if f.generator == nil {
		return model.Instance{}, fmt.Errorf("factory: %s: generator is nil", f.spec.Kind)
	}

	f.mu.Lock()
	f.counter++
	seq := f.counter
	f.mu.Unlock()

	inst := model.NewInstance(f.spec, seq, required)
	fragment, err := f.generator.Generate(f.spec, inst, margin)
	if err != nil {
		return model.Instance{}, err
	}
	if err := doc.InsertAdjacentHTML(anchorID, position, fragment); err != nil {
		return model.Instance{}, fmt.Errorf("factory: insert %s %s #%s: %w", inst.RootID, position, anchorID, err)
	}
	f.logger.Debug("field inserted",
		zap.String("kind", string(inst.Kind)),
		zap.String("id", inst.RootID),
		zap.String("anchor", anchorID),
		zap.String("position", string(position)),
		zap.Bool("required", required),
	)

	if f.validate != nil {
		if err := f.validate(doc, inst); err != nil {
			return inst, fmt.Errorf("factory: validation hook for %s: %w", inst.RootID, err)
		}
	}
	if f.afterInsert != nil {
		if err := f.afterInsert(doc, inst); err != nil {
			return inst, fmt.Errorf("factory: after-insert hook for %s: %w", inst.RootID, err)
		}
	}
	return inst, nil
}

// Count reports how many instances have been added.
func (f *Factory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counter
}

// Reset rewinds the counter so the next Add starts at 1 again.
func (f *Factory) Reset() {
	f.mu.Lock()
	f.counter = 0
	f.mu.Unlock()
}
