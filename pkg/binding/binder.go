package binding

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstage/pkg/dom"
	"github.com/goliatone/go-formstage/pkg/model"
	"github.com/goliatone/go-formstage/pkg/validation"
)

// Attributes written on bound inputs.
const (
	AttrKind  = "data-fs-kind"
	AttrGroup = "data-fs-group"
)

// DefaultEndpoint receives input events when no endpoint is configured.
const DefaultEndpoint = "/events"

// ErrUnboundInput is returned by Apply for inputs no instance owns.
var ErrUnboundInput = errors.New("binding: input is not bound")

// Observer is notified of every group validation.
type Observer interface {
	ObserveValidation(kind model.Kind, ok bool)
}

// Option configures a Binder.
type Option func(*Binder)

// WithEndpoint sets the hx-post target of input events.
func WithEndpoint(endpoint string) Option {
	return func(b *Binder) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			b.endpoint = trimmed
		}
	}
}

// WithLogger sets the binder logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithObserver registers an Observer for validation outcomes.
func WithObserver(observer Observer) Option {
	return func(b *Binder) {
		b.observer = observer
	}
}

// Binder tracks the field groups of one document. It is not safe for
// concurrent use; build one per request.
type Binder struct {
	validator *validation.Validator
	logger    *zap.Logger
	observer  Observer
	endpoint  string

	groups map[string]model.Instance
	order  []model.Instance
}

// New returns a Binder using v for the field rules.
func New(v *validation.Validator, options ...Option) *Binder {
	if v == nil {
		v = validation.New()
	}
	b := &Binder{
		validator: v,
		logger:    zap.NewNop(),
		endpoint:  DefaultEndpoint,
		groups:    make(map[string]model.Instance),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Attach binds every input of inst. It has the factory hook signature so it
// can be installed as the validation hook of a factory set.
func (b *Binder) Attach(doc *dom.Document, inst model.Instance) error {
	b.order = append(b.order, inst)
	for _, id := range inst.Inputs {
		if err := doc.SetAttr(id, AttrKind, string(inst.Kind)); err != nil {
			return fmt.Errorf("binding: attach %s: %w", id, err)
		}
		_ = doc.SetAttr(id, AttrGroup, inst.RootID)
		_ = doc.SetAttr(id, "hx-post", b.endpoint)
		_ = doc.SetAttr(id, "hx-trigger", trigger(inst.Kind))
		_ = doc.SetAttr(id, "hx-include", "closest form")
		_ = doc.SetAttr(id, "hx-swap", "none")
		b.groups[id] = inst
	}
	b.logger.Debug("listeners attached",
		zap.String("kind", string(inst.Kind)),
		zap.String("group", inst.RootID),
		zap.Strings("inputs", inst.Inputs),
	)
	return nil
}

func trigger(kind model.Kind) string {
	switch kind {
	case model.KindRelation, model.KindDOB, model.KindTravel:
		return "change"
	default:
		return "input changed delay:250ms, change"
	}
}

// Group returns the instance owning inputID.
func (b *Binder) Group(inputID string) (model.Instance, bool) {
	inst, ok := b.groups[inputID]
	return inst, ok
}

// Groups lists bound instances in attach order.
func (b *Binder) Groups() []model.Instance {
	return append([]model.Instance(nil), b.order...)
}

// Apply validates the group that owns inputID and renders the outcome. It
// reports whether every field of the group passed.
func (b *Binder) Apply(doc *dom.Document, inputID string) (bool, error) {
	inst, ok := b.groups[inputID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnboundInput, inputID)
	}
	ok = b.applyGroup(doc, inst)
	if b.observer != nil {
		b.observer.ObserveValidation(inst.Kind, ok)
	}
	return ok, nil
}

// ApplyTouched re-validates every group with a non-empty input, plus the
// group owning trigger when it is set.
func (b *Binder) ApplyTouched(doc *dom.Document, trigger string) error {
	for _, inst := range b.order {
		if len(inst.Inputs) == 0 {
			continue
		}
		touched := false
		for _, id := range inst.Inputs {
			if id == trigger || touchedValue(inst.Kind, doc.Value(id)) {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}
		if _, err := b.Apply(doc, inst.Inputs[0]); err != nil {
			return err
		}
	}
	return nil
}

func touchedValue(kind model.Kind, value string) bool {
	if kind == model.KindRelation && value == validation.RelationNone {
		return false
	}
	return value != ""
}

// RenderFieldError is the package function with debug logging.
func (b *Binder) RenderFieldError(doc *dom.Document, fieldID, errorID string, failed bool, message string) bool {
	b.logger.Debug("validate field",
		zap.String("field", fieldID),
		zap.String("error", errorID),
		zap.Bool("failed", failed),
		zap.String("message", message),
	)
	return RenderFieldError(doc, fieldID, errorID, failed, message)
}

func (b *Binder) applyGroup(doc *dom.Document, inst model.Instance) bool {
	switch inst.Kind {
	case model.KindName:
		return b.applyName(doc, inst)
	case model.KindPhone:
		id := inst.Inputs[0]
		formatted, res := b.validator.Phone(doc.Value(id))
		_ = doc.SetValue(id, formatted)
		return b.RenderFieldError(doc, id, inst.ErrorFor(0), !res.OK, res.Message)
	case model.KindDOB:
		id := inst.Inputs[0]
		res := b.validator.DOB(doc.Value(id))
		return b.RenderFieldError(doc, id, inst.ErrorFor(0), !res.OK, res.Message)
	case model.KindTravel:
		return b.applyTravel(doc, inst)
	default:
		ok := true
		for i, id := range inst.Inputs {
			res := b.validator.Validate(inst.Kind, doc.Value(id))
			if !b.RenderFieldError(doc, id, inst.ErrorFor(i), !res.OK, res.Message) {
				ok = false
			}
		}
		return ok
	}
}

// applyName checks the first name and, only when it passes, the last name.
// Both share one error label.
func (b *Binder) applyName(doc *dom.Document, inst model.Instance) bool {
	if len(inst.Inputs) < 2 {
		return true
	}
	first, last := inst.Inputs[0], inst.Inputs[1]
	res := b.validator.FirstName(doc.Value(first))
	if !b.RenderFieldError(doc, first, inst.ErrorFor(0), !res.OK, res.Message) {
		return false
	}
	res = b.validator.LastName(doc.Value(last))
	return b.RenderFieldError(doc, last, inst.ErrorFor(1), !res.OK, res.Message)
}

func (b *Binder) applyTravel(doc *dom.Document, inst model.Instance) bool {
	if len(inst.Inputs) < 2 {
		return true
	}
	departure, ret := inst.Inputs[0], inst.Inputs[1]
	res := b.validator.Travel(doc.Value(departure), doc.Value(ret))
	depOK := b.RenderFieldError(doc, departure, inst.ErrorFor(0), !res.Departure.OK, res.Departure.Message)
	retOK := b.RenderFieldError(doc, ret, inst.ErrorFor(1), !res.Return.OK, res.Return.Message)
	return depOK && retOK
}
