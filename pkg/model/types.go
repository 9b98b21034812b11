package model

import (
	"strconv"
	"strings"
)

// Kind identifies an entry of the field-schema table.
type Kind string

const (
	KindName     Kind = "name"
	KindPhone    Kind = "phone"
	KindEmail    Kind = "email"
	KindRelation Kind = "relation"
	KindContact  Kind = "contact"
	KindDOB      Kind = "dob"
	KindTravel   Kind = "travel"
)

// Kinds lists the built-in kinds in table order.
func Kinds() []Kind {
	return []Kind{KindName, KindPhone, KindEmail, KindRelation, KindContact, KindDOB, KindTravel}
}

// Position mirrors the insertAdjacentHTML positions.
type Position string

const (
	PositionBeforeBegin Position = "beforebegin"
	PositionAfterBegin  Position = "afterbegin"
	PositionBeforeEnd   Position = "beforeend"
	PositionAfterEnd    Position = "afterend"
)

// Valid reports whether p names one of the four insert positions.
func (p Position) Valid() bool {
	switch p {
	case PositionBeforeBegin, PositionAfterBegin, PositionBeforeEnd, PositionAfterEnd:
		return true
	default:
		return false
	}
}

// Anchor prefixes understood by the factory set when resolving mounts.
const (
	AnchorParent     = "{parent}"
	AnchorLastPrefix = "last:"
)

// IDPlaceholder is replaced with the instance suffix when expanding id
// patterns such as "phone-error{n}".
const IDPlaceholder = "{n}"

// Option is a selectable value for relation-style fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FieldSpec is one row of the field-schema table. Id patterns use the {n}
// placeholder; repeatable kinds expand it with the factory counter while
// singletons expand it to an empty string.
type FieldSpec struct {
	Kind        Kind     `json:"kind" yaml:"kind"`
	Template    string   `json:"template" yaml:"template"`
	Repeatable  bool     `json:"repeatable" yaml:"repeatable"`
	RootID      string   `json:"rootId" yaml:"rootId"`
	ErrorID     string   `json:"errorId,omitempty" yaml:"errorId,omitempty"`
	Inputs      []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Errors      []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Message     string   `json:"message,omitempty" yaml:"message,omitempty"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Children    []Mount  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Suffix returns the id suffix used for the seq-th instance of the spec.
func (s FieldSpec) Suffix(seq int) string {
	if !s.Repeatable {
		return ""
	}
	return strconv.Itoa(seq)
}

// Mount instructs the factory set to instantiate Kind next to Anchor.
type Mount struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Anchor   string   `json:"anchor" yaml:"anchor"`
	Position Position `json:"position" yaml:"position"`
	Margin   int      `json:"margin" yaml:"margin"`
	Required bool     `json:"required" yaml:"required"`
}

// Section is a labelled block inside a stage. Sections double as mount
// anchors, so their ids must be unique across the form.
type Section struct {
	ID      string `json:"id" yaml:"id"`
	Label   string `json:"label" yaml:"label"`
	Element string `json:"element,omitempty" yaml:"element,omitempty"`
	Class   string `json:"class,omitempty" yaml:"class,omitempty"`
}

// MaxRepeatLimit caps Repeat.Max.
const MaxRepeatLimit = 10

// Repeat describes the button that adds one more instance of a kind. Max is
// the number of instances the button may add, between 1 and MaxRepeatLimit.
type Repeat struct {
	ButtonID string `json:"buttonId" yaml:"buttonId"`
	Label    string `json:"label" yaml:"label"`
	Max      int    `json:"max" yaml:"max"`
	Mount    Mount  `json:"mount" yaml:"mount"`
}

// Stage is one visible screen of the form.
type Stage struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections"`
	Mounts   []Mount   `json:"mounts" yaml:"mounts"`
	Repeat   *Repeat   `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// Form is the top-level definition the engine consumes.
type Form struct {
	ID         string             `json:"id" yaml:"id"`
	Title      string             `json:"title" yaml:"title"`
	StartStage int                `json:"startStage" yaml:"startStage"`
	Stages     []Stage            `json:"stages" yaml:"stages"`
	Fields     map[Kind]FieldSpec `json:"fields" yaml:"fields"`
}

// Field returns the spec registered for kind.
func (f Form) Field(kind Kind) (FieldSpec, bool) {
	spec, ok := f.Fields[kind]
	return spec, ok
}

// Result is the outcome of a single validation.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Valid is the passing Result.
func Valid() Result { return Result{OK: true} }

// Invalid returns a failing Result carrying message.
func Invalid(message string) Result { return Result{Message: message} }

// Instance records a field group inserted by a factory.
type Instance struct {
	Kind     Kind     `json:"kind"`
	Seq      int      `json:"seq"`
	Suffix   string   `json:"suffix"`
	RootID   string   `json:"rootId"`
	ErrorID  string   `json:"errorId,omitempty"`
	Inputs   []string `json:"inputs,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Required bool     `json:"required"`
}

// ErrorFor returns the error label id of the i-th input: its own label when
// the spec lists per-input labels, the shared group label otherwise.
func (i Instance) ErrorFor(index int) string {
	if index >= 0 && index < len(i.Errors) {
		return i.Errors[index]
	}
	return i.ErrorID
}

// ExpandID substitutes suffix into an id pattern.
func ExpandID(pattern, suffix string) string {
	return strings.ReplaceAll(pattern, IDPlaceholder, suffix)
}

// NewInstance expands the spec's id patterns for the seq-th instance.
func NewInstance(spec FieldSpec, seq int, required bool) Instance {
	suffix := spec.Suffix(seq)
	inst := Instance{
		Kind:     spec.Kind,
		Seq:      seq,
		Suffix:   suffix,
		RootID:   ExpandID(spec.RootID, suffix),
		Required: required,
	}
	if spec.ErrorID != "" {
		inst.ErrorID = ExpandID(spec.ErrorID, suffix)
	}
	if len(spec.Inputs) > 0 {
		inst.Inputs = make([]string, 0, len(spec.Inputs))
		for _, pattern := range spec.Inputs {
			inst.Inputs = append(inst.Inputs, ExpandID(pattern, suffix))
		}
	}
	for _, pattern := range spec.Errors {
		inst.Errors = append(inst.Errors, ExpandID(pattern, suffix))
	}
	return inst
}
