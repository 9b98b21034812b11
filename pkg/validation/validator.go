package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formstage/pkg/model"
)

// DateLayout is the wire format of date inputs.
const DateLayout = "2006-01-02"

// Tags registered on the underlying go-playground validator.
const (
	TagName     = "personname"
	TagPhone    = "usphone"
	TagEmail    = "contactemail"
	TagRelation = "relation"

	tagNameShape = "nameshape"
)

const (
	minAge       = 18
	maxAge       = 150
	maxTripLead  = 5
	minTripDays  = 14
	maxTripYears = 1
)

// RelationNone is the placeholder option of relation selects.
const RelationNone = "none"

// DefaultRelations lists the relation options offered for contacts.
func DefaultRelations() []model.Option {
	return []model.Option{
		{Value: "parent", Label: "Parent"},
		{Value: "child", Label: "Child"},
		{Value: "spouse", Label: "Spouse"},
		{Value: "sibling", Label: "Sibling"},
		{Value: "friend", Label: "Friend"},
		{Value: "colleague", Label: "Colleague"},
		{Value: "employer", Label: "Employer"},
		{Value: "employee", Label: "Employee"},
		{Value: "partner", Label: "Partner"},
		{Value: "other-relative", Label: "Other Relative"},
		{Value: "other", Label: "Other"},
	}
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the time source used by the date rules.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithRelations replaces the accepted relation values.
func WithRelations(options []model.Option) Option {
	return func(v *Validator) {
		if len(options) == 0 {
			return
		}
		values := make([]string, 0, len(options))
		for _, opt := range options {
			values = append(values, opt.Value)
		}
		v.relations = values
	}
}

// Validator evaluates field values per kind. It never touches a document;
// the binding layer maps its results onto fields.
type Validator struct {
	validate  *validator.Validate
	now       func() time.Time
	relations []string
}

// New constructs a Validator with the name, phone, email and relation tags
// registered.
func New(options ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		now:      time.Now,
	}
	WithRelations(DefaultRelations())(v)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	v.register()
	return v
}

func (v *Validator) register() {
	must := func(tag string, fn validator.Func) {
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: register %s: %v", tag, err))
		}
	}
	must(tagNameShape, func(fl validator.FieldLevel) bool {
		return validNameShape(fl.Field().String())
	})
	v.validate.RegisterAlias(TagName, fmt.Sprintf("omitempty,min=%d,max=%d,%s", nameMinLength, nameMaxLength, tagNameShape))
	v.validate.RegisterAlias(TagPhone, fmt.Sprintf("len=%d", PhoneLength))
	must(TagEmail, func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	must(TagRelation, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" || value == RelationNone {
			return true
		}
		return slices.Contains(v.relations, value)
	})
}

var kindTags = map[model.Kind]struct {
	tag     string
	message string
}{
	model.KindName:     {tag: TagName, message: MessageName},
	model.KindPhone:    {tag: TagPhone, message: MessagePhone},
	model.KindEmail:    {tag: TagEmail, message: MessageEmail},
	model.KindRelation: {tag: TagRelation, message: MessageRelation},
}

// Check runs the tag registered for kind and returns the raw validator
// error. Date kinds and composite kinds have no tag.
func (v *Validator) Check(kind model.Kind, value string) error {
	entry, ok := kindTags[kind]
	if !ok {
		return fmt.Errorf("validation: no tag for kind %q", kind)
	}
	return v.validate.Var(value, entry.tag)
}

// Validate evaluates value as a single field of the given kind. Travel
// values are validated as a departure date; use Travel for the pair.
func (v *Validator) Validate(kind model.Kind, value string) model.Result {
	switch kind {
	case model.KindDOB:
		return v.DOB(value)
	case model.KindTravel:
		return v.Travel(value, "").Departure
	case model.KindContact:
		return model.Valid()
	}

	entry, ok := kindTags[kind]
	if !ok {
		return model.Invalid(fmt.Sprintf("unsupported field kind %q", kind))
	}
	return v.check(entry.tag, value, entry.message)
}

// FirstName checks a first name against the name tag.
func (v *Validator) FirstName(value string) model.Result {
	return v.check(TagName, value, MessageFirstName)
}

// LastName checks a last name against the name tag.
func (v *Validator) LastName(value string) model.Result {
	return v.check(TagName, value, MessageLastName)
}

// Phone applies the (555)-555-5555 mask to raw and checks the result. The
// formatted value is returned either way.
func (v *Validator) Phone(raw string) (string, model.Result) {
	formatted := FormatPhone(raw)
	return formatted, v.check(TagPhone, formatted, MessagePhone)
}

func (v *Validator) check(tag, value, message string) model.Result {
	if err := v.validate.Var(value, tag); err != nil {
		return model.Invalid(message)
	}
	return model.Valid()
}

// DOB checks a date of birth against the 18..150 year window. Checks run in
// order and the first failure wins.
func (v *Validator) DOB(value string) model.Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.Valid()
	}
	dob, ok := v.parseDate(value)
	if !ok {
		return model.Invalid(MessageAge)
	}

	today := v.today()
	switch {
	case dob.After(today):
		return model.Invalid(MessageAge)
	case dob.Before(today.AddDate(-maxAge, 0, 0)):
		return model.Invalid(MessageAgeMax)
	case dob.After(today.AddDate(-minAge, 0, 0)):
		return model.Invalid(MessageAgeMin)
	}
	return model.Valid()
}

// TravelResult carries the outcome for both travel date fields.
type TravelResult struct {
	Departure model.Result `json:"departure"`
	Return    model.Result `json:"return"`
}

// OK reports whether both dates passed.
func (r TravelResult) OK() bool {
	return r.Departure.OK && r.Return.OK
}

// Travel checks the departure date against today and the return date
// against the departure. Return rules run only once the departure passes.
func (v *Validator) Travel(departure, ret string) TravelResult {
	result := TravelResult{Departure: model.Valid(), Return: model.Valid()}

	departure = strings.TrimSpace(departure)
	if departure == "" {
		return result
	}
	dep, ok := v.parseDate(departure)
	if !ok {
		result.Departure = model.Invalid(MessageDate)
		return result
	}

	today := v.today()
	if dep.Before(today) {
		result.Departure = model.Invalid(MessageDeparturePast)
		return result
	}
	if dep.After(today.AddDate(maxTripLead, 0, 0)) {
		result.Departure = model.Invalid(MessageDepartureMax)
		return result
	}

	ret = strings.TrimSpace(ret)
	if ret == "" {
		return result
	}
	back, ok := v.parseDate(ret)
	if !ok {
		result.Return = model.Invalid(MessageDate)
		return result
	}
	switch {
	case back.Before(dep.AddDate(0, 0, minTripDays)):
		result.Return = model.Invalid(MessageReturnMin)
	case back.After(dep.AddDate(maxTripYears, 0, 0)):
		result.Return = model.Invalid(MessageReturnMax)
	}
	return result
}

func (v *Validator) parseDate(value string) (time.Time, bool) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func (v *Validator) today() time.Time {
	now := v.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
