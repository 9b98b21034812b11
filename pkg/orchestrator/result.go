package orchestrator

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-formstage/pkg/binding"
	"github.com/goliatone/go-formstage/pkg/dom"
	"github.com/goliatone/go-formstage/pkg/model"
	"github.com/goliatone/go-formstage/pkg/stage"
)

// StatusID is the element that shows the completion banner.
const StatusID = "form-status"

// Result is the rebuilt document plus the state a client must send back.
type Result struct {
	Document  *dom.Document
	FormDOMID string
	FormID    string
	Stage     int
	Stages    int
	Repeats   []int
	// GateOpen reports whether the active stage's Next button is enabled.
	GateOpen bool
	// Blocked is set when a next action was refused by the gate.
	Blocked bool
	// Completed is set when a next action passed the gate on the last stage.
	Completed bool
	Trigger   string
	Instances []model.Instance

	binder *binding.Binder
}

// HTML returns the complete page.
func (r *Result) HTML() (string, error) {
	return r.Document.HTML()
}

// Fragment returns the <form> element alone, for HTMX swaps.
func (r *Result) Fragment() (string, error) {
	return r.Document.OuterHTML(r.FormDOMID)
}

// EventFragments returns out-of-band fragments for the inputs and error
// labels of the trigger's group plus the active Next button.
func (r *Result) EventFragments() (string, error) {
	ids := make([]string, 0, 8)
	seen := make(map[string]bool)
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if group, ok := r.binder.Group(r.Trigger); ok {
		for i, id := range group.Inputs {
			add(id)
			add(group.ErrorFor(i))
		}
	}
	add(stage.NextButtonID(r.Stage))

	var b strings.Builder
	for _, id := range ids {
		sel := r.Document.ByID(id)
		if sel.Length() == 0 {
			continue
		}
		sel.SetAttr("hx-swap-oob", "true")
		fragment, err := r.Document.OuterHTML(id)
		if err != nil {
			return "", fmt.Errorf("orchestrator: fragment #%s: %w", id, err)
		}
		b.WriteString(fragment)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Values returns the current value of every bound input.
func (r *Result) Values() map[string]string {
	out := make(map[string]string)
	for _, group := range r.binder.Groups() {
		for _, id := range group.Inputs {
			out[id] = r.Document.Value(id)
		}
	}
	return out
}

// ErrorFor returns the message shown for inputID, if its error label is
// visible and the input carries the error border.
func (r *Result) ErrorFor(inputID string) (string, bool) {
	group, ok := r.binder.Group(inputID)
	if !ok || !r.Document.HasClass(inputID, binding.ErrorBorderClass) {
		return "", false
	}
	for i, id := range group.Inputs {
		if id != inputID {
			continue
		}
		label := group.ErrorFor(i)
		if label == "" || r.Document.Display(label) != "block" {
			return "", false
		}
		return strings.TrimSpace(r.Document.Text(label)), true
	}
	return "", false
}

// Field describes one bound input of a stage.
type Field struct {
	ID          string         `json:"id"`
	Kind        model.Kind     `json:"kind"`
	Group       string         `json:"group"`
	Type        string         `json:"type"`
	Required    bool           `json:"required"`
	Label       string         `json:"label,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Options     []model.Option `json:"options,omitempty"`
	Value       string         `json:"value,omitempty"`
}

// Fields lists the bound inputs of stage n in document order.
func (r *Result) Fields(n int) []Field {
	var fields []Field
	r.Document.ByID(stage.StageID(n)).Find("[" + binding.AttrKind + "]").Each(func(_ int, sel *goquery.Selection) {
		_, required := sel.Attr("required")
		id := sel.AttrOr("id", "")
		field := Field{
			ID:          id,
			Kind:        model.Kind(sel.AttrOr(binding.AttrKind, "")),
			Group:       sel.AttrOr(binding.AttrGroup, ""),
			Type:        sel.AttrOr("type", goquery.NodeName(sel)),
			Required:    required,
			Label:       strings.TrimSpace(r.Document.Find(`label[for="` + id + `"]`).First().Text()),
			Placeholder: sel.AttrOr("placeholder", ""),
			Value:       dom.SelectionValue(sel),
		}
		if goquery.NodeName(sel) == "select" {
			field.Type = "select"
			sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
				if _, disabled := opt.Attr("disabled"); disabled {
					return
				}
				field.Options = append(field.Options, model.Option{
					Value: opt.AttrOr("value", ""),
					Label: strings.TrimSpace(opt.Text()),
				})
			})
		}
		fields = append(fields, field)
	})
	return fields
}
