package factory

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstage/pkg/dom"
	"github.com/goliatone/go-formstage/pkg/model"
	"github.com/goliatone/go-formstage/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formstage/pkg/schema"
	"github.com/goliatone/go-formstage/pkg/templates"
)

const page = `<!DOCTYPE html><html><body>
<section id="stage">
<label id="phone-label" class="input-label">Phone</label>
<div id="emergency-label" class="input-label">Emergency Contacts</div>
</section>
</body></html>`

func newGenerator(t *testing.T) Generator {
	t.Helper()
	engine, err := gotemplate.New(gotemplate.WithFS(templates.TemplatesFS()))
	if err != nil {
		t.Fatalf("template engine: %v", err)
	}
	return TemplateGenerator(engine)
}

func newDocument(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func childIDs(sel *goquery.Selection) []string {
	var ids []string
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		if id, ok := child.Attr("id"); ok {
			ids = append(ids, id)
		}
	})
	return ids
}

func TestFactoryAddAssignsUniqueIDs(t *testing.T) {
	doc := newDocument(t)

	var calls []string
	f := New(schema.DefaultFields()[model.KindPhone], newGenerator(t),
		WithValidation(func(_ *dom.Document, inst model.Instance) error {
			calls = append(calls, "validate:"+inst.RootID)
			return nil
		}),
		WithAfterInsert(func(_ *dom.Document, inst model.Instance) error {
			calls = append(calls, "after:"+inst.RootID)
			return nil
		}),
	)

	first, err := f.Add(doc, "phone-label", model.PositionAfterEnd, 0, true)
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	second, err := f.Add(doc, "phone-error1", model.PositionAfterEnd, 10, false)
	if err != nil {
		t.Fatalf("add second: %v", err)
	}

	if first.RootID != "phone1" || first.ErrorID != "phone-error1" {
		t.Fatalf("unexpected first instance %+v", first)
	}
	if second.RootID != "phone2" || second.ErrorID != "phone-error2" {
		t.Fatalf("unexpected second instance %+v", second)
	}
	if f.Count() != 2 {
		t.Fatalf("expected count 2, got %d", f.Count())
	}

	want := []string{"validate:phone1", "after:phone1", "validate:phone2", "after:phone2"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("hook order mismatch (-want +got):\n%s", diff)
	}

	order := childIDs(doc.ByID("stage"))
	wantOrder := []string{"phone-label", "phone1", "phone-error1", "phone2", "phone-error2", "emergency-label"}
	if diff := cmp.Diff(wantOrder, order); diff != "" {
		t.Fatalf("document order mismatch (-want +got):\n%s", diff)
	}

	if placeholder, _ := doc.Attr("phone1", "placeholder"); placeholder != "(555)-555-5555 *" {
		t.Fatalf("required placeholder mismatch: %q", placeholder)
	}
	if _, ok := doc.Attr("phone1", "required"); !ok {
		t.Fatalf("expected phone1 to be required")
	}
	if _, ok := doc.Attr("phone2", "required"); ok {
		t.Fatalf("expected phone2 to be optional")
	}
	if maxLength, _ := doc.Attr("phone2", "maxlength"); maxLength != "14" {
		t.Fatalf("expected maxlength 14, got %q", maxLength)
	}
	if style, _ := doc.Attr("phone2", "style"); style != "margin-top: 10px" {
		t.Fatalf("unexpected margin style %q", style)
	}
	if doc.Display("phone-error1") != "none" {
		t.Fatalf("error label must start hidden")
	}
}

func TestFactoryAddMissingAnchor(t *testing.T) {
	doc := newDocument(t)
	f := New(schema.DefaultFields()[model.KindEmail], newGenerator(t))

	_, err := f.Add(doc, "nowhere", model.PositionAfterEnd, 0, false)
	if !errors.Is(err, dom.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
}

func TestFactoryHookErrorStopsAfterInsert(t *testing.T) {
	doc := newDocument(t)
	boom := errors.New("boom")
	afterCalled := false

	f := New(schema.DefaultFields()[model.KindEmail], newGenerator(t),
		WithValidation(func(*dom.Document, model.Instance) error { return boom }),
		WithAfterInsert(func(*dom.Document, model.Instance) error {
			afterCalled = true
			return nil
		}),
	)
	if _, err := f.Add(doc, "phone-label", model.PositionAfterEnd, 0, false); !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if afterCalled {
		t.Fatalf("after-insert hook must not run when validation hook fails")
	}
}

func TestFactoryReset(t *testing.T) {
	doc := newDocument(t)
	f := New(schema.DefaultFields()[model.KindDOB], newGenerator(t))

	inst, err := f.Add(doc, "phone-label", model.PositionAfterEnd, 0, true)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if inst.RootID != "dob" || inst.Suffix != "" {
		t.Fatalf("singleton kinds use bare ids, got %+v", inst)
	}
	f.Reset()
	if f.Count() != 0 {
		t.Fatalf("expected reset counter")
	}
}

func TestSetMountsContactChildren(t *testing.T) {
	doc := newDocument(t)
	var bound []string
	set, err := NewSet(schema.DefaultFields(), newGenerator(t), WithBinding(func(_ *dom.Document, inst model.Instance) error {
		bound = append(bound, inst.RootID)
		return nil
	}))
	if err != nil {
		t.Fatalf("new set: %v", err)
	}

	primary, err := set.Mount(doc, model.Mount{
		Kind: model.KindContact, Anchor: "emergency-label", Position: model.PositionBeforeEnd, Margin: 10, Required: true,
	})
	if err != nil {
		t.Fatalf("mount primary: %v", err)
	}
	if primary.RootID != "contact1" {
		t.Fatalf("unexpected root %q", primary.RootID)
	}

	wantChildren := []string{"name-fields1", "phone1", "phone-error1", "name-error1", "email1", "email-error1", "contact1-relation"}
	if diff := cmp.Diff(wantChildren, childIDs(doc.ByID("contact1"))); diff != "" {
		t.Fatalf("contact children mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(doc.Text("contact1"), "Primary Contact *") {
		t.Fatalf("expected primary heading, got %q", doc.Text("contact1"))
	}
	if _, ok := doc.Attr("first-name1", "required"); !ok {
		t.Fatalf("nested name must inherit required")
	}
	if _, ok := doc.Attr("email1", "required"); ok {
		t.Fatalf("nested email is never required")
	}

	wantBound := []string{"contact1", "name-fields1", "phone1", "email1", "contact1-relation"}
	if diff := cmp.Diff(wantBound, bound); diff != "" {
		t.Fatalf("binding order mismatch (-want +got):\n%s", diff)
	}

	secondary, err := set.Mount(doc, model.Mount{
		Kind: model.KindContact, Anchor: "contact1", Position: model.PositionAfterEnd, Margin: 15,
	})
	if err != nil {
		t.Fatalf("mount secondary: %v", err)
	}
	if secondary.RootID != "contact2" {
		t.Fatalf("unexpected root %q", secondary.RootID)
	}
	if !strings.Contains(doc.Text("contact2"), "Secondary Contact") || strings.Contains(doc.Text("contact2"), "*") {
		t.Fatalf("unexpected secondary heading %q", doc.Text("contact2"))
	}
	if _, ok := doc.Attr("first-name2", "required"); ok {
		t.Fatalf("optional contact must not mark its name required")
	}
	if diff := cmp.Diff([]string{"contact1", "contact2"}, childIDs(doc.ByID("emergency-label"))); diff != "" {
		t.Fatalf("contact order mismatch (-want +got):\n%s", diff)
	}
	if set.Count(model.KindPhone) != 2 || len(set.Instances()) != 10 {
		t.Fatalf("unexpected counts: phones %d instances %d", set.Count(model.KindPhone), len(set.Instances()))
	}

	set.Reset()
	if set.Count(model.KindContact) != 0 || len(set.Instances()) != 0 {
		t.Fatalf("expected reset set")
	}
}

func TestSetUnknownKindAndRecursion(t *testing.T) {
	doc := newDocument(t)
	set, err := NewSet(schema.DefaultFields(), newGenerator(t))
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	_, err = set.Mount(doc, model.Mount{Kind: "passport", Anchor: "phone-label", Position: model.PositionAfterEnd})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}

	fields := schema.DefaultFields()
	loop := fields[model.KindContact]
	loop.Children = []model.Mount{{Kind: model.KindContact, Anchor: model.AnchorParent, Position: model.PositionBeforeEnd}}
	fields[model.KindContact] = loop
	recursive, err := NewSet(fields, newGenerator(t))
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	_, err = recursive.Mount(doc, model.Mount{Kind: model.KindContact, Anchor: "emergency-label", Position: model.PositionBeforeEnd})
	if err == nil || !strings.Contains(err.Error(), "nesting deeper") {
		t.Fatalf("expected nesting error, got %v", err)
	}
}

func TestSetResolvesLastClassAnchor(t *testing.T) {
	doc := newDocument(t)
	set, err := NewSet(schema.DefaultFields(), newGenerator(t))
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	if _, err := set.Mount(doc, model.Mount{Kind: model.KindPhone, Anchor: "phone-label", Position: model.PositionAfterEnd}); err != nil {
		t.Fatalf("mount phone: %v", err)
	}
	inst, err := set.Mount(doc, model.Mount{Kind: model.KindEmail, Anchor: "last:error-label", Position: model.PositionAfterEnd})
	if err != nil {
		t.Fatalf("mount email: %v", err)
	}
	order := childIDs(doc.ByID("stage"))
	want := []string{"phone-label", "phone1", "phone-error1", inst.RootID, inst.ErrorID, "emergency-label"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
