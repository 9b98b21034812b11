package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstage/pkg/model"
)

func TestDefaultFormIsValid(t *testing.T) {
	form := Default()
	if err := Validate(form); err != nil {
		t.Fatalf("default form invalid: %v", err)
	}

	var stages []string
	for _, stage := range form.Stages {
		stages = append(stages, stage.ID)
	}
	if diff := cmp.Diff([]string{"trip", "applicant", "emergency"}, stages); diff != "" {
		t.Fatalf("stage order mismatch (-want +got):\n%s", diff)
	}

	for _, kind := range model.Kinds() {
		if _, ok := form.Field(kind); !ok {
			t.Fatalf("default table missing kind %q", kind)
		}
	}

	repeat := form.Stages[2].Repeat
	if repeat == nil || repeat.Mount.Anchor != "contact1" || repeat.Mount.Required {
		t.Fatalf("unexpected secondary contact repeat: %+v", repeat)
	}
}

func TestDefaultContactChildren(t *testing.T) {
	spec := DefaultFields()[model.KindContact]
	want := []model.Mount{
		{Kind: model.KindName, Anchor: "{parent}", Position: model.PositionBeforeEnd, Margin: 10, Required: true},
		{Kind: model.KindPhone, Anchor: "last:name-fields", Position: model.PositionAfterEnd, Margin: 10, Required: true},
		{Kind: model.KindEmail, Anchor: "last:error-label", Position: model.PositionAfterEnd, Margin: 10},
		{Kind: model.KindRelation, Anchor: "last:error-label", Position: model.PositionAfterEnd, Margin: 10},
	}
	if diff := cmp.Diff(want, spec.Children); diff != "" {
		t.Fatalf("contact children mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileYAMLMergesOverDefaults(t *testing.T) {
	form, err := LoadFile(filepath.Join("testdata", "visa.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if form.ID != "visa" {
		t.Fatalf("expected id visa, got %q", form.ID)
	}
	if form.Title != "Visa Application" {
		t.Fatalf("expected sanitised title, got %q", form.Title)
	}
	if form.StartStage != 1 {
		t.Fatalf("expected start stage 1, got %d", form.StartStage)
	}
	if len(form.Stages) != 2 {
		t.Fatalf("expected stages to be replaced, got %d", len(form.Stages))
	}

	phone := form.Fields[model.KindPhone]
	if phone.Placeholder != "(000)-000-0000" {
		t.Fatalf("placeholder override lost: %q", phone.Placeholder)
	}
	if phone.RootID != "phone{n}" || !phone.Repeatable {
		t.Fatalf("default phone spec not preserved: %+v", phone)
	}

	relation := form.Fields[model.KindRelation]
	want := []model.Option{{Value: "parent", Label: "Parent"}, {Value: "guardian", Label: "Guardian"}}
	if diff := cmp.Diff(want, relation.Options); diff != "" {
		t.Fatalf("relation options mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "minimal.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	fsys := fstest.MapFS{"forms/minimal.json": {Data: data}}

	form, err := LoadFS(fsys, "forms/minimal.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if form.Title != "Minimal" || form.StartStage != 2 {
		t.Fatalf("unexpected form header: %q start %d", form.Title, form.StartStage)
	}
	if form.ID != DefaultFormID || len(form.Stages) != 3 {
		t.Fatalf("expected default id and stages, got %q with %d stages", form.ID, len(form.Stages))
	}
}

func TestLoadFileReportsStructuralErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "broken.yaml"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm, got %v", err)
	}
	for _, fragment := range []string{`section id "dup"`, `unknown kind "passport"`, `invalid position "sideways"`} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected error to mention %s, got %v", fragment, err)
		}
	}
}

func TestParseRejectsEmptyAndGarbage(t *testing.T) {
	if _, err := Parse(nil, SourceFromFile("empty.yaml")); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := Parse([]byte("   \n"), SourceFromFile("blank.yaml")); err == nil {
		t.Fatalf("expected error for blank payload")
	}
	if _, err := Parse([]byte("stages: [unterminated"), SourceFromFile("bad.yaml")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNewDocumentDetectsFormat(t *testing.T) {
	cases := []struct {
		src  Source
		raw  string
		want Format
	}{
		{SourceFromFile("form.json"), "title: x", FormatJSON},
		{SourceFromFile("form.YML"), `{"title": "x"}`, FormatYAML},
		{SourceFromFS("forms/form.yaml"), "title: x", FormatYAML},
		{SourceBuiltin(), "  \n{\"title\": \"x\"}", FormatJSON},
		{SourceBuiltin(), "title: x", FormatYAML},
	}
	for _, tc := range cases {
		doc, err := NewDocument(tc.src, []byte(tc.raw))
		if err != nil {
			t.Fatalf("%s: new document: %v", tc.src.Location(), err)
		}
		if doc.Format() != tc.want {
			t.Fatalf("%s: format = %q, want %q", tc.src.Location(), doc.Format(), tc.want)
		}
		if doc.Source() != tc.src || string(doc.Raw()) != tc.raw {
			t.Fatalf("%s: document does not round-trip its inputs", tc.src.Location())
		}
	}

	if _, err := NewDocument(nil, []byte("title: x")); err == nil {
		t.Fatalf("expected error without a source")
	}
}

func TestParseDocumentNamesFormatOnError(t *testing.T) {
	doc, err := NewDocument(SourceFromFile("forms/visa.json"), []byte("title: not json"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	_, err = ParseDocument(doc)
	if err == nil || !strings.Contains(err.Error(), "forms/visa.json as json") {
		t.Fatalf("expected json parse error naming the file, got %v", err)
	}
}

func TestValidateStartStageRange(t *testing.T) {
	form := Default()
	form.StartStage = 4
	if err := Validate(form); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected start stage error, got %v", err)
	}

	form = Default()
	form.Stages[0].Mounts[0].Anchor = model.AnchorParent
	if err := Validate(form); err == nil || !strings.Contains(err.Error(), "outside a nested mount") {
		t.Fatalf("expected parent anchor error, got %v", err)
	}
}

func TestValidateRepeatLimit(t *testing.T) {
	for _, max := range []int{-1, 0, model.MaxRepeatLimit + 1} {
		form := Default()
		form.Stages[2].Repeat.Max = max
		err := Validate(form)
		if !errors.Is(err, ErrInvalidForm) || !strings.Contains(err.Error(), "repeat max") {
			t.Fatalf("max %d: expected repeat max error, got %v", max, err)
		}
	}

	form := Default()
	form.Stages[2].Repeat.Max = model.MaxRepeatLimit
	if err := Validate(form); err != nil {
		t.Fatalf("max at limit should validate: %v", err)
	}
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"":                                 "",
		"  Plain  ":                        "Plain",
		"<script>alert(1)</script>Name":    "Name",
		"Departure date can't be in past.": "Departure date can't be in past.",
		"<a href='x'>Link</a> & more":      "Link & more",
	}
	for input, want := range cases {
		if got := SanitizeText(input); got != want {
			t.Fatalf("SanitizeText(%q) = %q, want %q", input, got, want)
		}
	}
}
