package dom

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstage/pkg/model"
)

const page = `<!DOCTYPE html><html><body>
<div id="stage">
<label id="anchor" class="input-label">Label</label>
<span id="error" class="error-label" style="margin-top: 10px">x</span>
<select id="relation"><option value="none" disabled selected>None</option><option value="parent">Parent</option></select>
<input id="phone" value="(555)">
</div>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestInsertAdjacentHTMLPositions(t *testing.T) {
	doc := mustParse(t)

	steps := []struct {
		position model.Position
		id       string
	}{
		{model.PositionBeforeBegin, "before"},
		{model.PositionAfterEnd, "after"},
	}
	for _, step := range steps {
		if err := doc.InsertAdjacentHTML("anchor", step.position, `<b id="`+step.id+`"></b>`); err != nil {
			t.Fatalf("insert %s: %v", step.position, err)
		}
	}
	if err := doc.InsertAdjacentHTML("stage", model.PositionAfterBegin, `<i id="first"></i>`); err != nil {
		t.Fatalf("insert afterbegin: %v", err)
	}
	if err := doc.InsertAdjacentHTML("stage", model.PositionBeforeEnd, `<i id="last"></i>`); err != nil {
		t.Fatalf("insert beforeend: %v", err)
	}

	var got []string
	doc.ByID("stage").Children().Each(func(_ int, sel *goquery.Selection) {
		got = append(got, sel.AttrOr("id", ""))
	})
	want := []string{"first", "before", "anchor", "after", "error", "relation", "phone", "last"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertAdjacentHTMLMissingAnchor(t *testing.T) {
	doc := mustParse(t)
	err := doc.InsertAdjacentHTML("missing", model.PositionAfterEnd, "<b></b>")
	if !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
	if err := doc.InsertAdjacentHTML("anchor", model.Position("sideways"), "<b></b>"); err == nil {
		t.Fatalf("expected invalid position error")
	}
}

func TestLastIDByClass(t *testing.T) {
	doc := mustParse(t)
	if err := doc.InsertAdjacentHTML("phone", model.PositionAfterEnd, `<span id="error2" class="error-label"></span>`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	id, err := doc.LastIDByClass("error-label")
	if err != nil {
		t.Fatalf("last id: %v", err)
	}
	if id != "error2" {
		t.Fatalf("expected error2, got %s", id)
	}
	if _, err := doc.LastIDByClass("nothing"); !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
}

func TestClassesAndDisplay(t *testing.T) {
	doc := mustParse(t)

	if err := doc.AddClass("phone", "error-border"); err != nil {
		t.Fatalf("add class: %v", err)
	}
	if !doc.HasClass("phone", "error-border") {
		t.Fatalf("expected class to be present")
	}
	if err := doc.RemoveClass("phone", "error-border"); err != nil {
		t.Fatalf("remove class: %v", err)
	}
	if doc.HasClass("phone", "error-border") {
		t.Fatalf("expected class to be removed")
	}

	if err := doc.SetDisplay("error", "block"); err != nil {
		t.Fatalf("set display: %v", err)
	}
	style, _ := doc.Attr("error", "style")
	if style != "margin-top: 10px; display: block" {
		t.Fatalf("unexpected style %q", style)
	}
	if err := doc.SetDisplay("error", "none"); err != nil {
		t.Fatalf("set display: %v", err)
	}
	if got := doc.Display("error"); got != "none" {
		t.Fatalf("expected display none, got %q", got)
	}
}

func TestValues(t *testing.T) {
	doc := mustParse(t)

	if got := doc.Value("relation"); got != "none" {
		t.Fatalf("expected default selection none, got %q", got)
	}
	if err := doc.SetValue("relation", "parent"); err != nil {
		t.Fatalf("set select: %v", err)
	}
	if got := doc.Value("relation"); got != "parent" {
		t.Fatalf("expected parent, got %q", got)
	}
	if err := doc.SetValue("relation", "unknown"); err != nil {
		t.Fatalf("set unknown option: %v", err)
	}
	if got := doc.Value("relation"); got != "parent" {
		t.Fatalf("unknown option must not change selection, got %q", got)
	}

	if err := doc.SetValue("phone", "(555)-123"); err != nil {
		t.Fatalf("set input: %v", err)
	}
	if got := doc.Value("phone"); got != "(555)-123" {
		t.Fatalf("unexpected input value %q", got)
	}
	if got := doc.Value("missing"); got != "" {
		t.Fatalf("missing element must read as empty, got %q", got)
	}
}

func TestHTMLRoundTrip(t *testing.T) {
	doc := mustParse(t)
	if err := doc.SetText("error", "Please enter a valid phone number."); err != nil {
		t.Fatalf("set text: %v", err)
	}
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Please enter a valid phone number.") {
		t.Fatalf("expected rendered text, got:\n%s", out)
	}
	fragment, err := doc.OuterHTML("phone")
	if err != nil {
		t.Fatalf("outer html: %v", err)
	}
	if !strings.HasPrefix(fragment, `<input id="phone"`) {
		t.Fatalf("unexpected fragment %q", fragment)
	}
}
