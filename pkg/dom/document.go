package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formstage/pkg/model"
)

// ErrElementNotFound is returned when an id or class lookup has no match.
var ErrElementNotFound = errors.New("dom: element not found")

// Document is an HTML tree addressed by element ids, mirroring the subset of
// the browser DOM the form needs.
type Document struct {
	doc *goquery.Document
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Find runs a CSS selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// ByID returns the selection for id, empty when absent.
func (d *Document) ByID(id string) *goquery.Selection {
	return d.doc.Find(idSelector(id)).First()
}

// Has reports whether an element with id exists.
func (d *Document) Has(id string) bool {
	return d.ByID(id).Length() > 0
}

func (d *Document) mustID(id string) (*goquery.Selection, error) {
	sel := d.ByID(id)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return sel, nil
}

// InsertAdjacentHTML parses fragment and inserts it relative to the element
// with id, following insertAdjacentHTML semantics.
func (d *Document) InsertAdjacentHTML(id string, position model.Position, fragment string) error {
	sel, err := d.mustID(id)
	if err != nil {
		return err
	}
	switch position {
	case model.PositionBeforeBegin:
		sel.BeforeHtml(fragment)
	case model.PositionAfterBegin:
		sel.PrependHtml(fragment)
	case model.PositionBeforeEnd:
		sel.AppendHtml(fragment)
	case model.PositionAfterEnd:
		sel.AfterHtml(fragment)
	default:
		return fmt.Errorf("dom: invalid insert position %q", position)
	}
	return nil
}

// LastIDByClass returns the id of the last element, in document order,
// carrying class.
func (d *Document) LastIDByClass(class string) (string, error) {
	sel := d.doc.Find("." + strings.TrimPrefix(class, ".")).Last()
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: .%s", ErrElementNotFound, class)
	}
	id, ok := sel.Attr("id")
	if !ok || id == "" {
		return "", fmt.Errorf("dom: last .%s has no id", class)
	}
	return id, nil
}

// LastIDByClassWithin is LastIDByClass restricted to the subtree rooted at
// rootID. It falls back to the whole document when the subtree has no match.
func (d *Document) LastIDByClassWithin(rootID, class string) (string, error) {
	root := d.ByID(rootID)
	if root.Length() > 0 {
		sel := root.Find("." + strings.TrimPrefix(class, ".")).Last()
		if id, ok := sel.Attr("id"); ok && id != "" {
			return id, nil
		}
	}
	return d.LastIDByClass(class)
}

// AddClass adds classes to the element with id.
func (d *Document) AddClass(id string, classes ...string) error {
	sel, err := d.mustID(id)
	if err != nil {
		return err
	}
	sel.AddClass(classes...)
	return nil
}

// RemoveClass removes classes from the element with id.
func (d *Document) RemoveClass(id string, classes ...string) error {
	sel, err := d.mustID(id)
	if err != nil {
		return err
	}
	sel.RemoveClass(classes...)
	return nil
}

// HasClass reports whether the element with id carries class.
func (d *Document) HasClass(id, class string) bool {
	return d.ByID(id).HasClass(class)
}

// SetText replaces the text content of the element with id.
func (d *Document) SetText(id, text string) error {
	sel, err := d.mustID(id)
	if err != nil {
		return err
	}
	sel.SetText(text)
	return nil
}

// Text returns the text content of the element with id.
func (d *Document) Text(id string) string {
	return d.ByID(id).Text()
}

// SetAttr sets an attribute on the element with id.
func (d *Document) SetAttr(id, name, value string) error {
	sel, err := d.mustID(id)
	if err != nil {
		return err
	}
	sel.SetAttr(name, value)
	return nil
}

// RemoveAttr drops an attribute from the element with id.
func (d *Document) RemoveAttr(id, name string) error {
	sel, err := d.mustID(id)
	if err != nil {
		return err
	}
	sel.RemoveAttr(name)
	return nil
}

// Attr reads an attribute of the element with id.
func (d *Document) Attr(id, name string) (string, bool) {
	return d.ByID(id).Attr(name)
}

// SetDisplay sets the inline display property, keeping other declarations.
func (d *Document) SetDisplay(id, display string) error {
	sel, err := d.mustID(id)
	if err != nil {
		return err
	}
	setStyle(sel, "display", display)
	return nil
}

// Display returns the inline display property of the element with id.
func (d *Document) Display(id string) string {
	style, _ := d.ByID(id).Attr("style")
	return styleValue(style, "display")
}

// Value returns the current value of an input, textarea or select.
func (d *Document) Value(id string) string {
	return SelectionValue(d.ByID(id))
}

// SelectionValue returns the value of the first element in sel.
func SelectionValue(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	switch goquery.NodeName(sel) {
	case "select":
		option := sel.Find("option[selected]").First()
		if option.Length() == 0 {
			option = sel.Find("option").First()
		}
		if value, ok := option.Attr("value"); ok {
			return value
		}
		return option.Text()
	case "textarea":
		return sel.Text()
	default:
		return sel.AttrOr("value", "")
	}
}

// SetValue stores value on an input, textarea or select. Selects mark the
// matching option and leave the selection untouched when none matches.
func (d *Document) SetValue(id, value string) error {
	sel, err := d.mustID(id)
	if err != nil {
		return err
	}
	switch goquery.NodeName(sel) {
	case "select":
		options := sel.Find("option")
		match := options.FilterFunction(func(_ int, option *goquery.Selection) bool {
			return option.AttrOr("value", option.Text()) == value
		})
		if match.Length() == 0 {
			return nil
		}
		options.RemoveAttr("selected")
		match.First().SetAttr("selected", "")
	case "textarea":
		sel.SetText(value)
	default:
		sel.SetAttr("value", value)
	}
	return nil
}

// OuterHTML renders the element with id including its own tag.
func (d *Document) OuterHTML(id string) (string, error) {
	sel, err := d.mustID(id)
	if err != nil {
		return "", err
	}
	return goquery.OuterHtml(sel)
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	for _, node := range d.doc.Nodes {
		if err := html.Render(&buf, node); err != nil {
			return "", fmt.Errorf("dom: render: %w", err)
		}
	}
	return buf.String(), nil
}

func idSelector(id string) string {
	return `[id="` + strings.ReplaceAll(id, `"`, `\"`) + `"]`
}
