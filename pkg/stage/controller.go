package stage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstage/pkg/dom"
)

var (
	// ErrStageIncomplete is returned by Advance when the gate is closed.
	ErrStageIncomplete = errors.New("stage: required fields are missing or invalid")
	// ErrNoNextStage is returned by Advance on the last stage.
	ErrNoNextStage = errors.New("stage: no next stage")
	// ErrStageOutOfRange is returned for stage numbers outside 1..Count.
	ErrStageOutOfRange = errors.New("stage: stage out of range")
)

// Markup conventions shared with the page template.
const (
	ActiveClass   = "active"
	DisabledClass = "disabled"
	ErrorBorder   = "error-border"
	AttrStage     = "data-stage"
	AttrGate      = "data-fs-gate"
)

// StageID returns the element id of stage n.
func StageID(n int) string { return "stage" + strconv.Itoa(n) }

// NextButtonID returns the element id of stage n's Next button.
func NextButtonID(n int) string { return "next-button" + strconv.Itoa(n) }

// Observer is notified of stage changes. Event is one of "show", "advance",
// "back" or "blocked".
type Observer interface {
	ObserveStage(event string, stage int)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers an Observer.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		c.observer = observer
	}
}

// Controller tracks the active stage of a document.
type Controller struct {
	doc      *dom.Document
	logger   *zap.Logger
	observer Observer
	count    int
	active   int
}

// New returns a Controller over every [data-stage] element of doc. No stage
// is active until Show is called.
func New(doc *dom.Document, options ...Option) (*Controller, error) {
	if doc == nil {
		return nil, errors.New("stage: document is nil")
	}
	c := &Controller{
		doc:    doc,
		logger: zap.NewNop(),
		count:  doc.Find("[" + AttrStage + "]").Length(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.count == 0 {
		return nil, errors.New("stage: document has no stages")
	}
	return c, nil
}

// Count returns the number of stages.
func (c *Controller) Count() int { return c.count }

// Active returns the active stage number, 0 before the first Show.
func (c *Controller) Active() int { return c.active }

// Show makes stage n the only visible stage, attaches the gate listeners of
// its required fields and refreshes its Next button.
func (c *Controller) Show(n int) error {
	if n < 1 || n > c.count {
		return fmt.Errorf("%w: %d of %d", ErrStageOutOfRange, n, c.count)
	}
	for i := 1; i <= c.count; i++ {
		id := StageID(i)
		if i == n {
			_ = c.doc.AddClass(id, ActiveClass)
			_ = c.doc.SetDisplay(id, "block")
			continue
		}
		_ = c.doc.RemoveClass(id, ActiveClass)
		_ = c.doc.SetDisplay(id, "none")
	}
	c.active = n
	c.AddFieldListeners(n)
	c.UpdateNextButton(n)
	c.logger.Debug("stage shown", zap.Int("stage", n), zap.Int("count", c.count))
	c.observe("show", n)
	return nil
}

// required returns the [required] fields of the active stage.
func (c *Controller) required(n int) *goquery.Selection {
	return c.doc.ByID(StageID(n)).Find("[required]")
}

// ValidateActive reports whether every required field of the active stage
// is non-empty, not blank and free of the error border.
func (c *Controller) ValidateActive() bool {
	if c.active == 0 {
		return false
	}
	valid := true
	c.required(c.active).EachWithBreak(func(_ int, field *goquery.Selection) bool {
		value := fieldValue(field)
		if value == "" || strings.TrimSpace(value) == "" || field.HasClass(ErrorBorder) {
			valid = false
			return false
		}
		return true
	})
	return valid
}

// fieldValue reads a field's current value. A select resting on a disabled
// placeholder option counts as empty.
func fieldValue(field *goquery.Selection) string {
	if goquery.NodeName(field) == "select" {
		option := field.Find("option[selected]").First()
		if option.Length() == 0 {
			option = field.Find("option").First()
		}
		if _, disabled := option.Attr("disabled"); disabled {
			return ""
		}
	}
	return dom.SelectionValue(field)
}

// UpdateNextButton enables or disables next-button{n} according to the gate
// and returns the gate state. A stage without a Next button is ignored.
func (c *Controller) UpdateNextButton(n int) bool {
	valid := n == c.active && c.ValidateActive()
	id := NextButtonID(n)
	if !c.doc.Has(id) {
		return valid
	}
	if valid {
		_ = c.doc.RemoveClass(id, DisabledClass)
		_ = c.doc.RemoveAttr(id, "disabled")
	} else {
		_ = c.doc.AddClass(id, DisabledClass)
		_ = c.doc.SetAttr(id, "disabled", "")
	}
	return valid
}

// AddFieldListeners marks the required fields of stage n so their events
// recompute the gate of that stage. It returns the number of fields marked.
func (c *Controller) AddFieldListeners(n int) int {
	gate := NextButtonID(n)
	fields := c.required(n)
	fields.Each(func(_ int, field *goquery.Selection) {
		field.SetAttr(AttrGate, gate)
	})
	return fields.Length()
}

// Advance moves to the next stage when the gate is open.
func (c *Controller) Advance() error {
	if !c.ValidateActive() {
		c.observe("blocked", c.active)
		return fmt.Errorf("%w: stage %d", ErrStageIncomplete, c.active)
	}
	if c.active >= c.count {
		return ErrNoNextStage
	}
	from := c.active
	if err := c.Show(from + 1); err != nil {
		return err
	}
	c.logger.Info("stage advanced", zap.Int("from", from), zap.Int("to", c.active))
	c.observe("advance", c.active)
	return nil
}

// Back moves to the previous stage without checking the gate.
func (c *Controller) Back() error {
	if c.active <= 1 {
		return fmt.Errorf("%w: no stage before %d", ErrStageOutOfRange, c.active)
	}
	if err := c.Show(c.active - 1); err != nil {
		return err
	}
	c.observe("back", c.active)
	return nil
}

func (c *Controller) observe(event string, n int) {
	if c.observer != nil {
		c.observer.ObserveStage(event, n)
	}
}
