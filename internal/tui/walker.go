package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formstage/pkg/model"
	"github.com/goliatone/go-formstage/pkg/orchestrator"
	"github.com/goliatone/go-formstage/pkg/validation"
)

// MessageRequired is shown when a required field is left empty.
const MessageRequired = "This field is required."

const skipOption = "(skip)"

// Walker drives the stages of a form in a terminal. Every answer is checked
// by the same engine that serves the web form.
type Walker struct {
	engine      *orchestrator.Orchestrator
	driver      PromptDriver
	format      OutputFormat
	theme       Theme
	maxAttempts int
}

// New returns a Walker over engine. Without WithPromptDriver it prompts on
// the terminal through survey.
func New(engine *orchestrator.Orchestrator, options ...Option) (*Walker, error) {
	if engine == nil {
		return nil, errors.New("tui: engine is required")
	}
	w := &Walker{
		engine:      engine,
		format:      OutputFormatJSON,
		theme:       Theme{ErrorPrefix: "! "},
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	if w.driver == nil {
		w.driver = NewSurveyDriver()
	}
	return w, nil
}

// ContentType reports the MIME type of Walk's output.
func (w *Walker) ContentType() string {
	if w.format == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// session carries the client-side state a browser would hold.
type session struct {
	res      *orchestrator.Result
	values   map[string]string
	answered map[string]bool
}

func (s *session) request(action orchestrator.Action, trigger string) orchestrator.Request {
	values := make(map[string]string, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return orchestrator.Request{
		Action:  action,
		Stage:   s.res.Stage,
		Repeats: append([]int(nil), s.res.Repeats...),
		FormID:  s.res.FormID,
		Trigger: trigger,
		Values:  values,
	}
}

// Walk prompts every stage until the form completes and returns the
// collected values in the configured format.
func (w *Walker) Walk(ctx context.Context) ([]byte, error) {
	res, err := w.engine.Process(ctx, orchestrator.Request{Action: orchestrator.ActionRender})
	if err != nil {
		return nil, err
	}
	s := &session{res: res, values: make(map[string]string), answered: make(map[string]bool)}
	form := w.engine.Form()

	for {
		stage := form.Stages[s.res.Stage-1]
		if err := w.driver.Info(ctx, fmt.Sprintf("%sStage %d of %d: %s", w.theme.StagePrefix, s.res.Stage, s.res.Stages, stage.Title)); err != nil {
			return nil, err
		}
		asked, err := w.promptStage(ctx, s)
		if err != nil {
			return nil, err
		}
		more, err := w.offerRepeat(ctx, s, stage.Repeat)
		if err != nil {
			return nil, err
		}
		asked += more

		next, err := w.engine.Process(ctx, s.request(orchestrator.ActionNext, ""))
		if err != nil {
			return nil, err
		}
		switch {
		case next.Completed:
			return w.serialize(collect(next))
		case next.Blocked && asked == 0:
			return nil, fmt.Errorf("%w: stage %d", ErrIncomplete, next.Stage)
		case next.Blocked:
			if err := w.driver.Info(ctx, w.theme.ErrorPrefix+"Please complete the highlighted fields."); err != nil {
				return nil, err
			}
		}
		s.res = next
	}
}

// promptStage asks every unanswered or failing field of the active stage and
// returns how many prompts were shown.
func (w *Walker) promptStage(ctx context.Context, s *session) (int, error) {
	asked := 0
	for _, field := range s.res.Fields(s.res.Stage) {
		if s.answered[field.ID] && !failing(s.res, field) {
			continue
		}
		if err := w.promptField(ctx, s, field); err != nil {
			return asked, err
		}
		asked++
	}
	return asked, nil
}

func failing(res *orchestrator.Result, field orchestrator.Field) bool {
	if _, failed := res.ErrorFor(field.ID); failed {
		return true
	}
	return field.Required && strings.TrimSpace(res.Document.Value(field.ID)) == ""
}

func (w *Walker) promptField(ctx context.Context, s *session, field orchestrator.Field) error {
	for attempt := 1; ; attempt++ {
		value, err := w.ask(ctx, s, field)
		if err != nil {
			return err
		}
		s.values[field.ID] = value

		// Optional fields left empty stay untouched.
		trigger := field.ID
		if !field.Required && strings.TrimSpace(value) == "" {
			trigger = ""
		}
		checked, err := w.engine.Process(ctx, s.request(orchestrator.ActionEvent, trigger))
		if err != nil {
			return err
		}
		s.res = checked
		s.values[field.ID] = checked.Document.Value(field.ID)
		s.answered[field.ID] = true

		msg, failed := checked.ErrorFor(field.ID)
		if !failed && field.Required && strings.TrimSpace(value) == "" {
			msg, failed = MessageRequired, true
		}
		if !failed {
			return nil
		}
		if err := w.driver.Info(ctx, w.theme.ErrorPrefix+msg); err != nil {
			return err
		}
		if attempt >= w.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.ID)
		}
	}
}

func (w *Walker) ask(ctx context.Context, s *session, field orchestrator.Field) (string, error) {
	message := promptMessage(field)
	if field.Type == "select" {
		options := make([]string, 0, len(field.Options)+1)
		values := make([]string, 0, len(field.Options)+1)
		if !field.Required {
			options = append(options, skipOption)
			values = append(values, validation.RelationNone)
		}
		defaultIndex := 0
		for _, opt := range field.Options {
			if opt.Value == s.values[field.ID] {
				defaultIndex = len(options)
			}
			options = append(options, opt.Label)
			values = append(values, opt.Value)
		}
		idx, err := w.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: defaultIndex})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(values) {
			return "", fmt.Errorf("tui: selection %d out of range for %s", idx, field.ID)
		}
		return values[idx], nil
	}

	cfg := InputConfig{
		Message: message,
		Default: s.values[field.ID],
	}
	if field.Type == "date" {
		cfg.Help = "Format: " + validation.DateLayout
	}
	if field.Kind == model.KindPhone {
		cfg.Help = "Digits only; formatted as (555)-555-5555"
	}
	return w.driver.Input(ctx, cfg)
}

func promptMessage(field orchestrator.Field) string {
	for _, candidate := range []string{field.Label, field.Placeholder} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return field.ID
}

// offerRepeat asks whether to add another repeat instance while the stage
// allows it, prompting the new fields after each addition.
func (w *Walker) offerRepeat(ctx context.Context, s *session, repeat *model.Repeat) (int, error) {
	if repeat == nil {
		return 0, nil
	}
	asked := 0
	idx := s.res.Stage - 1
	for s.res.Repeats[idx] < repeat.Max {
		add, err := w.driver.Confirm(ctx, ConfirmConfig{Message: repeat.Label + "?"})
		if err != nil {
			return asked, err
		}
		if !add {
			return asked, nil
		}
		res, err := w.engine.Process(ctx, s.request(orchestrator.ActionRepeat, ""))
		if err != nil {
			return asked, err
		}
		s.res = res
		n, err := w.promptStage(ctx, s)
		if err != nil {
			return asked, err
		}
		asked += n + 1
	}
	return asked, nil
}

// collect returns the answered values, dropping empties and unselected
// relations.
func collect(res *orchestrator.Result) map[string]string {
	out := make(map[string]string)
	for id, value := range res.Values() {
		if value == "" || value == validation.RelationNone {
			continue
		}
		out[id] = value
	}
	return out
}

func (w *Walker) serialize(values map[string]string) ([]byte, error) {
	if w.format == OutputFormatPrettyText {
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, values[k])
		}
		return []byte(b.String()), nil
	}
	return json.Marshal(values)
}
