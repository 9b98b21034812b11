package tui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstage/pkg/orchestrator"
	"github.com/goliatone/go-formstage/pkg/schema"
	"github.com/goliatone/go-formstage/pkg/testsupport"
	"github.com/goliatone/go-formstage/pkg/validation"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	confirm   []bool
	infos     []string
	prompts   []string

	inputPos   int
	selectPos  int
	confirmPos int
	inputErr   error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted for " + cfg.Message)
	}
	s.prompts = append(s.prompts, cfg.Message)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted for " + cfg.Message)
	}
	s.prompts = append(s.prompts, cfg.Message)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func newEngine(t *testing.T, options ...orchestrator.Option) *orchestrator.Orchestrator {
	t.Helper()
	base := []orchestrator.Option{
		orchestrator.WithValidator(validation.New(validation.WithClock(testsupport.FixedClock()))),
	}
	engine, err := orchestrator.New(append(base, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestWalkCompletesAllStages(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			"2024-06-01", "2024-07-01", "2024-07-20",
			"Jane", "Doe", "5551234567", "jane@example.com", "1990-01-01",
			"John", "Doe", "5559876543", "",
		},
		selectIdx: []int{5},
		confirm:   []bool{false},
	}
	w, err := New(newEngine(t), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new walker: %v", err)
	}

	out, err := w.Walk(testsupport.Context())
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]string{
		"departure":         "2024-07-01",
		"return":            "2024-07-20",
		"first-name1":       "Jane",
		"last-name1":        "Doe",
		"phone1":            "(555)-123-4567",
		"email1":            "jane@example.com",
		"dob":               "1990-01-01",
		"first-name2":       "John",
		"last-name2":        "Doe",
		"phone2":            "(555)-987-6543",
		"contact1-relation": "friend",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantInfos := []string{
		"Stage 1 of 3: Trip Details",
		"! " + validation.MessageDeparturePast,
		"Stage 2 of 3: Applicant Information",
		"Stage 3 of 3: Emergency Contacts",
	}
	if diff := cmp.Diff(wantInfos, driver.infos); diff != "" {
		t.Fatalf("infos mismatch (-want +got):\n%s", diff)
	}
	if driver.prompts[0] != "Departure Date *" || driver.prompts[len(driver.prompts)-1] != "Relation to Applicant" {
		t.Fatalf("unexpected prompt messages %v", driver.prompts)
	}
}

func TestWalkAddsRepeatInstance(t *testing.T) {
	form := schema.Default()
	form.StartStage = 3
	driver := &stubDriver{
		inputs:    []string{"John", "Doe", "5559876543", "", "Ann", "Lee", "", ""},
		selectIdx: []int{5, 0},
		confirm:   []bool{true},
	}
	w, err := New(newEngine(t, orchestrator.WithForm(form)),
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatPrettyText),
	)
	if err != nil {
		t.Fatalf("new walker: %v", err)
	}

	out, err := w.Walk(testsupport.Context())
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	want := "contact1-relation: friend\n" +
		"first-name2: John\n" +
		"first-name3: Ann\n" +
		"last-name2: Doe\n" +
		"last-name3: Lee\n" +
		"phone2: (555)-987-6543\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if w.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", w.ContentType())
	}
}

func TestWalkStopsAfterRepeatedInvalidAnswers(t *testing.T) {
	driver := &stubDriver{inputs: []string{"2024-06-01", "2024-06-02", "2024-06-03"}}
	w, err := New(newEngine(t), WithPromptDriver(driver), WithMaxAttempts(3))
	if err != nil {
		t.Fatalf("new walker: %v", err)
	}
	if _, err := w.Walk(testsupport.Context()); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestWalkPropagatesAbort(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	w, err := New(newEngine(t), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new walker: %v", err)
	}
	if _, err := w.Walk(testsupport.Context()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestNewRequiresEngine(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error without engine")
	}
}
