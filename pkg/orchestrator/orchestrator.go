package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstage/pkg/binding"
	"github.com/goliatone/go-formstage/pkg/dom"
	"github.com/goliatone/go-formstage/pkg/factory"
	"github.com/goliatone/go-formstage/pkg/model"
	"github.com/goliatone/go-formstage/pkg/render"
	rendertemplate "github.com/goliatone/go-formstage/pkg/render/template"
	"github.com/goliatone/go-formstage/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formstage/pkg/schema"
	"github.com/goliatone/go-formstage/pkg/stage"
	"github.com/goliatone/go-formstage/pkg/templates"
	"github.com/goliatone/go-formstage/pkg/validation"
)

// CompletionMessage is shown when the last stage passes its gate.
const CompletionMessage = "Thank you! Your application is complete."

// FadeInClass marks an instance added by the current repeat action.
const FadeInClass = "fade-in"

// Metrics receives outcome notifications from a request.
type Metrics interface {
	binding.Observer
	stage.Observer
	ObserveAction(action string, outcome string, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveValidation(model.Kind, bool)          {}
func (nopMetrics) ObserveStage(string, int)                    {}
func (nopMetrics) ObserveAction(string, string, time.Duration) {}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithForm sets the form definition. It is finalised (sanitised and
// validated) when the orchestrator is built.
func WithForm(form model.Form) Option {
	return func(o *Orchestrator) {
		o.form = form
		o.formSpecified = true
	}
}

// WithTemplates replaces the embedded template bundle.
func WithTemplates(renderer rendertemplate.TemplateRenderer) Option {
	return func(o *Orchestrator) {
		o.templates = renderer
	}
}

// WithValidator injects the field validator, typically to pin the clock.
func WithValidator(v *validation.Validator) Option {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// WithLogger sets the logger shared by every component of a request.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics registers a Metrics sink.
func WithMetrics(metrics Metrics) Option {
	return func(o *Orchestrator) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithEndpoints overrides the URLs written into hx-post attributes.
func WithEndpoints(endpoints render.Endpoints) Option {
	return func(o *Orchestrator) {
		o.endpoints = endpoints
	}
}

// WithAssets links script and stylesheet URLs from the page head.
func WithAssets(assets render.Assets) Option {
	return func(o *Orchestrator) {
		o.assets = assets
	}
}

// WithInlineStylesheet embeds the default stylesheet in rendered pages.
func WithInlineStylesheet(enabled bool) Option {
	return func(o *Orchestrator) {
		o.inlineCSS = enabled
	}
}

// WithIDGenerator overrides how new form instance ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// Orchestrator rebuilds a form document for each request. It holds no
// per-request state and is safe for concurrent use.
type Orchestrator struct {
	form          model.Form
	formSpecified bool
	templates     rendertemplate.TemplateRenderer
	shell         render.Renderer
	validator     *validation.Validator
	logger        *zap.Logger
	metrics       Metrics
	endpoints     render.Endpoints
	assets        render.Assets
	inlineCSS     bool
	newID         func() string
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies fall back to the built-in form, templates and validator.
func New(options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		logger:  zap.NewNop(),
		metrics: nopMetrics{},
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if err := o.applyDefaults(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Orchestrator) applyDefaults() error {
	if !o.formSpecified {
		o.form = schema.Default()
	}
	if err := schema.Finalize(&o.form); err != nil {
		return fmt.Errorf("orchestrator: form: %w", err)
	}
	if o.templates == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(templates.TemplatesFS()))
		if err != nil {
			return fmt.Errorf("orchestrator: default templates: %w", err)
		}
		o.templates = engine
	}
	o.shell = render.NewShellRenderer(o.templates)
	if o.validator == nil {
		opts := []validation.Option{}
		if relation, ok := o.form.Field(model.KindRelation); ok {
			opts = append(opts, validation.WithRelations(relation.Options))
		}
		o.validator = validation.New(opts...)
	}
	defaults := render.DefaultEndpoints()
	if o.endpoints.Events == "" {
		o.endpoints.Events = defaults.Events
	}
	if o.endpoints.Next == "" {
		o.endpoints.Next = defaults.Next
	}
	if o.endpoints.Back == "" {
		o.endpoints.Back = defaults.Back
	}
	if o.endpoints.Repeat == "" {
		o.endpoints.Repeat = defaults.Repeat
	}
	return nil
}

// Form returns the finalised form definition.
func (o *Orchestrator) Form() model.Form {
	return o.form
}

// Validator returns the field validator shared by every request.
func (o *Orchestrator) Validator() *validation.Validator {
	return o.validator
}

// Process rebuilds the document for req and applies its action.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	action := req.Action
	if action == "" {
		action = ActionRender
	}

	res, err := o.process(ctx, action, req)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case res.Completed:
		outcome = "completed"
	case res.Blocked:
		outcome = "blocked"
	}
	o.metrics.ObserveAction(string(action), outcome, time.Since(started))
	if err != nil {
		return nil, err
	}

	o.logger.Info("form processed",
		zap.String("form_id", res.FormID),
		zap.String("action", string(action)),
		zap.Int("stage", res.Stage),
		zap.Bool("gate_open", res.GateOpen),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

func (o *Orchestrator) process(ctx context.Context, action Action, req Request) (*Result, error) {
	count := len(o.form.Stages)
	active := req.Stage
	if active < 1 || active > count {
		active = o.form.StartStage
	}
	formID := strings.TrimSpace(req.FormID)
	if formID == "" {
		formID = o.newID()
	}
	logger := o.logger.With(zap.String("form_id", formID))

	repeats := o.clampRepeats(req.Repeats)
	added := -1
	if action == ActionRepeat {
		added = o.addRepeat(repeats, active)
	}

	shell, err := o.shell.Render(ctx, o.form, render.RenderOptions{
		Hidden: render.MergeHiddenFields(nil,
			render.StageField(active),
			render.RepeatsField(repeats),
			render.FormIDField(formID),
		),
		Endpoints: o.endpoints,
		Assets:    o.assets,
		InlineCSS: o.stylesheet(),
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	doc, err := dom.ParseString(string(shell))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	binder := binding.New(o.validator,
		binding.WithEndpoint(o.endpoints.Events),
		binding.WithLogger(logger),
		binding.WithObserver(o.metrics),
	)
	set, err := factory.NewSet(o.form.Fields, factory.TemplateGenerator(o.templates),
		factory.WithBinding(binder.Attach),
		factory.WithSetLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	for i, st := range o.form.Stages {
		for _, mount := range st.Mounts {
			if _, err := set.Mount(doc, mount); err != nil {
				return nil, fmt.Errorf("orchestrator: stage %d: %w", i+1, err)
			}
		}
	}
	if err := o.mountRepeats(doc, set, repeats, added); err != nil {
		return nil, err
	}

	for _, group := range binder.Groups() {
		for _, id := range group.Inputs {
			if value, ok := req.Values[id]; ok {
				_ = doc.SetValue(id, value)
			}
		}
	}
	if err := binder.ApplyTouched(doc, req.Trigger); err != nil {
		logger.Debug("trigger not bound", zap.String("trigger", req.Trigger), zap.Error(err))
	}

	controller, err := stage.New(doc, stage.WithLogger(logger), stage.WithObserver(o.metrics))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if err := controller.Show(active); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	res := &Result{
		Document:  doc,
		FormDOMID: o.form.ID,
		FormID:    formID,
		Stages:    count,
		Repeats:   repeats,
		Trigger:   req.Trigger,
		Instances: set.Instances(),
		binder:    binder,
	}

	switch action {
	case ActionNext:
		err := controller.Advance()
		switch {
		case errors.Is(err, stage.ErrStageIncomplete):
			res.Blocked = true
		case errors.Is(err, stage.ErrNoNextStage):
			res.Completed = true
			_ = doc.SetText(StatusID, CompletionMessage)
			_ = doc.SetDisplay(StatusID, "block")
		case err != nil:
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	case ActionBack:
		if err := controller.Back(); err != nil && !errors.Is(err, stage.ErrStageOutOfRange) {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}

	res.Stage = controller.Active()
	res.GateOpen = controller.UpdateNextButton(res.Stage)
	_ = doc.SetValue(render.FieldStage, strconv.Itoa(res.Stage))
	return res, nil
}

// addRepeat increments the repeat count of stage active when its limit
// allows and returns the index of the stage that grew, or -1.
func (o *Orchestrator) addRepeat(repeats []int, active int) int {
	idx := active - 1
	repeat := o.form.Stages[idx].Repeat
	if repeat == nil {
		return -1
	}
	if repeats[idx] >= repeat.Max {
		return -1
	}
	repeats[idx]++
	o.metrics.ObserveStage("repeat", active)
	return idx
}

// clampRepeats bounds the posted counts to each stage's repeat limit. Stages
// without a repeat always count zero.
func (o *Orchestrator) clampRepeats(posted []int) []int {
	repeats := make([]int, len(o.form.Stages))
	for i, st := range o.form.Stages {
		if st.Repeat == nil || i >= len(posted) || posted[i] < 0 {
			continue
		}
		repeats[i] = min(posted[i], st.Repeat.Max)
	}
	return repeats
}

func (o *Orchestrator) mountRepeats(doc *dom.Document, set *factory.Set, repeats []int, added int) error {
	for i, st := range o.form.Stages {
		if st.Repeat == nil {
			continue
		}
		var last model.Instance
		for n := 0; n < repeats[i]; n++ {
			inst, err := set.Mount(doc, st.Repeat.Mount)
			if err != nil {
				return fmt.Errorf("orchestrator: stage %d repeat: %w", i+1, err)
			}
			last = inst
		}
		if i == added && last.RootID != "" {
			_ = doc.AddClass(last.RootID, FadeInClass)
		}
		if repeats[i] >= st.Repeat.Max {
			_ = doc.SetDisplay(st.Repeat.ButtonID, "none")
		}
	}
	_ = doc.SetValue(render.FieldRepeats, render.RepeatsField(repeats).Value)
	return nil
}

func (o *Orchestrator) stylesheet() string {
	if !o.inlineCSS {
		return ""
	}
	return templates.Stylesheet()
}
