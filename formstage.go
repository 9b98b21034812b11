package formstage

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formstage/pkg/model"
	"github.com/goliatone/go-formstage/pkg/orchestrator"
	"github.com/goliatone/go-formstage/pkg/schema"
	"github.com/goliatone/go-formstage/pkg/templates"
)

// Request describes one interaction with a form; alias exported via the root
// package for convenience.
type Request = orchestrator.Request

// Result is the rebuilt document returned for a Request.
type Result = orchestrator.Result

// Action selects what a request does.
type Action = orchestrator.Action

// Form is a progressive form definition.
type Form = model.Form

// Engine processes form requests.
type Engine = orchestrator.Orchestrator

// Actions re-exported from the orchestrator.
const (
	ActionRender = orchestrator.ActionRender
	ActionEvent  = orchestrator.ActionEvent
	ActionNext   = orchestrator.ActionNext
	ActionBack   = orchestrator.ActionBack
	ActionRepeat = orchestrator.ActionRepeat
)

// New exposes the orchestrator constructor from the top-level module.
func New(options ...orchestrator.Option) (*Engine, error) {
	return orchestrator.New(options...)
}

// DefaultForm returns the built-in travel application.
func DefaultForm() Form {
	return schema.Default()
}

// LoadForm reads a YAML or JSON schema and merges it over the built-in form.
func LoadForm(path string) (Form, error) {
	return schema.LoadFile(path)
}

// RenderHTML renders the first page of a form. It is the simplest entry point
// for callers that just want HTML output.
func RenderHTML(ctx context.Context, options ...orchestrator.Option) ([]byte, error) {
	engine, err := orchestrator.New(options...)
	if err != nil {
		return nil, err
	}
	res, err := engine.Process(ctx, Request{Action: ActionRender})
	if err != nil {
		return nil, err
	}
	page, err := res.HTML()
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

// EmbeddedTemplates exposes the built-in field and page templates so callers
// can reuse or extend them.
func EmbeddedTemplates() fs.FS {
	return templates.TemplatesFS()
}

// AssetsFS exposes the default stylesheet so Go applications can serve it
// without a build step.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formstage.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return templates.AssetsFS()
}
