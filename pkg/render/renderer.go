package render

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formstage/pkg/model"
	rendertemplate "github.com/goliatone/go-formstage/pkg/render/template"
)

// PageTemplate is the template the shell renderer executes.
const PageTemplate = "page/form"

// Renderer converts a form definition into the markup of its page shell:
// stages, section anchors, buttons and hidden state, but no field instances.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.Form, options RenderOptions) ([]byte, error)
}

// ShellRenderer renders the page shell with a TemplateRenderer.
type ShellRenderer struct {
	templates rendertemplate.TemplateRenderer
	name      string
}

var _ Renderer = (*ShellRenderer)(nil)

// NewShellRenderer returns a ShellRenderer executing PageTemplate.
func NewShellRenderer(templates rendertemplate.TemplateRenderer) *ShellRenderer {
	return &ShellRenderer{templates: templates, name: PageTemplate}
}

// Name identifies the renderer.
func (r *ShellRenderer) Name() string { return "html" }

// ContentType is the MIME type of the output.
func (r *ShellRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Render executes the page template for form.
func (r *ShellRenderer) Render(ctx context.Context, form model.Form, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("render: template renderer is nil")
	}
	out, err := r.templates.RenderTemplate(r.name, PageData(form, options))
	if err != nil {
		return nil, fmt.Errorf("render: page shell: %w", err)
	}
	return []byte(out), nil
}

// PageData builds the template context for the page shell.
func PageData(form model.Form, options RenderOptions) map[string]any {
	endpoints := options.Endpoints
	defaults := DefaultEndpoints()
	if endpoints.Events == "" {
		endpoints.Events = defaults.Events
	}
	if endpoints.Next == "" {
		endpoints.Next = defaults.Next
	}
	if endpoints.Back == "" {
		endpoints.Back = defaults.Back
	}
	if endpoints.Repeat == "" {
		endpoints.Repeat = defaults.Repeat
	}

	stages := make([]map[string]any, 0, len(form.Stages))
	for i, stage := range form.Stages {
		sections := make([]map[string]any, 0, len(stage.Sections))
		for _, section := range stage.Sections {
			element := section.Element
			if element == "" {
				element = "label"
			}
			sections = append(sections, map[string]any{
				"id":      section.ID,
				"label":   section.Label,
				"element": element,
				"class":   section.Class,
			})
		}
		entry := map[string]any{
			"number":   i + 1,
			"id":       stage.ID,
			"title":    stage.Title,
			"sections": sections,
			"first":    i == 0,
			"last":     i == len(form.Stages)-1,
		}
		if stage.Repeat != nil {
			entry["repeat"] = map[string]any{
				"button_id": stage.Repeat.ButtonID,
				"label":     stage.Repeat.Label,
			}
		}
		stages = append(stages, entry)
	}

	hidden := make([]map[string]any, 0, len(options.Hidden))
	for _, field := range SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	return map[string]any{
		"form": map[string]any{
			"id":    form.ID,
			"title": form.Title,
		},
		"stages": stages,
		"hidden": hidden,
		"endpoints": map[string]any{
			"events": endpoints.Events,
			"next":   endpoints.Next,
			"back":   endpoints.Back,
			"repeat": endpoints.Repeat,
		},
		"assets": map[string]any{
			"htmx":       options.Assets.HTMX,
			"stylesheet": options.Assets.Stylesheet,
		},
		"inline_css": options.InlineCSS,
	}
}
