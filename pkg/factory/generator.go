package factory

import (
	"fmt"

	"github.com/goliatone/go-formstage/pkg/model"
	rendertemplate "github.com/goliatone/go-formstage/pkg/render/template"
)

// Generator produces the HTML fragment for one instance of spec.
type Generator interface {
	Generate(spec model.FieldSpec, inst model.Instance, margin int) (string, error)
}

// GeneratorFunc adapts a function into a Generator.
type GeneratorFunc func(spec model.FieldSpec, inst model.Instance, margin int) (string, error)

// Generate calls the underlying function.
func (fn GeneratorFunc) Generate(spec model.FieldSpec, inst model.Instance, margin int) (string, error) {
	return fn(spec, inst, margin)
}

// TemplateGenerator renders fragments through the spec's named template.
func TemplateGenerator(renderer rendertemplate.TemplateRenderer) Generator {
	return GeneratorFunc(func(spec model.FieldSpec, inst model.Instance, margin int) (string, error) {
		if renderer == nil {
			return "", fmt.Errorf("factory: template renderer is nil")
		}
		out, err := renderer.RenderTemplate(spec.Template, TemplateData(spec, inst, margin))
		if err != nil {
			return "", fmt.Errorf("factory: render %s: %w", spec.Kind, err)
		}
		return out, nil
	})
}

// TemplateData is the context field templates receive.
func TemplateData(spec model.FieldSpec, inst model.Instance, margin int) map[string]any {
	options := make([]map[string]any, 0, len(spec.Options))
	for _, opt := range spec.Options {
		options = append(options, map[string]any{"value": opt.Value, "label": opt.Label})
	}
	inputs := append([]string(nil), inst.Inputs...)
	errs := append([]string(nil), inst.Errors...)

	return map[string]any{
		"kind":        string(inst.Kind),
		"seq":         inst.Seq,
		"suffix":      inst.Suffix,
		"primary":     inst.Seq == 1,
		"root_id":     inst.RootID,
		"error_id":    inst.ErrorID,
		"inputs":      inputs,
		"errors":      errs,
		"margin":      margin,
		"required":    inst.Required,
		"placeholder": spec.Placeholder,
		"label":       spec.Label,
		"message":     spec.Message,
		"options":     options,
	}
}
