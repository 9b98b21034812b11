package schema

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstage/pkg/model"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips every tag from raw and returns plain text. Entities
// produced by the policy are decoded again since templates escape on output.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// Sanitizer returns a decorator that reduces every user-visible string of a
// form (titles, labels, placeholders, messages, option labels) to plain text.
func Sanitizer() model.Decorator {
	return model.DecoratorFunc(func(form *model.Form) error {
		if form == nil {
			return nil
		}
		form.Title = SanitizeText(form.Title)
		for i := range form.Stages {
			stage := &form.Stages[i]
			stage.Title = SanitizeText(stage.Title)
			for j := range stage.Sections {
				stage.Sections[j].Label = SanitizeText(stage.Sections[j].Label)
			}
			if stage.Repeat != nil {
				stage.Repeat.Label = SanitizeText(stage.Repeat.Label)
			}
		}
		for kind, spec := range form.Fields {
			spec.Placeholder = SanitizeText(spec.Placeholder)
			spec.Label = SanitizeText(spec.Label)
			spec.Message = SanitizeText(spec.Message)
			if len(spec.Options) > 0 {
				options := make([]model.Option, len(spec.Options))
				for i, opt := range spec.Options {
					options[i] = model.Option{Value: strings.TrimSpace(opt.Value), Label: SanitizeText(opt.Label)}
				}
				spec.Options = options
			}
			form.Fields[kind] = spec
		}
		return nil
	})
}
