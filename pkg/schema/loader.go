package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstage/pkg/model"
)

// LoadFile reads a JSON or YAML form definition from disk.
func LoadFile(path string) (model.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Form{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, SourceFromFile(path))
}

// LoadFS reads a JSON or YAML form definition from fsys.
func LoadFS(fsys fs.FS, name string) (model.Form, error) {
	if fsys == nil {
		return model.Form{}, fmt.Errorf("schema: nil filesystem for %s", name)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return model.Form{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return Parse(data, SourceFromFS(name))
}

// Parse decodes data, merges it over the default field table, sanitises the
// user-visible strings and validates the result.
func Parse(data []byte, src Source) (model.Form, error) {
	doc, err := NewDocument(src, data)
	if err != nil {
		return model.Form{}, err
	}
	return ParseDocument(doc)
}

// ParseDocument is Parse for a prepared Document.
func ParseDocument(doc Document) (model.Form, error) {
	location := "unknown"
	if src := doc.Source(); src != nil {
		location = src.Location()
	}

	parsed, err := decode(doc.Raw(), doc.Format(), location)
	if err != nil {
		return model.Form{}, err
	}

	form := merge(Default(), parsed)
	if err := Finalize(&form); err != nil {
		return model.Form{}, fmt.Errorf("schema: %s: %w", location, err)
	}
	return form, nil
}

// Finalize applies the sanitising decorator plus any extra decorators, then
// validates the form. Loaders call it; callers building a model.Form in code
// should too.
func Finalize(form *model.Form, decorators ...model.Decorator) error {
	all := append([]model.Decorator{Sanitizer()}, decorators...)
	if err := model.ApplyDecorators(form, all...); err != nil {
		return err
	}
	return Validate(*form)
}

func decode(data []byte, format Format, location string) (model.Form, error) {
	var form model.Form
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.Form{}, fmt.Errorf("schema: file %s is empty", location)
	}

	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &form)
	default:
		err = yaml.Unmarshal(data, &form)
	}
	if err != nil {
		return model.Form{}, fmt.Errorf("schema: parse %s as %s: %w", location, format, err)
	}
	return form, nil
}

// merge overlays a parsed definition on base. Stages are replaced as a whole
// when the overlay declares any; field specs are merged per kind.
func merge(base, overlay model.Form) model.Form {
	out := base
	if id := strings.TrimSpace(overlay.ID); id != "" {
		out.ID = id
	}
	if title := strings.TrimSpace(overlay.Title); title != "" {
		out.Title = title
	}
	if overlay.StartStage != 0 {
		out.StartStage = overlay.StartStage
	}
	if len(overlay.Stages) > 0 {
		out.Stages = overlay.Stages
		if overlay.StartStage == 0 {
			out.StartStage = 1
		}
	}

	fields := make(map[model.Kind]model.FieldSpec, len(base.Fields)+len(overlay.Fields))
	for kind, spec := range base.Fields {
		fields[kind] = spec
	}
	for kind, spec := range overlay.Fields {
		if spec.Kind == "" {
			spec.Kind = kind
		}
		if existing, ok := fields[kind]; ok {
			spec = mergeField(existing, spec)
		}
		fields[kind] = spec
	}
	out.Fields = fields
	return out
}

func mergeField(base, overlay model.FieldSpec) model.FieldSpec {
	out := base
	if overlay.Template != "" {
		out.Template = overlay.Template
	}
	if overlay.Repeatable {
		out.Repeatable = true
	}
	if overlay.RootID != "" {
		out.RootID = overlay.RootID
	}
	if overlay.ErrorID != "" {
		out.ErrorID = overlay.ErrorID
	}
	if len(overlay.Inputs) > 0 {
		out.Inputs = append([]string(nil), overlay.Inputs...)
	}
	if len(overlay.Errors) > 0 {
		out.Errors = append([]string(nil), overlay.Errors...)
	}
	if overlay.Placeholder != "" {
		out.Placeholder = overlay.Placeholder
	}
	if overlay.Label != "" {
		out.Label = overlay.Label
	}
	if overlay.Message != "" {
		out.Message = overlay.Message
	}
	if len(overlay.Options) > 0 {
		out.Options = append([]model.Option(nil), overlay.Options...)
	}
	if len(overlay.Children) > 0 {
		out.Children = append([]model.Mount(nil), overlay.Children...)
	}
	return out
}
