package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formstage/pkg/model"
)

// ErrInvalidForm wraps every structural problem reported by Validate.
var ErrInvalidForm = errors.New("schema: invalid form")

// Validate checks that a form can be mounted: stages exist, the start stage
// is in range, every mount references a known kind with a valid position,
// and section ids are unique.
func Validate(form model.Form) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidForm}, args...)...))
	}

	if len(form.Stages) == 0 {
		fail("at least one stage is required")
	}
	if form.StartStage < 1 || form.StartStage > len(form.Stages) {
		fail("start stage %d out of range 1..%d", form.StartStage, len(form.Stages))
	}

	for kind, spec := range form.Fields {
		if strings.TrimSpace(spec.Template) == "" {
			fail("field %q has no template", kind)
		}
		if strings.TrimSpace(spec.RootID) == "" {
			fail("field %q has no root id", kind)
		}
		if spec.Repeatable && !strings.Contains(spec.RootID, model.IDPlaceholder) {
			fail("repeatable field %q root id %q lacks %s", kind, spec.RootID, model.IDPlaceholder)
		}
		for i, child := range spec.Children {
			validateMount(form, fmt.Sprintf("field %q child %d", kind, i), child, true, fail)
		}
	}

	seen := make(map[string]string)
	for i, stage := range form.Stages {
		label := fmt.Sprintf("stage %d", i+1)
		if stage.ID != "" {
			label = fmt.Sprintf("stage %d (%s)", i+1, stage.ID)
		}
		for _, section := range stage.Sections {
			id := strings.TrimSpace(section.ID)
			if id == "" {
				fail("%s has a section without id", label)
				continue
			}
			if prev, dup := seen[id]; dup {
				fail("section id %q used by %s and %s", id, prev, label)
				continue
			}
			seen[id] = label
		}
		for j, mount := range stage.Mounts {
			validateMount(form, fmt.Sprintf("%s mount %d", label, j), mount, false, fail)
		}
		if stage.Repeat != nil {
			if strings.TrimSpace(stage.Repeat.ButtonID) == "" {
				fail("%s repeat has no button id", label)
			}
			if stage.Repeat.Max < 1 || stage.Repeat.Max > model.MaxRepeatLimit {
				fail("%s repeat max %d out of range 1..%d", label, stage.Repeat.Max, model.MaxRepeatLimit)
			}
			validateMount(form, label+" repeat", stage.Repeat.Mount, false, fail)
		}
	}

	return errors.Join(errs...)
}

func validateMount(form model.Form, label string, mount model.Mount, child bool, fail func(string, ...any)) {
	if _, ok := form.Fields[mount.Kind]; !ok {
		fail("%s references unknown kind %q", label, mount.Kind)
	}
	if !mount.Position.Valid() {
		fail("%s has invalid position %q", label, mount.Position)
	}
	anchor := strings.TrimSpace(mount.Anchor)
	switch {
	case anchor == "":
		fail("%s has no anchor", label)
	case anchor == model.AnchorParent && !child:
		fail("%s uses %s outside a nested mount", label, model.AnchorParent)
	case strings.HasPrefix(anchor, model.AnchorLastPrefix) && strings.TrimPrefix(anchor, model.AnchorLastPrefix) == "":
		fail("%s has an empty class anchor", label)
	}
	if mount.Margin < 0 {
		fail("%s margin must not be negative", label)
	}
}
