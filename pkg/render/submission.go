package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Names of the hidden inputs that carry form state between requests.
const (
	FieldStage   = "_stage"
	FieldRepeats = "_repeats"
	FieldFormID  = "_form_id"
)

// HiddenField represents a hidden form input emitted alongside the stages.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// StageField records the active stage number.
func StageField(stage int) HiddenField {
	return Hidden(FieldStage, stage)
}

// RepeatsField records how many repeat instances were added per stage, as a
// comma separated list indexed by stage.
func RepeatsField(counts []int) HiddenField {
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
	}
	return Hidden(FieldRepeats, strings.Join(parts, ","))
}

// ParseRepeats decodes a RepeatsField value into stages entries. Missing,
// malformed or negative entries read as zero.
func ParseRepeats(raw string, stages int) []int {
	counts := make([]int, stages)
	if strings.TrimSpace(raw) == "" {
		return counts
	}
	for i, part := range strings.Split(raw, ",") {
		if i >= stages {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		counts[i] = n
	}
	return counts
}

// FormIDField carries the form instance id used to correlate requests.
func FormIDField(id string) HiddenField {
	return Hidden(FieldFormID, id)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		clean[key] = value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{
			Name:  name,
			Value: clean[name],
		})
	}
	return result
}
