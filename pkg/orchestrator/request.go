package orchestrator

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstage/pkg/render"
)

// Action selects what a request does after the document is rebuilt.
type Action string

const (
	ActionRender Action = "render"
	ActionEvent  Action = "event"
	ActionNext   Action = "next"
	ActionBack   Action = "back"
	ActionRepeat Action = "repeat"
)

// FieldTrigger is the optional form value naming the input that fired an
// event, for clients that cannot send the HX-Trigger header.
const FieldTrigger = "_trigger"

// Request describes one interaction with the form.
type Request struct {
	Action Action
	// Stage is the stage that was active on the client; 0 selects the
	// form's start stage.
	Stage int
	// Repeats counts repeat instances per stage, indexed from stage 1.
	Repeats []int
	// FormID correlates requests of one form instance; empty assigns a new id.
	FormID string
	// Trigger names the input whose event caused the request.
	Trigger string
	// Values maps input ids to posted values.
	Values map[string]string
}

// RequestFromValues decodes posted form values, including the hidden state
// inputs, into a Request.
func RequestFromValues(action Action, values url.Values, trigger string) Request {
	req := Request{
		Action:  action,
		Trigger: strings.TrimSpace(trigger),
		FormID:  strings.TrimSpace(values.Get(render.FieldFormID)),
		Values:  make(map[string]string, len(values)),
	}
	if req.Trigger == "" {
		req.Trigger = strings.TrimSpace(values.Get(FieldTrigger))
	}
	if n, err := strconv.Atoi(strings.TrimSpace(values.Get(render.FieldStage))); err == nil {
		req.Stage = n
	}
	if raw := values.Get(render.FieldRepeats); raw != "" {
		parts := strings.Split(raw, ",")
		req.Repeats = render.ParseRepeats(raw, len(parts))
	}
	for key, vals := range values {
		if strings.HasPrefix(key, "_") || len(vals) == 0 {
			continue
		}
		req.Values[key] = vals[len(vals)-1]
	}
	return req
}
