package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstage/pkg/orchestrator"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"

	headerRequest = "HX-Request"
	headerTrigger = "HX-Trigger"
	// headerOutcome reports blocked or completed transitions to scripts.
	headerOutcome = "X-Formstage-Outcome"
)

type handlers struct {
	engine *orchestrator.Orchestrator
	logger *zap.Logger
}

func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(headerRequest), "true")
}

// page renders the full document. ?stage=n selects the visible stage.
func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	req := orchestrator.Request{Action: orchestrator.ActionRender}
	if n, err := strconv.Atoi(r.URL.Query().Get("stage")); err == nil {
		req.Stage = n
	}
	res, err := h.engine.Process(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writePage(w, r, res, false)
}

// events re-validates after an input event and answers with out-of-band
// fragments.
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r, orchestrator.ActionEvent)
	if !ok {
		return
	}
	res, err := h.engine.Process(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := res.EventFragments()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	_, _ = w.Write([]byte(body))
}

func (h *handlers) action(action orchestrator.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decode(w, r, action)
		if !ok {
			return
		}
		res, err := h.engine.Process(r.Context(), req)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		switch {
		case res.Completed:
			w.Header().Set(headerOutcome, "completed")
		case res.Blocked:
			w.Header().Set(headerOutcome, "blocked")
		}
		h.writePage(w, r, res, isHTMX(r))
	}
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, action orchestrator.Action) (orchestrator.Request, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("invalid form body", zap.Error(err))
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return orchestrator.Request{}, false
	}
	return orchestrator.RequestFromValues(action, r.PostForm, r.Header.Get(headerTrigger)), true
}

func (h *handlers) writePage(w http.ResponseWriter, r *http.Request, res *orchestrator.Result, fragment bool) {
	var (
		body string
		err  error
	)
	if fragment {
		body, err = res.Fragment()
	} else {
		body, err = res.HTML()
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	_, _ = w.Write([]byte(body))
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("form request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
