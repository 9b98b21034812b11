package binding

import (
	"github.com/goliatone/go-formstage/pkg/dom"
)

// Class names toggled on invalid fields.
const (
	ErrorBorderClass = "error-border"
	ErrorLabelClass  = "error-label"
)

// RenderFieldError shows or clears the error state of fieldID. When failed
// is true the field gets the error border and errorID shows message; the
// function then returns false. Otherwise the border and label are cleared and
// it returns true. An empty errorID only toggles the border.
func RenderFieldError(doc *dom.Document, fieldID, errorID string, failed bool, message string) bool {
	if failed {
		_ = doc.AddClass(fieldID, ErrorBorderClass)
		if errorID != "" {
			_ = doc.SetText(errorID, message)
			_ = doc.SetDisplay(errorID, "block")
		}
		return false
	}

	_ = doc.RemoveClass(fieldID, ErrorBorderClass)
	if errorID != "" {
		_ = doc.SetDisplay(errorID, "none")
	}
	return true
}
