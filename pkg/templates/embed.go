package templates

import (
	"embed"
	"io/fs"
)

//go:embed templates/fields/*.tmpl templates/page/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	// PageTemplate renders a complete HTML document around the form.
	PageTemplate = "page/form"
	// FragmentTemplate renders only the <form> element, used for HTMX swaps.
	FragmentTemplate = "page/fragment"

	StylesheetName = "formstage.css"
)

// FieldTemplate returns the template name for a field kind's fragment.
func FieldTemplate(kind string) string {
	return "fields/" + kind
}

// TemplatesFS exposes the embedded template bundle rooted at the template
// directory, ready for gotemplate.WithFS.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// AssetsFS exposes the stylesheet so callers can serve it over HTTP.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// Stylesheet returns the embedded stylesheet, used when a page is rendered
// for standalone output.
func Stylesheet() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+StylesheetName)
	if err != nil {
		return ""
	}
	return string(data)
}
