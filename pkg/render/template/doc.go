// Package template defines the renderer-agnostic template interface; the
// gotemplate subpackage provides the pongo2-backed implementation.
package template
