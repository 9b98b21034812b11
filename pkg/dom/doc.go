// Package dom wraps a goquery document with the id-addressed operations the
// form engine relies on: adjacent insertion, class toggling, inline display,
// text and value access.
package dom
