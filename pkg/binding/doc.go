// Package binding connects field instances in a document to the pure
// validators. It marks inputs with the attributes HTMX uses to report input
// events and maps validation results onto error borders and labels.
package binding
