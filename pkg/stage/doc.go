// Package stage controls which stage of a form is visible and gates progress
// on the required fields of the active stage.
package stage
