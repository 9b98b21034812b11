// Package orchestrator runs one request against a staged form: it renders
// the page shell, mounts every field group through the factory set, restores
// posted values, re-validates touched groups and applies the requested stage
// action. Nothing is kept between requests; hidden inputs carry the state.
package orchestrator
