// Package templates embeds the pongo2 templates for the page shell and each
// field kind, plus the default stylesheet.
package templates
