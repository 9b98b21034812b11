// Package render produces the page shell of a staged form and the hidden
// inputs that carry its state between requests. Field instances are added
// to the parsed shell afterwards by the factory set.
package render
