// Package factory instantiates field groups from the field-schema table.
//
// A Factory renders one kind's fragment with ids unique to the instance,
// inserts it next to an anchor element and then runs its validation and
// after-insert hooks. A Set holds one Factory per kind of a form and resolves
// mount anchors, including the nested mounts of composite kinds such as the
// emergency contact block.
package factory
