// Package model defines the declarative form definition shared by the schema
// loader, the field factories, the binding layer and the stage controller.
// A Form is a list of stages plus the field-schema table (Fields) keyed by
// Kind; each FieldSpec names the template that renders the group, the id
// patterns of its root, inputs and error label, and the child mounts a
// composite kind such as contact instantiates after insertion. Id patterns
// carry the {n} placeholder, expanded with the factory counter for
// repeatable kinds and with an empty string for singletons, so "phone{n}"
// yields phone1, phone2, ... while "dob{n}" yields dob.
package model
