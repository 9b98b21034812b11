// Package validation holds the pure field rules: name, phone, email,
// relation, date of birth and travel dates. Rules take plain strings and
// return model.Result values so they can be exercised without a document.
package validation
