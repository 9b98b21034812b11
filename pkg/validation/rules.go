package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Messages surfaced next to invalid fields.
const (
	MessageName          = "Please enter a valid name."
	MessageFirstName     = "Please enter a valid first name."
	MessageLastName      = "Please enter a valid last name."
	MessagePhone         = "Please enter a valid phone number."
	MessageEmail         = "Please enter a valid email."
	MessageRelation      = "Please select a relation from the list."
	MessageAge           = "Please enter a valid age."
	MessageAgeMax        = "Birth year must be within 150 years from today."
	MessageAgeMin        = "You must be 18 years old or older."
	MessageDate          = "Please enter a valid date."
	MessageDeparturePast = "Departure date can't be in the past."
	MessageDepartureMax  = "Departure date can't be more than 5 years from today."
	MessageReturnMin     = "Return date must be at least 14 days after the departure date."
	MessageReturnMax     = "Return date can't be more than 1 year after the departure date."
)

const (
	nameMinLength = 2
	nameMaxLength = 50

	// PhoneLength is the length of a fully formatted number, (555)-555-5555.
	PhoneLength = 14
	phoneDigits = 10
)

var (
	nameCharset  = regexp.MustCompile(`^[a-zA-Zà-ÿÀ-ß '-]+$`)
	nameRepeats  = regexp.MustCompile(`--|''`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.(com|net|gov|edu)$`)
)

// ValidName reports whether name is an acceptable first or last name. The
// empty string is accepted; requiredness is enforced by the stage gate.
func ValidName(name string) bool {
	if name == "" {
		return true
	}
	length := utf8.RuneCountInString(name)
	if length < nameMinLength || length > nameMaxLength {
		return false
	}
	return validNameShape(name)
}

// validNameShape checks the character set and spacing of a non-empty name.
func validNameShape(name string) bool {
	if !nameCharset.MatchString(name) {
		return false
	}
	if nameRepeats.MatchString(name) {
		return false
	}
	if strings.TrimSpace(name) != name || strings.Contains(name, "  ") {
		return false
	}
	return true
}

// FormatPhone strips every non-digit and re-applies the (555)-555-5555 mask,
// keeping at most ten digits.
func FormatPhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) > phoneDigits {
		digits = digits[:phoneDigits]
	}

	n := len(digits)
	var b strings.Builder
	if n > 0 {
		b.WriteString("(")
		b.WriteString(digits[:min(3, n)])
	}
	if n >= 4 {
		b.WriteString(")-")
		b.WriteString(digits[3:min(6, n)])
	}
	if n >= 7 {
		b.WriteString("-")
		b.WriteString(digits[6:n])
	}
	return b.String()
}

// ValidEmail reports whether value is an address on one of the accepted
// top-level domains.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}
