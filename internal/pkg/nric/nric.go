package nric

import "regexp"

// National registration id: a status letter (S or T), seven digits and a
// checksum letter, e.g. S1234567A.
var pattern = regexp.MustCompile(`^[ST]\d{7}[A-Z]$`)

// IsValid reports whether the string is a well-formed national ID.
// Only the format is checked; the checksum letter is not verified against
// the digits, matching what registration accepts upstream.
func IsValid(id string) bool {
	return pattern.MatchString(id)
}
