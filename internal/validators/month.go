package validators

import "regexp"

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// IsValidMonth reports whether s is a calendar month in YYYY-MM form.
func IsValidMonth(s string) bool {
	return monthRe.MatchString(s)
}
