package utils

import "github.com/microcosm-cc/bluemonday"

// Free-text reaching the database from requests (usernames, bios, adjustment
// reasons) is stripped of all markup; these fields are rendered verbatim by
// clients.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes any HTML from user supplied text.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
