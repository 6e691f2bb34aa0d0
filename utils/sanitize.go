package utils

import "github.com/microcosm-cc/bluemonday"

// Notes and display names are plain text; strip all markup outright.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips any HTML from user supplied text to prevent stored XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
