package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips scripts, event handlers and other unsafe markup from user content.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
