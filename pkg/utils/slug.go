package utils

import (
	"regexp"
	"strings"
)

var fieldNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func Slugify(s string) string {
	s = strings.ToLower(s)
	reg := regexp.MustCompile("[^a-z0-9]+")
	s = reg.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

// IsValidFieldName reports whether s is usable as a storage key for a form
// field: letters, digits and underscores only.
func IsValidFieldName(s string) bool {
	return s != "" && fieldNameRe.MatchString(s)
}
