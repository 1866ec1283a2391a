package service

import (
	"strings"

	"github.com/gosimple/slug"
)

// maxSlugLen matches the url VARCHAR(160) columns.
const maxSlugLen = 160

// deriveSlug returns the client supplied url, or one generated from source
// when the client left it empty.
func deriveSlug(given, source string) (string, error) {
	if given != "" {
		return given, nil
	}
	s := slug.Make(source)
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	if s == "" {
		return "", &FieldError{Field: "url", Message: "Could not derive a url from the name; provide one."}
	}
	return s, nil
}
