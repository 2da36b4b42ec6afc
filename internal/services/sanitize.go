package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips unsafe markup from user-written text before it is stored.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a sanitizer on bluemonday's strict policy, which drops all markup.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text returns in without markup and surrounding whitespace. The result is
// plain text: entities the policy escapes are decoded again, since responses
// are JSON and not HTML.
func (s *Sanitizer) Text(in string) string {
	if s == nil {
		return strings.TrimSpace(in)
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}
