package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerText(t *testing.T) {
	s := NewSanitizer()

	cases := map[string]string{
		"Don't stop":                        "Don't stop",
		"Tom & Jerry":                       "Tom & Jerry",
		`say "hi"`:                          `say "hi"`,
		"<b>x</b>":                          "x",
		"  padded  ":                        "padded",
		"<script>alert(1)</script>plain":    "plain",
		"Tom &amp; Jerry":                   "Tom & Jerry",
		`<a href="javascript:x()">link</a>`: "link",
	}
	for in, want := range cases {
		assert.Equal(t, want, s.Text(in), in)
	}
}

func TestSanitizerTextIsStableOnResubmit(t *testing.T) {
	s := NewSanitizer()

	once := s.Text("It's great & fun")
	assert.Equal(t, once, s.Text(once))
}
