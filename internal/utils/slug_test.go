package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"  Go  --  Fast ", "go-fast"},
		{"Ünïcödé Title", "ncd-title"},
		{"Chapter 1: The Beginning", "chapter-1-the-beginning"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
		{"Tabs\tand\nnewlines", "tabsandnewlines"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}

func TestSlugifyHasNoEdgeHyphens(t *testing.T) {
	for _, in := range []string{"-leading", "trailing-", " both ", "!!!wow!!!", "a - b"} {
		got := Slugify(in)
		if got == "" {
			continue
		}
		assert.NotEqual(t, '-', rune(got[0]), "Slugify(%q) = %q", in, got)
		assert.NotEqual(t, '-', rune(got[len(got)-1]), "Slugify(%q) = %q", in, got)
		assert.NotContains(t, got, "--")
	}
}
