// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pin locates the PKCS#12 PIN in text extracted from a PDF.
//
// Extraction runs an ordered chain of matchers over the text. The first
// matcher that yields a non-empty token wins; later matchers are never
// consulted, so order is priority.
package pin

import (
	"fmt"
	"regexp"
	"strings"
)

// RE2's \s is ASCII-only. PDF text often separates words with no-break or
// em spaces, so whitespace here also covers Unicode separators, NEL, \v and
// the ASCII information separators.
const (
	ws    = `[\s\p{Z}\x{0085}\v\x1c-\x1f]`
	token = `([^\s\p{Z}\x{0085}\v\x1c-\x1f]+)`
)

// Matcher looks for a PIN in text. Match returns the token and true on
// success.
type Matcher struct {
	Name  string
	Match func(text string) (string, bool)
}

// Chain is an ordered list of matchers evaluated first to last.
type Chain []Matcher

// defaultExprs are the built-in label patterns in priority order. The first
// entry is the exact label printed on the PIN letters; the rest tolerate
// spacing variants and generic labels.
var defaultExprs = []struct {
	name string
	expr string
}{
	{"pin-#1", `PIN #1:` + ws + `*` + token},
	{"pin-#1-spaced", `PIN` + ws + `*#1` + ws + `*:` + ws + `*` + token},
	{"pin-1", `PIN` + ws + `*1` + ws + `*:` + ws + `*` + token},
	{"pin", `PIN:` + ws + `*` + token},
	{"password", `Password:` + ws + `*` + token},
	{"code", `Code:` + ws + `*` + token},
}

var defaultChain = func() Chain {
	c := make(Chain, 0, len(defaultExprs))
	for _, d := range defaultExprs {
		c = append(c, RegexpMatcher(d.name, regexp.MustCompile(`(?i)`+d.expr)))
	}
	return c
}()

// Default returns the built-in chain. The returned slice is a copy and may be
// extended by the caller.
func Default() Chain {
	return append(Chain(nil), defaultChain...)
}

// Extract runs the built-in chain over text.
func Extract(text string) (string, bool) {
	return defaultChain.Extract(text)
}

// RegexpMatcher returns a Matcher that yields the first capture group of re.
func RegexpMatcher(name string, re *regexp.Regexp) Matcher {
	return Matcher{
		Name: name,
		Match: func(text string) (string, bool) {
			m := re.FindStringSubmatch(text)
			if len(m) < 2 {
				return "", false
			}
			v := strings.TrimSpace(m[1])
			return v, v != ""
		},
	}
}

// Extract returns the token from the first matcher that succeeds. Empty text
// never matches.
func (c Chain) Extract(text string) (string, bool) {
	v, _, ok := c.Match(text)
	return v, ok
}

// Match is Extract that also reports the name of the winning matcher.
func (c Chain) Match(text string) (value, name string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", "", false
	}
	for _, m := range c {
		if v, ok := m.Match(text); ok {
			return v, m.Name, true
		}
	}
	return "", "", false
}

// With returns a new chain with extra appended after c.
func (c Chain) With(extra ...Matcher) Chain {
	out := make(Chain, 0, len(c)+len(extra))
	out = append(out, c...)
	return append(out, extra...)
}

// Names lists the matcher names in evaluation order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, m := range c {
		names[i] = m.Name
	}
	return names
}

// Compile builds case-insensitive matchers from user-supplied expressions.
// Each expression must contain exactly one capture group holding the PIN.
func Compile(exprs []string) (Chain, error) {
	c := make(Chain, 0, len(exprs))
	for i, expr := range exprs {
		re, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %d %q: %w", i+1, expr, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("pattern %d %q: want exactly one capture group, got %d", i+1, expr, re.NumSubexp())
		}
		c = append(c, RegexpMatcher(fmt.Sprintf("custom-%d", i+1), re))
	}
	return c, nil
}
