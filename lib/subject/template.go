// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package subject

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Wildcard is the positional parameter marker in a template.
const Wildcard = "*"

var (
	// ErrInvalidTemplate is returned by Parse for malformed templates.
	ErrInvalidTemplate = errors.New("invalid subject template")

	// ErrArity is returned when the number of parameters differs from
	// the number of wildcards in the template.
	ErrArity = errors.New("subject parameter count does not match template")

	// ErrInvalidParam is returned for a parameter that is not a valid
	// single subject token.
	ErrInvalidParam = errors.New("invalid subject parameter")
)

// Template is a parsed subject template. The zero value is an empty,
// unusable template; construct with Parse or MustParse.
type Template struct {
	raw    string
	tokens []string
	// slots holds the token indexes of each wildcard, in order.
	slots []int
}

// Parse validates s and returns the parsed template.
func Parse(s string) (Template, error) {
	if s == "" {
		return Template{}, fmt.Errorf("%w: empty", ErrInvalidTemplate)
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return Template{}, fmt.Errorf("%w: %q contains whitespace", ErrInvalidTemplate, s)
	}

	tokens := strings.Split(s, ".")
	var slots []int
	for index, token := range tokens {
		switch {
		case token == "":
			return Template{}, fmt.Errorf("%w: %q has an empty token at position %d", ErrInvalidTemplate, s, index)
		case token == Wildcard:
			slots = append(slots, index)
		case token == ">":
			return Template{}, fmt.Errorf("%w: %q uses the full wildcard", ErrInvalidTemplate, s)
		case strings.ContainsAny(token, "*>"):
			return Template{}, fmt.Errorf("%w: %q has a partial wildcard token %q", ErrInvalidTemplate, s, token)
		}
	}

	return Template{raw: s, tokens: tokens, slots: slots}, nil
}

// MustParse is Parse for template constants. It panics on error.
func MustParse(s string) Template {
	template, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return template
}

// String returns the template as written.
func (t Template) String() string { return t.raw }

// Wildcards returns the number of parameter positions.
func (t Template) Wildcards() int { return len(t.slots) }

// IsZero reports whether t was never parsed.
func (t Template) IsZero() bool { return t.raw == "" }

// Check reports whether params can resolve t, without building the
// subject.
func (t Template) Check(params []string) error {
	if t.IsZero() {
		return fmt.Errorf("%w: zero template", ErrInvalidTemplate)
	}
	if len(params) != len(t.slots) {
		return fmt.Errorf("%w: %q has %d wildcard(s), got %d parameter(s)",
			ErrArity, t.raw, len(t.slots), len(params))
	}
	for index, param := range params {
		if err := validateParam(param); err != nil {
			return fmt.Errorf("parameter %d for %q: %w", index, t.raw, err)
		}
	}
	return nil
}

// Resolve substitutes params into the wildcard positions left to right
// and returns the concrete subject.
func (t Template) Resolve(params []string) (string, error) {
	if err := t.Check(params); err != nil {
		return "", err
	}
	if len(t.slots) == 0 {
		return t.raw, nil
	}

	resolved := make([]string, len(t.tokens))
	copy(resolved, t.tokens)
	for index, slot := range t.slots {
		resolved[slot] = params[index]
	}
	return strings.Join(resolved, "."), nil
}

func validateParam(param string) error {
	if param == "" {
		return fmt.Errorf("%w: empty", ErrInvalidParam)
	}
	if strings.ContainsAny(param, ".*>") {
		return fmt.Errorf("%w: %q contains a subject separator or wildcard", ErrInvalidParam, param)
	}
	if strings.IndexFunc(param, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidParam, param)
	}
	return nil
}
