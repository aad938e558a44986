// Package jsonparse pulls a JSON object out of free-form model output.
package jsonparse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNoJSON = errors.New("jsonparse: no JSON object in model output")

// ParseError wraps any failure to turn model output into the target value.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonparse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractObject returns the first balanced {...} in s. Braces inside JSON
// strings are skipped, so preamble and trailing chatter are tolerated.
func ExtractObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' && start != -1 {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}

// Clean replaces line breaks with spaces and strips backslashes. Models often
// emit raw newlines or stray escapes inside string values.
func Clean(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.ReplaceAll(s, `\`, "")
}

// Decode extracts the first object from raw and unmarshals it into v. A strict
// decode is tried first, then the cleaned form.
func Decode(raw string, v any) error {
	obj, err := ExtractObject(raw)
	if err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	if err := json.Unmarshal([]byte(obj), v); err == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(Clean(obj)), v); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}
