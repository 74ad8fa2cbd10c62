package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Issue is a single validation failure at Path.
//
// Path segments are object keys (string) or array indexes (int).
type Issue struct {
	Path    []any
	Message string
}

// Field returns the dot-joined field path, e.g. "tags.0".
func (i Issue) Field() string {
	parts := make([]string, 0, len(i.Path))
	for _, seg := range i.Path {
		switch v := seg.(type) {
		case string:
			parts = append(parts, v)
		case int:
			parts = append(parts, strconv.Itoa(v))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ".")
}

// TopField returns the first path segment when it is an object key.
func (i Issue) TopField() string {
	if len(i.Path) == 0 {
		return ""
	}
	name, _ := i.Path[0].(string)
	return name
}

// Issues is a list of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return "validation error"
	}

	const maxShown = 3
	b := &strings.Builder{}
	for i, it := range iss {
		if i == maxShown {
			fmt.Fprintf(b, "; ... (total %d)", len(iss))
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", it.Field(), it.Message)
	}
	return b.String()
}

// AsIssues extracts Issues from an error chain.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// FieldErrors maps a dot-joined field path to its messages.
type FieldErrors map[string][]string

// Add appends msg to the messages of field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// ReduceIssues groups issues by field path. Messages of a field keep the
// order in which the issues were reported.
func ReduceIssues(iss Issues) FieldErrors {
	fe := make(FieldErrors, len(iss))
	for _, it := range iss {
		fe.Add(it.Field(), it.Message)
	}
	return fe
}
