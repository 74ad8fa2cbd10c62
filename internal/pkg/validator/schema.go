package validator

import (
	"fmt"

	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
)

// Schema parses a raw request section into T.
type Schema[T any] interface {
	// Parse returns the normalized value, or Issues when the input does not
	// satisfy the schema. Any other error is an internal failure.
	Parse(raw map[string]any) (T, error)

	// IsFieldOptional reports whether the top-level field is declared
	// optional. Unknown fields are not optional.
	IsFieldOptional(field string) bool
}

// Section names the part of a request a schema applies to.
type Section string

const (
	SectionBody   Section = "body"
	SectionQuery  Section = "query"
	SectionParams Section = "params"
)

// Lenient reports whether invalid optional fields of the section are dropped
// instead of failing the request.
func (s Section) Lenient() bool {
	return s == SectionQuery
}

// Validate parses raw with schema under the policy of section.
//
// Strict sections turn any Issues into a validation error that carries every
// field message. The lenient section fails only on required fields; keys of
// optional fields that failed are deleted from raw and the remainder is
// parsed again. Errors that are not Issues pass through unchanged.
func Validate[T any](section Section, schema Schema[T], raw map[string]any) (T, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	out, err := schema.Parse(raw)
	if err == nil {
		return out, nil
	}

	var zero T
	iss, ok := AsIssues(err)
	if !ok {
		return zero, err
	}

	if !section.Lenient() {
		return zero, goerror.NewValidation(ReduceIssues(iss))
	}

	return revalidate(section, schema, raw, iss)
}

func revalidate[T any](section Section, schema Schema[T], raw map[string]any, iss Issues) (T, error) {
	var zero T

	required := make(FieldErrors)
	dropped := make(map[string]struct{})
	for _, it := range iss {
		top := it.TopField()
		if top != "" && schema.IsFieldOptional(top) {
			dropped[top] = struct{}{}
			continue
		}
		required.Add(it.Field(), it.Message)
	}

	if len(required) > 0 {
		return zero, goerror.NewValidation(required)
	}

	for key := range dropped {
		delete(raw, key)
	}

	out, err := schema.Parse(raw)
	if err != nil {
		return zero, goerror.NewServer(fmt.Errorf("validator: %s still invalid after dropping optional fields: %w", section, err))
	}

	return out, nil
}
