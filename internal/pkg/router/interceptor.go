package router

import "github.com/shandysiswandi/goblog/internal/pkg/validator"

// Interceptor wraps a Handler. Unlike Middleware it sees the Request wrapper
// and reports failures as errors, so they reach the ErrorTranslator.
type Interceptor func(next Handler) Handler

// With applies interceptors around h in the order given.
func With(h Handler, interceptors ...Interceptor) Handler {
	for i := len(interceptors) - 1; i >= 0; i-- {
		h = interceptors[i](h)
	}
	return h
}

// Validate parses one request section with schema and stores the normalized
// value for Body, Query or Params. The handler is not called when validation
// fails.
func Validate[T any](s validator.Section, schema validator.Schema[T]) Interceptor {
	return func(next Handler) Handler {
		return func(r *Request) (any, error) {
			raw, err := r.raw(s)
			if err != nil {
				return nil, err
			}

			out, err := validator.Validate(s, schema, raw)
			if err != nil {
				return nil, err
			}

			r.sections[s] = out
			return next(r)
		}
	}
}

// ValidateBody is Validate for the JSON body.
func ValidateBody[T any](schema validator.Schema[T]) Interceptor {
	return Validate(validator.SectionBody, schema)
}

// ValidateQuery is Validate for the URL query.
func ValidateQuery[T any](schema validator.Schema[T]) Interceptor {
	return Validate(validator.SectionQuery, schema)
}

// ValidateParams is Validate for the path parameters.
func ValidateParams[T any](schema validator.Schema[T]) Interceptor {
	return Validate(validator.SectionParams, schema)
}
