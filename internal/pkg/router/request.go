package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/jwt"
	"github.com/shandysiswandi/goblog/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20 // 1MB

// Request wraps http.Request with the normalized sections produced by
// validation interceptors.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request

	sections map[validator.Section]any
	body     map[string]any
	bodyErr  error
	bodyRead bool
}

func newRequest(r *http.Request) *Request {
	return &Request{Request: r, sections: make(map[validator.Section]any, 3)}
}

// GetParam reads a path parameter from the request context (as stored by httprouter).
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// Auth returns the authenticated claims, nil on public routes.
func (r *Request) Auth() *jwt.Claims {
	return jwt.GetAuth(r.Context())
}

// Body returns the normalized body stored by Validate. It is the zero value
// when no body interceptor ran for this route.
func Body[T any](r *Request) T {
	return section[T](r, validator.SectionBody)
}

// Query returns the normalized query stored by Validate.
func Query[T any](r *Request) T {
	return section[T](r, validator.SectionQuery)
}

// Params returns the normalized path parameters stored by Validate.
func Params[T any](r *Request) T {
	return section[T](r, validator.SectionParams)
}

func section[T any](r *Request, s validator.Section) T {
	v, _ := r.sections[s].(T)
	return v
}

// raw returns the undecoded form of a section as a fresh map.
func (r *Request) raw(s validator.Section) (map[string]any, error) {
	switch s {
	case validator.SectionBody:
		return r.rawBody()
	case validator.SectionQuery:
		return r.rawQuery(), nil
	case validator.SectionParams:
		return r.rawParams(), nil
	default:
		return nil, fmt.Errorf("router: unknown request section %q", s)
	}
}

func (r *Request) rawBody() (map[string]any, error) {
	if !r.bodyRead {
		r.bodyRead = true
		r.body, r.bodyErr = decodeBody(r.Body)
	}
	if r.bodyErr != nil {
		return nil, r.bodyErr
	}

	out := make(map[string]any, len(r.body))
	for k, v := range r.body {
		out[k] = v
	}
	return out, nil
}

func decodeBody(body io.Reader) (map[string]any, error) {
	if body == nil {
		return map[string]any{}, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes+1))
	if err != nil {
		return nil, goerror.NewServer(fmt.Errorf("router: read body: %w", err))
	}
	if len(data) > maxBodyBytes {
		return nil, goerror.NewBusiness("Request body too large", http.StatusRequestEntityTooLarge)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, goerror.NewMalformedInput(err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, goerror.NewValidation(map[string][]string{
			"": {fmt.Sprintf("Expected object, received %s", jsonKind(v))},
		})
	}

	return obj, nil
}

func (r *Request) rawQuery() map[string]any {
	values := r.URL.Query()
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 1 {
			out[k] = v[0]
			continue
		}
		out[k] = v
	}
	return out
}

func (r *Request) rawParams() map[string]any {
	params := httprouter.ParamsFromContext(r.Context())
	out := make(map[string]any, len(params))
	for _, p := range params {
		if p.Key == httprouter.MatchedRoutePathParam {
			continue
		}
		out[p.Key] = p.Value
	}
	return out
}

func jsonKind(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "object"
	}
}
