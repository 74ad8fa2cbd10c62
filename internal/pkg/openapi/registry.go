package openapi

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
)

const errorResponseName = "ErrorResponse"

// Operation describes one endpoint. Params, Query, Body, Response and Meta
// are zero values of the structs the handlers validate or return.
type Operation struct {
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	Secured     bool

	Params   any
	Query    any
	Body     any
	Response any
	Meta     any

	// Status is the success status, 200 when zero.
	Status int
	// Errors lists the error statuses the endpoint may answer with.
	Errors []int
}

// Registry collects operations and the component schemas they reference.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.Mutex
	components map[string]*Schema
	ops        []Operation
}

// NewRegistry returns a registry that already holds the shared error schema.
func NewRegistry() *Registry {
	r := &Registry{components: map[string]*Schema{}}
	r.components[errorResponseName] = &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"message": {Type: "string", Example: "Validation failed"},
			"errors": {
				Type:                 "object",
				AdditionalProperties: &Schema{Type: "array", Items: &Schema{Type: "string"}},
				Example:              map[string][]string{"email": {"email must be a valid email address"}},
			},
		},
		Required: []string{"message"},
	}
	return r
}

// Add records op.
func (r *Registry) Add(op Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ops = append(r.ops, op)
}

// Component derives the schema of v and stores it under the Go type name.
func (r *Registry) Component(v any) *Schema {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.schemaOf(reflect.TypeOf(v))
}

func (r *Registry) operation(op Operation) *operationObject {
	out := &operationObject{
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		OperationID: operationID(op.Method, op.Path),
		Responses:   map[string]*responseObject{},
	}
	if op.Secured {
		out.Security = []map[string][]string{{bearerScheme: {}}}
	}

	if op.Params != nil {
		out.Parameters = append(out.Parameters, r.parameters(op.Params, "path")...)
	}
	if op.Query != nil {
		out.Parameters = append(out.Parameters, r.parameters(op.Query, "query")...)
	}
	if op.Body != nil {
		out.RequestBody = &requestBodyObject{
			Required: true,
			Content:  jsonContent(r.schemaOf(reflect.TypeOf(op.Body))),
		}
	}

	status := op.Status
	if status == 0 {
		status = http.StatusOK
	}
	success := &responseObject{Description: http.StatusText(status)}
	if status != http.StatusNoContent {
		envelope := &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"message": {Type: "string"},
			},
			Required: []string{"message"},
		}
		if op.Response != nil {
			envelope.Properties["data"] = r.schemaOf(reflect.TypeOf(op.Response))
			envelope.Required = append(envelope.Required, "data")
		}
		if op.Meta != nil {
			envelope.Properties["meta"] = r.schemaOf(reflect.TypeOf(op.Meta))
		}
		success.Content = jsonContent(envelope)
	}
	out.Responses[strconv.Itoa(status)] = success

	for _, code := range op.Errors {
		out.Responses[strconv.Itoa(code)] = &responseObject{
			Description: http.StatusText(code),
			Content:     jsonContent(refTo(errorResponseName)),
		}
	}

	return out
}

func (r *Registry) parameters(v any, in string) []*parameterObject {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return lo.Map(structFields(t), func(f field, _ int) *parameterObject {
		s := r.schemaOf(f.typ)
		if s.Ref == "" {
			applyRules(s, f.tag)
		}
		return &parameterObject{
			Name:     f.name,
			In:       in,
			Required: in == "path" || hasRule(f.tag, "required"),
			Schema:   s,
		}
	})
}

// openAPIPath turns httprouter patterns into OpenAPI templates.
func openAPIPath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			segs[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segs, "/")
}

func operationID(method, path string) string {
	parts := lo.Filter(strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == ':' || r == '-' || r == '*'
	}), func(s string, _ int) bool { return s != "" })

	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

func jsonContent(s *Schema) map[string]*mediaTypeObject {
	return map[string]*mediaTypeObject{"application/json": {Schema: s}}
}
