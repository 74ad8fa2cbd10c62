package openapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type createThing struct {
	Title string   `json:"title" validate:"required,min=1"`
	Email string   `json:"email" validate:"required,email"`
	Tags  []string `json:"tags" validate:"omitempty,dive,min=1"`
	Draft *bool    `json:"draft" validate:"omitnil"`
}

type thingParams struct {
	ID string `json:"id" validate:"required,uuid"`
}

type thingQuery struct {
	Page  *int `json:"page" validate:"omitnil,min=1"`
	Limit *int `json:"limit" validate:"omitnil,min=1,max=100"`
}

type thing struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Secret    string    `json:"-"`
}

func render(t *testing.T, r *Registry) map[string]any {
	t.Helper()

	b, err := r.Document(Info{
		Title:       "Blog API",
		Version:     "1.0.0",
		Description: "API documentation for the Blog management system",
		Servers:     []string{"http://localhost:3000/"},
	}).JSON()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func dig(t *testing.T, v any, keys ...string) any {
	t.Helper()
	for _, k := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			t.Fatalf("%q: not an object: %v", k, v)
		}
		v = m[k]
	}
	return v
}

func TestDocument(t *testing.T) {
	// Arrange
	r := NewRegistry()
	r.Add(Operation{
		Method:   http.MethodPost,
		Path:     "/v1/things",
		Summary:  "Create thing",
		Tags:     []string{"Things"},
		Secured:  true,
		Body:     createThing{},
		Response: thing{},
		Status:   http.StatusCreated,
		Errors:   []int{http.StatusBadRequest, http.StatusUnauthorized},
	})
	r.Add(Operation{
		Method:   http.MethodGet,
		Path:     "/v1/things/:id",
		Tags:     []string{"Things"},
		Params:   thingParams{},
		Response: thing{},
		Errors:   []int{http.StatusNotFound},
	})
	r.Add(Operation{
		Method:   http.MethodGet,
		Path:     "/v1/things",
		Query:    thingQuery{},
		Response: []thing{},
	})

	// Act
	doc := render(t, r)

	// Assert
	if doc["openapi"] != "3.0.0" {
		t.Fatalf("openapi = %v", doc["openapi"])
	}
	if got := dig(t, doc, "info", "description"); got != "API documentation for the Blog management system" {
		t.Fatalf("description = %v", got)
	}
	if got := doc["servers"].([]any)[0].(map[string]any)["url"]; got != "http://localhost:3000" {
		t.Fatalf("server = %v", got)
	}
	if got := dig(t, doc, "components", "securitySchemes", "bearerAuth", "scheme"); got != "bearer" {
		t.Fatalf("scheme = %v", got)
	}
	if dig(t, doc, "components", "schemas", "ErrorResponse") == nil {
		t.Fatal("ErrorResponse component missing")
	}

	t.Run("body schema from validate tags", func(t *testing.T) {
		s := dig(t, doc, "components", "schemas", "createThing")
		if got := dig(t, s, "properties", "title", "minLength"); got != float64(1) {
			t.Fatalf("title minLength = %v", got)
		}
		if got := dig(t, s, "properties", "email", "format"); got != "email" {
			t.Fatalf("email format = %v", got)
		}
		if got := dig(t, s, "properties", "tags", "items", "minLength"); got != float64(1) {
			t.Fatalf("tags items minLength = %v", got)
		}
		if got := dig(t, s, "properties", "tags", "minItems"); got != nil {
			t.Fatalf("tags minItems = %v, rules after dive belong to items", got)
		}
		req, _ := dig(t, s, "required").([]any)
		if len(req) != 2 || req[0] != "title" || req[1] != "email" {
			t.Fatalf("required = %v", req)
		}
	})

	t.Run("response wraps data in envelope", func(t *testing.T) {
		create := dig(t, doc, "paths", "/v1/things", "post")
		data := dig(t, create, "responses", "201", "content", "application/json", "schema", "properties", "data", "$ref")
		if data != "#/components/schemas/thing" {
			t.Fatalf("data ref = %v", data)
		}
		if dig(t, create, "security") == nil {
			t.Fatal("secured operation without security")
		}
		if dig(t, create, "responses", "401") == nil {
			t.Fatal("401 response missing")
		}
		if _, ok := dig(t, doc, "components", "schemas", "thing", "properties").(map[string]any)["Secret"]; ok {
			t.Fatal("json:\"-\" field must not be documented")
		}
		if got := dig(t, doc, "components", "schemas", "thing", "properties", "createdAt", "format"); got != "date-time" {
			t.Fatalf("createdAt format = %v", got)
		}
	})

	t.Run("path and query parameters", func(t *testing.T) {
		get := dig(t, doc, "paths", "/v1/things/{id}", "get")
		params := dig(t, get, "parameters").([]any)
		id := params[0].(map[string]any)
		if id["in"] != "path" || id["required"] != true || dig(t, id, "schema", "format") != "uuid" {
			t.Fatalf("id param = %v", id)
		}

		list := dig(t, doc, "paths", "/v1/things", "get")
		qs := dig(t, list, "parameters").([]any)
		limit := qs[1].(map[string]any)
		if limit["name"] != "limit" || limit["required"] != false {
			t.Fatalf("limit param = %v", limit)
		}
		if dig(t, limit, "schema", "maximum") != float64(100) || dig(t, limit, "schema", "minimum") != float64(1) {
			t.Fatalf("limit schema = %v", limit["schema"])
		}
	})
}

func TestOperationID(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/v1/posts", "getV1Posts"},
		{http.MethodPut, "/v1/posts/:id", "putV1PostsId"},
		{http.MethodPost, "/v1/users/register", "postV1UsersRegister"},
	}

	for _, tt := range tests {
		if got := operationID(tt.method, tt.path); got != tt.want {
			t.Fatalf("operationID(%s %s) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}
