package openapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const (
	// Version is the OpenAPI version of rendered documents.
	Version = "3.0.0"

	bearerScheme = "bearerAuth"
)

// Info is the document metadata.
type Info struct {
	Title       string
	Version     string
	Description string
	Servers     []string
}

// Document is a rendered OpenAPI document.
type Document struct {
	OpenAPI    string                                 `json:"openapi"`
	Info       infoObject                             `json:"info"`
	Servers    []serverObject                         `json:"servers,omitempty"`
	Tags       []tagObject                            `json:"tags,omitempty"`
	Paths      map[string]map[string]*operationObject `json:"paths"`
	Components componentsObject                       `json:"components"`
}

type infoObject struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type serverObject struct {
	URL string `json:"url"`
}

type tagObject struct {
	Name string `json:"name"`
}

type componentsObject struct {
	Schemas         map[string]*Schema               `json:"schemas"`
	Responses       map[string]*responseObject       `json:"responses,omitempty"`
	SecuritySchemes map[string]*securitySchemeObject `json:"securitySchemes"`
}

type securitySchemeObject struct {
	Type         string `json:"type"`
	Scheme       string `json:"scheme"`
	BearerFormat string `json:"bearerFormat,omitempty"`
}

type operationObject struct {
	Summary     string                     `json:"summary,omitempty"`
	Description string                     `json:"description,omitempty"`
	OperationID string                     `json:"operationId"`
	Tags        []string                   `json:"tags,omitempty"`
	Security    []map[string][]string      `json:"security,omitempty"`
	Parameters  []*parameterObject         `json:"parameters,omitempty"`
	RequestBody *requestBodyObject         `json:"requestBody,omitempty"`
	Responses   map[string]*responseObject `json:"responses"`
}

type parameterObject struct {
	Name     string  `json:"name"`
	In       string  `json:"in"`
	Required bool    `json:"required"`
	Schema   *Schema `json:"schema"`
}

type requestBodyObject struct {
	Required bool                        `json:"required"`
	Content  map[string]*mediaTypeObject `json:"content"`
}

type responseObject struct {
	Description string                      `json:"description"`
	Content     map[string]*mediaTypeObject `json:"content,omitempty"`
}

type mediaTypeObject struct {
	Schema *Schema `json:"schema"`
}

// Document renders everything registered so far.
func (r *Registry) Document(info Info) *Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := &Document{
		OpenAPI: Version,
		Info: infoObject{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: map[string]map[string]*operationObject{},
		Components: componentsObject{
			Responses: map[string]*responseObject{},
			SecuritySchemes: map[string]*securitySchemeObject{
				bearerScheme: {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
			},
		},
	}
	for _, s := range info.Servers {
		doc.Servers = append(doc.Servers, serverObject{URL: strings.TrimRight(s, "/")})
	}

	tags := map[string]struct{}{}
	for _, op := range r.ops {
		path := openAPIPath(op.Path)
		if doc.Paths[path] == nil {
			doc.Paths[path] = map[string]*operationObject{}
		}
		doc.Paths[path][strings.ToLower(op.Method)] = r.operation(op)
		for _, t := range op.Tags {
			tags[t] = struct{}{}
		}
	}
	for t := range tags {
		doc.Tags = append(doc.Tags, tagObject{Name: t})
	}
	sort.Slice(doc.Tags, func(i, j int) bool { return doc.Tags[i].Name < doc.Tags[j].Name })

	for _, code := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		doc.Components.Responses[strconv.Itoa(code)] = &responseObject{
			Description: http.StatusText(code),
			Content:     jsonContent(refTo(errorResponseName)),
		}
	}

	doc.Components.Schemas = make(map[string]*Schema, len(r.components))
	for name, s := range r.components {
		doc.Components.Schemas[name] = s
	}

	return doc
}

// JSON encodes the document.
func (d *Document) JSON() ([]byte, error) {
	return json.Marshal(d)
}

// ReadDoc implements the swag.Swagger interface so the document can be served
// by the Swagger UI handler.
func (d *Document) ReadDoc() string {
	b, err := d.JSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}
