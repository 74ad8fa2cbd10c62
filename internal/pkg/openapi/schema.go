package openapi

import (
	"reflect"
	"strconv"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Schema is the subset of the OpenAPI 3.0 schema object the application uses.
type Schema struct {
	Ref         string             `json:"$ref,omitempty"`
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Nullable    bool               `json:"nullable,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	MinLength   *int               `json:"minLength,omitempty"`
	MaxLength   *int               `json:"maxLength,omitempty"`
	MinItems    *int               `json:"minItems,omitempty"`
	MaxItems    *int               `json:"maxItems,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
	Default     any                `json:"default,omitempty"`
	Example     any                `json:"example,omitempty"`

	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`
}

func refTo(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

// field is one property of a struct as seen by the json encoder.
type field struct {
	name string
	typ  reflect.Type
	tag  string
}

func structFields(t reflect.Type) []field {
	out := make([]field, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out = append(out, field{name: name, typ: f.Type, tag: f.Tag.Get("validate")})
	}
	return out
}

// schemaOf derives a schema from t. Named structs are stored as components
// and referenced.
func (r *Registry) schemaOf(t reflect.Type) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case t == timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case t.Kind() == reflect.Struct && t.Name() != "":
		name := t.Name()
		if _, ok := r.components[name]; !ok {
			// placeholder first, recursive types point back to it
			r.components[name] = &Schema{}
			*r.components[name] = *r.objectSchema(t)
		}
		return refTo(name)
	}

	switch t.Kind() {
	case reflect.Struct:
		return r.objectSchema(t)
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return &Schema{Type: "integer", Format: "int32"}
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return &Schema{Type: "integer", Format: "int64"}
	case reflect.Float32:
		return &Schema{Type: "number", Format: "float"}
	case reflect.Float64:
		return &Schema{Type: "number", Format: "double"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: r.schemaOf(t.Elem())}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: r.schemaOf(t.Elem())}
	default:
		return &Schema{}
	}
}

func (r *Registry) objectSchema(t reflect.Type) *Schema {
	s := &Schema{Type: "object", Properties: map[string]*Schema{}}
	for _, f := range structFields(t) {
		prop := r.schemaOf(f.typ)
		if prop.Ref == "" {
			applyRules(prop, f.tag)
		}
		s.Properties[f.name] = prop
		if hasRule(f.tag, "required") {
			s.Required = append(s.Required, f.name)
		}
	}
	return s
}

// applyRules maps validate tags onto schema keywords.
func applyRules(s *Schema, tag string) {
	rules := strings.Split(tag, ",")
	for i, rule := range rules {
		key, val, _ := strings.Cut(rule, "=")
		switch key {
		case "dive":
			if s.Items != nil && s.Items.Ref == "" {
				applyRules(s.Items, strings.Join(rules[i+1:], ","))
			}
			return
		case "email":
			s.Format = "email"
		case "uuid", "uuid4", "uuid7":
			s.Format = "uuid"
		case "url":
			s.Format = "uri"
		case "min", "gte":
			setBound(s, val, true)
		case "max", "lte":
			setBound(s, val, false)
		}
	}
}

func setBound(s *Schema, val string, lower bool) {
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return
	}
	i := int(n)

	switch s.Type {
	case "string":
		if lower {
			s.MinLength = &i
		} else {
			s.MaxLength = &i
		}
	case "array":
		if lower {
			s.MinItems = &i
		} else {
			s.MaxItems = &i
		}
	case "integer", "number":
		if lower {
			s.Minimum = &n
		} else {
			s.Maximum = &n
		}
	}
}

func hasRule(tag, name string) bool {
	for rule := range strings.SplitSeq(tag, ",") {
		if rule == name {
			return true
		}
	}
	return false
}
