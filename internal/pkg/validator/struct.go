package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

type fieldInfo struct {
	index    int
	optional bool
}

// Struct is a Schema backed by the json and validate tags of T.
//
// Parse coerces raw values into the field types first: strings become
// numbers or booleans when the target asks for one (query strings and path
// parameters are always strings), float64 from JSON becomes an integer when it
// has no fraction, and unknown keys are ignored. The populated value is then
// checked with validate tags. A field is optional when it can be nil (pointer,
// slice or map) or is tagged omitempty, and it is not tagged required.
type Struct[T any] struct {
	v      *V10Validator
	fields map[string]fieldInfo
}

// NewStruct builds a Schema for T, which must be a struct type.
func NewStruct[T any](v *V10Validator) *Struct[T] {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("validator: NewStruct needs a struct type, got %s", typ))
	}

	fields := make(map[string]fieldInfo, typ.NumField())
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonFieldName(f)
		if name == "" {
			continue
		}
		fields[name] = fieldInfo{index: i, optional: isOptional(f)}
	}

	return &Struct[T]{v: v, fields: fields}
}

// Parse implements Schema.
func (s *Struct[T]) Parse(raw map[string]any) (T, error) {
	var out T
	var zero T

	var iss Issues
	decodeStruct(reflect.ValueOf(&out).Elem(), raw, nil, &iss)

	checked, err := s.v.issues(out)
	if err != nil {
		return zero, err
	}
	for _, it := range checked {
		if covered(iss, it.Path) {
			continue
		}
		iss = append(iss, it)
	}

	if len(iss) > 0 {
		return zero, iss
	}

	return out, nil
}

// IsFieldOptional implements Schema.
func (s *Struct[T]) IsFieldOptional(field string) bool {
	info, ok := s.fields[field]
	return ok && info.optional
}

func isOptional(f reflect.StructField) bool {
	rules := strings.Split(f.Tag.Get("validate"), ",")
	for _, rule := range rules {
		if rule == "required" {
			return false
		}
	}

	switch f.Type.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}

	for _, rule := range rules {
		if rule == "omitempty" {
			return true
		}
	}

	return false
}

// covered reports whether a coercion issue already exists at or above path.
func covered(iss Issues, path []any) bool {
	for _, it := range iss {
		if len(it.Path) > len(path) {
			continue
		}
		match := true
		for i, seg := range it.Path {
			if seg != path[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}

	return false
}

func decodeStruct(dst reflect.Value, raw map[string]any, prefix []any, iss *Issues) {
	typ := dst.Type()
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonFieldName(f)
		if name == "" {
			continue
		}

		val, ok := raw[name]
		if !ok || val == nil {
			continue
		}

		path := append(append(make([]any, 0, len(prefix)+1), prefix...), name)
		assign(dst.Field(i), val, path, iss)
	}
}

func assign(dst reflect.Value, val any, path []any, iss *Issues) bool {
	fail := func(want string) bool {
		*iss = append(*iss, Issue{
			Path:    path,
			Message: fmt.Sprintf("%s must be %s, received %s", label(path), want, describe(val)),
		})
		return false
	}

	if dst.Type() == timeType {
		s, ok := val.(string)
		if !ok {
			return fail("a RFC3339 timestamp")
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fail("a RFC3339 timestamp")
		}
		dst.Set(reflect.ValueOf(t))
		return true
	}

	switch dst.Kind() {
	case reflect.Pointer:
		elem := reflect.New(dst.Type().Elem())
		if !assign(elem.Elem(), val, path, iss) {
			return false
		}
		dst.Set(elem)

	case reflect.Interface:
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(dst.Type()) {
			return fail(dst.Type().String())
		}
		dst.Set(rv)

	case reflect.String:
		s, ok := val.(string)
		if !ok {
			return fail("a string")
		}
		dst.SetString(s)

	case reflect.Bool:
		b, ok := toBool(val)
		if !ok {
			return fail("a boolean")
		}
		dst.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := toInt(val)
		if !ok || dst.OverflowInt(n) {
			return fail("an integer")
		}
		dst.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := toInt(val)
		if !ok || n < 0 || dst.OverflowUint(uint64(n)) {
			return fail("a non-negative integer")
		}
		dst.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		f, ok := toFloat(val)
		if !ok || dst.OverflowFloat(f) {
			return fail("a number")
		}
		dst.SetFloat(f)

	case reflect.Slice:
		items, ok := toItems(val)
		if !ok {
			return fail("an array")
		}
		out := reflect.MakeSlice(dst.Type(), len(items), len(items))
		valid := true
		for i, item := range items {
			elemPath := append(append(make([]any, 0, len(path)+1), path...), i)
			if item == nil {
				continue
			}
			if !assign(out.Index(i), item, elemPath, iss) {
				valid = false
			}
		}
		dst.Set(out)
		return valid

	case reflect.Map:
		m, ok := val.(map[string]any)
		if !ok || dst.Type().Key().Kind() != reflect.String {
			return fail("an object")
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(m))
		valid := true
		for k, item := range m {
			elem := reflect.New(dst.Type().Elem()).Elem()
			elemPath := append(append(make([]any, 0, len(path)+1), path...), k)
			if item != nil && !assign(elem, item, elemPath, iss) {
				valid = false
				continue
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), elem)
		}
		dst.Set(out)
		return valid

	case reflect.Struct:
		m, ok := val.(map[string]any)
		if !ok {
			return fail("an object")
		}
		before := len(*iss)
		decodeStruct(dst, m, path, iss)
		return len(*iss) == before

	default:
		return fail(dst.Kind().String())
	}

	return true
}

func toBool(val any) (bool, bool) {
	switch v := val.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}

	return false, false
}

func toInt(val any) (int64, bool) {
	switch v := val.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return toInt(f)
	}

	return 0, false
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}

	return 0, false
}

func toItems(val any) ([]any, bool) {
	switch v := val.(type) {
	case []any:
		return v, true
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	case string:
		// a repeated query key arrives as []string, a single one as string
		return []any{v}, true
	}

	return nil, false
}

func label(path []any) string {
	for i := len(path) - 1; i >= 0; i-- {
		if s, ok := path[i].(string); ok {
			return s
		}
	}

	return "value"
}

func describe(val any) string {
	switch v := val.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "empty string"
		}
		return strconv.Quote(v)
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	}

	return fmt.Sprintf("%T", val)
}
