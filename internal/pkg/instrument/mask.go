package instrument

import (
	"context"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
)

const maskedValue = "***"

// defaultMaskFields are masked even when the configuration lists none.
var defaultMaskFields = []string{"password", "token", "authorization"}

// masker holds lower-cased keys whose values never reach the output.
type masker map[string]struct{}

func newMasker(lists ...[]string) masker {
	m := masker{}
	for _, list := range lists {
		for _, f := range list {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				m[f] = struct{}{}
			}
		}
	}
	return m
}

func (m masker) hides(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

// attr masks a, resolving slog.LogValuer values first so structured errors
// and other lazily built groups are inspected too.
func (m masker) attr(a slog.Attr) slog.Attr {
	if m.hides(a.Key) {
		return slog.String(a.Key, maskedValue)
	}

	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = m.attr(ga)
		}
		a.Value = slog.GroupValue(out...)
	case slog.KindString:
		if s, ok := m.jsonText([]byte(a.Value.String())); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(m.tree(v))
		case map[string]string:
			t := make(map[string]any, len(v))
			for k, s := range v {
				t[k] = s
			}
			a.Value = slog.AnyValue(m.tree(t))
		case []byte:
			if s, ok := m.jsonText(v); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}
	return a
}

// tree masks decoded JSON.
func (m masker) tree(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			if m.hides(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = m.tree(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = m.tree(child)
		}
		return out
	default:
		return v
	}
}

// jsonText masks text holding a JSON object or array and reports whether it
// was one.
func (m masker) jsonText(b []byte) (string, bool) {
	if len(b) == 0 || (b[0] != '{' && b[0] != '[') {
		return "", false
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return "", false
	}
	out, err := json.Marshal(m.tree(v))
	if err != nil {
		return "", false
	}
	return string(out), true
}

// maskHandler applies a masker to record and logger attributes.
type maskHandler struct {
	next slog.Handler
	mask masker
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.mask.attr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask.attr(a)
	}
	return &maskHandler{next: h.next.WithAttrs(masked), mask: h.mask}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{next: h.next.WithGroup(name), mask: h.mask}
}
