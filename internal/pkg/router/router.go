// Package router serves the JSON API: it routes with httprouter, runs the
// standard middleware chain and renders handler results and errors.
package router

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/goblog/internal/pkg/config"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/pkg/jwt"
	"github.com/shandysiswandi/goblog/internal/pkg/uid"
)

const defaultAppName = "goblog"

// Handler returns the payload to render, or an error for the translator.
//
// A payload may shape its envelope by implementing any of
// StatusCode() int, Message() string, Meta() map[string]any and Data() any.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	Config     config.Config
	UUID       uid.StringID
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	// Logger receives request lines and unknown failures; slog.Default when nil.
	Logger *slog.Logger
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	translator *ErrorTranslator
	mws        []Middleware
}

// publicRoutes skip authentication.
var publicRoutes = newRouteSet(
	"GET /",
	"GET /health",
	"GET /v1/posts",
	"GET /v1/posts/:id",
	"GET "+docsRoute,
	"POST /v1/users/register",
	"POST /v1/users/login",
)

// NewRouter builds the router with the standard chain: panic recovery,
// client ip, correlation id, observability, maintenance, authentication.
func NewRouter(cfg Config) *Router {
	tr := NewErrorTranslator(cfg.Logger)

	r := &Router{
		translator: tr,
		mws: []Middleware{
			middlewareRecoverer(tr.logger),
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Instrument, tr.logger),
			middlewareMaintenance(cfg.Config, tr),
			middlewareAuthentication(cfg.JWT, publicRoutes, tr),
		},
	}
	r.hr = &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tr.Translate(req.Context(), w, goerror.NewBusiness("Resource not found: "+req.URL.RequestURI(), http.StatusNotFound))
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tr.Translate(req.Context(), w, goerror.NewBusiness("Method not allowed", http.StatusMethodNotAllowed))
		}),
	}

	name := defaultAppName
	if cfg.Config != nil && cfg.Config.GetString("app.name") != "" {
		name = cfg.Config.GetString("app.name")
	}
	r.GET("/", func(*Request) (any, error) { return welcome(name), nil })
	r.GET("/health", func(*Request) (any, error) { return health{}, nil })

	return r
}

// Translator returns the error translator used by every endpoint.
func (r *Router) Translator() *ErrorTranslator {
	return r.translator
}

// Handle registers h for method and path behind the standard chain and mws.
func (r *Router) Handle(method, path string, h Handler, mws ...Middleware) {
	r.handle(method, path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(newRequest(req))
		if err != nil {
			r.translator.Translate(req.Context(), w, err)
			return
		}
		writeSuccess(w, resp)
	}), mws)
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodGet, path, h, mws...)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodPost, path, h, mws...)
}

func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodPut, path, h, mws...)
}

func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodDelete, path, h, mws...)
}

// GETRaw registers a plain http.Handler, for documents that are not JSON
// envelopes.
func (r *Router) GETRaw(path string, h http.Handler, mws ...Middleware) {
	r.handle(http.MethodGet, path, h, mws)
}

func (r *Router) handle(method, path string, h http.Handler, mws []Middleware) {
	chain := make([]Middleware, 0, len(r.mws)+len(mws))
	chain = append(append(chain, r.mws...), mws...)
	r.hr.Handler(method, path, Chain(h, chain...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

type successResponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// writeSuccess renders resp as {message, data, meta}. 204 and nil payloads
// have no body.
func writeSuccess(w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}
	if resp == nil || code == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	out := successResponse{Message: "request has been successfully", Data: resp}
	if m, ok := resp.(interface{ Message() string }); ok {
		out.Message = m.Message()
	}
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		out.Meta = m.Meta()
	}
	if d, ok := resp.(interface{ Data() any }); ok {
		out.Data = d.Data()
	}
	writeJSON(w, out, code)
}

type welcome string

func (w welcome) Message() string { return "Welcome to " + string(w) }
func (welcome) Data() any         { return nil }

type health struct{}

func (health) Message() string { return "ok" }
func (health) Data() any       { return map[string]string{"status": "up"} }

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}
