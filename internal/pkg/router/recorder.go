package router

import "net/http"

// responseRecorder remembers what the handlers below it sent so a middleware
// can act on the outcome after next returns.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	err    error
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w}
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// SetError is called by the translator with the error it answered.
func (w *responseRecorder) SetError(err error) {
	w.err = err
	if inner, ok := w.ResponseWriter.(interface{ SetError(error) }); ok {
		inner.SetError(err)
	}
}

// Committed reports whether the status line has gone out.
func (w *responseRecorder) Committed() bool {
	return w.status != 0
}

// Status is the code sent, or 200 when the handler wrote nothing.
func (w *responseRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *responseRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the connection.
func (w *responseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
