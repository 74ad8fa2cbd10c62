package openapi

import (
	"net/http"
	"sync"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/swaggo/swag"
)

// DocPath is where the UI fetches the document from.
const DocPath = "/v1/docs/doc.json"

var registerOnce sync.Once

// liveDoc renders the registry on every read, so operations added after the
// handler was built still show up.
type liveDoc struct {
	reg  *Registry
	info Info
}

func (d liveDoc) ReadDoc() string {
	return d.reg.Document(d.info).ReadDoc()
}

// Handler serves the Swagger UI and the document under /v1/docs/. Only the
// first registry passed in a process is published.
func (r *Registry) Handler(info Info) http.Handler {
	registerOnce.Do(func() {
		swag.Register(swag.Name, liveDoc{reg: r, info: info})
	})

	return httpSwagger.Handler(
		httpSwagger.URL(DocPath),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}
