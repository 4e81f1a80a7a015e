package navparams

import (
	"github.com/goliatone/go-navparams/pkg/openapi"
)

// NewSchemaLoader constructs a loader that rebuilds parameter schemas from
// OpenAPI documents exported by openapi.Document.
func NewSchemaLoader(options ...openapi.LoaderOption) *openapi.Loader {
	return openapi.NewLoader(options...)
}
