// Package api holds the OpenAPI description of the grid's JSON endpoints.
package api

import _ "embed"

// GridOpenAPI is grid.openapi.yaml. Request bodies of the described operations are validated against it.
//
//go:embed grid.openapi.yaml
var GridOpenAPI []byte
