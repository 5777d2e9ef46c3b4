// Package api embeds the OpenAPI contract of the HTTP surface.
package api

import _ "embed"

// OpenAPI is the OpenAPI 3 document served at /api/openapi.yml and used to
// validate incoming requests.
//
//go:embed openapi.yml
var OpenAPI []byte
