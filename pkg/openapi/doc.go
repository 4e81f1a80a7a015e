// Package openapi converts parameter schemas to and from OpenAPI 3 documents
// using kin-openapi. The exported document describes the reconfigure HTTP
// surface (GET/PUT /parameters) with one component schema whose properties
// are the declarations; declaration order and levels travel as extensions so
// Import can rebuild an identical paramgen.Schema.
package openapi
