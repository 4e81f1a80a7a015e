// Package template defines the renderer-agnostic template interface. The
// pongo subpackage provides the default implementation.
package template
