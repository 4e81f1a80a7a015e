// Package orchestrator wires the schema → form model → transformer → renderer
// pipeline behind a single Generate call, with every stage replaceable
// through options.
package orchestrator
