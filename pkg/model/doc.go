// Package model defines the typed form model renderers consume. A FormModel is
// built from a paramgen.Schema: one Field per declaration in declaration
// order, with min/max validation rules for bounded numeric parameters, a
// derived label, and UI hints (inputType, step, unit) renderers map onto HTML
// attributes or prompt help. Kind and level travel in Field.Metadata.
package model
