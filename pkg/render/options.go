package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Values pre-populates controls keyed by parameter name. Missing entries
	// fall back to the field default.
	Values map[string]any
	// Errors surfaces validation feedback keyed by parameter name.
	Errors map[string][]string
	// FormErrors are messages that do not belong to a single field.
	FormErrors []string
}

// ValueFor returns the value to display for a field: the supplied value when
// present, the default otherwise.
func (o RenderOptions) ValueFor(name string, fallback any) any {
	if value, ok := o.Values[name]; ok {
		return value
	}
	return fallback
}
