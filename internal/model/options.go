package model

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler     func(string) string
	ID          string
	Title       string
	Description string
	Endpoint    string
	Method      string
	// FieldHints merges per-field UI hints over the derived ones.
	FieldHints map[string]map[string]string
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
		ID:      "parameters",
		Method:  "PUT",
	}
}
