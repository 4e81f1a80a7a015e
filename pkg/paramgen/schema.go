package paramgen

import "fmt"

// Schema is an ordered, read-only view over declarations. The zero value is an
// empty schema.
type Schema struct {
	params []Parameter
	index  map[string]int
}

// NewSchema copies params into a Schema. Later declarations with an existing
// name are ignored; the Generator never produces them.
func NewSchema(params []Parameter) Schema {
	s := Schema{
		params: make([]Parameter, 0, len(params)),
		index:  make(map[string]int, len(params)),
	}
	for _, param := range params {
		if _, exists := s.index[param.Name]; exists {
			continue
		}
		s.index[param.Name] = len(s.params)
		s.params = append(s.params, param)
	}
	return s
}

// Parameters returns the declarations in registration order.
func (s Schema) Parameters() []Parameter {
	return append([]Parameter(nil), s.params...)
}

// Len returns the number of declarations.
func (s Schema) Len() int {
	return len(s.params)
}

// Names returns declaration names in registration order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.params))
	for _, param := range s.params {
		names = append(names, param.Name)
	}
	return names
}

// Lookup finds a declaration by name.
func (s Schema) Lookup(name string) (Parameter, bool) {
	idx, ok := s.index[name]
	if !ok {
		return Parameter{}, false
	}
	return s.params[idx], true
}

// Defaults returns the default value of every declaration.
func (s Schema) Defaults() Values {
	out := make(Values, len(s.params))
	for _, param := range s.params {
		out[param.Name] = param.Default
	}
	return out
}

// Validate coerces and checks every entry of values against the schema.
// Names absent from values are left untouched; the returned map only holds
// the supplied keys.
func (s Schema) Validate(values map[string]any) (Values, error) {
	out := make(Values, len(values))
	for name, raw := range values {
		param, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}
		value, err := param.CoerceAndCheck(raw)
		if err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, nil
}
