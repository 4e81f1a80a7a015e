package model

import (
	"errors"
	"strconv"

	"github.com/goliatone/go-navparams/pkg/paramgen"
)

// Builder converts parameter schemas into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.ID != "" {
		opts.ID = options.ID
	}
	if options.Method != "" {
		opts.Method = options.Method
	}
	opts.Title = options.Title
	opts.Description = options.Description
	opts.Endpoint = options.Endpoint
	opts.FieldHints = options.FieldHints
	return &Builder{opts: opts}
}

// Build emits one field per declaration, in declaration order.
func (b *Builder) Build(schema paramgen.Schema) (FormModel, error) {
	if schema.Len() == 0 {
		return FormModel{}, errors.New("model builder: schema has no parameters")
	}

	form := FormModel{
		ID:          b.opts.ID,
		Title:       b.opts.Title,
		Description: b.opts.Description,
		Endpoint:    b.opts.Endpoint,
		Method:      b.opts.Method,
		Fields:      make([]Field, 0, schema.Len()),
		Metadata:    map[string]string{"parameters": strconv.Itoa(schema.Len())},
	}
	if form.Title == "" {
		form.Title = b.opts.Labeler(form.ID)
	}

	for _, param := range schema.Parameters() {
		form.Fields = append(form.Fields, b.field(param))
	}
	return form, nil
}

func (b *Builder) field(param paramgen.Parameter) Field {
	field := Field{
		Name:        param.Name,
		Type:        fieldType(param.Kind),
		Label:       b.opts.Labeler(param.Name),
		Description: param.Description,
		Default:     param.Default,
		Metadata: map[string]string{
			"kind":  string(param.Kind),
			"level": strconv.FormatUint(uint64(param.Level), 10),
		},
		UIHints: map[string]string{},
	}

	if param.Bounded() {
		field.Validations = []ValidationRule{
			{Kind: ValidationRuleMin, Params: map[string]string{"value": formatNumber(param.Min)}},
			{Kind: ValidationRuleMax, Params: map[string]string{"value": formatNumber(param.Max)}},
		}
	}

	switch param.Kind {
	case paramgen.KindBool:
		field.UIHints["inputType"] = "checkbox"
	case paramgen.KindDouble:
		field.UIHints["inputType"] = "number"
		field.UIHints["step"] = "any"
	case paramgen.KindInt:
		field.UIHints["inputType"] = "number"
		field.UIHints["step"] = "1"
	default:
		field.UIHints["inputType"] = "text"
	}
	if unit := unitFromDescription(param.Description); unit != "" {
		field.UIHints["unit"] = unit
	}
	for key, value := range b.opts.FieldHints[param.Name] {
		field.UIHints[key] = value
	}
	return field
}

func fieldType(kind paramgen.Kind) FieldType {
	switch kind {
	case paramgen.KindDouble:
		return FieldTypeNumber
	case paramgen.KindInt:
		return FieldTypeInteger
	case paramgen.KindBool:
		return FieldTypeBoolean
	default:
		return FieldTypeString
	}
}

func formatNumber(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}
