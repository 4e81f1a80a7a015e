package reconfigure

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-navparams/pkg/paramgen"
)

// decodeForm turns an HTML form submission into typed values. Checkboxes post
// a hidden "false" followed by "true" when ticked, so the last value wins.
// Fields that fail to parse are returned as issues keyed by name.
func decodeForm(schema paramgen.Schema, form url.Values) (map[string]any, map[string][]string) {
	out := make(map[string]any)
	issues := make(map[string][]string)
	for name, raw := range form {
		if len(raw) == 0 || strings.HasPrefix(name, "_") {
			continue
		}
		text := strings.TrimSpace(raw[len(raw)-1])
		if name == RestoreDefaultsKey {
			out[name] = text == "true" || text == "on"
			continue
		}
		param, ok := schema.Lookup(name)
		if !ok {
			issues[name] = append(issues[name], "unknown parameter "+name)
			continue
		}
		value, err := parseText(param.Kind, text)
		if err != nil {
			issues[name] = append(issues[name], err.Error())
			continue
		}
		out[name] = value
	}
	return out, issues
}

func parseText(kind paramgen.Kind, text string) (any, error) {
	switch kind {
	case paramgen.KindDouble:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", text)
		}
		return v, nil
	case paramgen.KindInt:
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", text)
		}
		return v, nil
	case paramgen.KindBool:
		switch text {
		case "true", "on", "1":
			return true, nil
		case "false", "off", "0", "":
			return false, nil
		}
		return nil, fmt.Errorf("%q is not a boolean", text)
	}
	return text, nil
}
