package paramgen

import (
	"encoding/json"
	"fmt"
	"math"
)

// Coerce converts a decoded scalar into the Go type of the parameter kind.
// Integer inputs are widened for doubles and integral floats are accepted for
// ints, matching what JSON, YAML and TOML decoders produce. Strings are never
// parsed into numbers or booleans.
func (p Parameter) Coerce(value any) (any, error) {
	return coerce(p.Kind, value)
}

// Check validates that value already has the kind's Go type and lies within
// the declared bounds.
func (p Parameter) Check(value any) error {
	switch p.Kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return mismatch(p.Name, p.Kind, value)
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return mismatch(p.Name, p.Kind, value)
		}
	case KindDouble:
		v, ok := value.(float64)
		if !ok {
			return mismatch(p.Name, p.Kind, value)
		}
		if math.IsNaN(v) {
			return fmt.Errorf("%w: %s is NaN", ErrOutOfRange, p.Name)
		}
		if p.Bounded() && (v < p.Min.(float64) || v > p.Max.(float64)) {
			return fmt.Errorf("%w: %s=%v not in [%v, %v]", ErrOutOfRange, p.Name, v, p.Min, p.Max)
		}
	case KindInt:
		v, ok := value.(int)
		if !ok {
			return mismatch(p.Name, p.Kind, value)
		}
		if p.Bounded() && (v < p.Min.(int) || v > p.Max.(int)) {
			return fmt.Errorf("%w: %s=%d not in [%v, %v]", ErrOutOfRange, p.Name, v, p.Min, p.Max)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}
	return nil
}

// CoerceAndCheck is the usual path for external input.
func (p Parameter) CoerceAndCheck(value any) (any, error) {
	coerced, err := p.Coerce(value)
	if err != nil {
		return nil, err
	}
	if err := p.Check(coerced); err != nil {
		return nil, err
	}
	return coerced, nil
}

func coerce(kind Kind, value any) (any, error) {
	switch kind {
	case KindString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case KindDouble:
		if v, ok := toFloat(value); ok {
			return v, nil
		}
	case KindInt:
		if v, ok := toInt(value); ok {
			return v, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return nil, fmt.Errorf("%w: expected %s value, got %T", ErrKindMismatch, kind, value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return toInt(i)
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	}
	if f, ok := toFloat(value); ok {
		return floatToInt(f)
	}
	return 0, false
}

// floatToInt accepts integral floats in [MinInt, -MinInt). float64(MaxInt)
// rounds up to -MinInt, so the upper bound is exclusive.
func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= -float64(math.MinInt) || f < float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}

func mismatch(name string, kind Kind, value any) error {
	return fmt.Errorf("%w: %s expects %s, got %T", ErrKindMismatch, name, kind, value)
}
