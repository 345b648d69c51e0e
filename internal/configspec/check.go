package configspec

import (
	"fmt"
	"math"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies the value type a check accepts.
type Kind string

const (
	KindInteger    Kind = "integer"
	KindFloat      Kind = "float"
	KindBoolean    Kind = "boolean"
	KindString     Kind = "string"
	KindIPAddr     Kind = "ip_addr"
	KindOption     Kind = "option"
	KindList       Kind = "list"
	KindIntList    Kind = "int_list"
	KindFloatList  Kind = "float_list"
	KindBoolList   Kind = "bool_list"
	KindStringList Kind = "string_list"
	KindAny        Kind = "pass"
)

var kindAliases = map[string]Kind{
	"integer":     KindInteger,
	"int":         KindInteger,
	"float":       KindFloat,
	"boolean":     KindBoolean,
	"bool":        KindBoolean,
	"string":      KindString,
	"ip_addr":     KindIPAddr,
	"option":      KindOption,
	"list":        KindList,
	"tuple":       KindList,
	"mixed_list":  KindList,
	"int_list":    KindIntList,
	"float_list":  KindFloatList,
	"bool_list":   KindBoolList,
	"string_list": KindStringList,
	"pass":        KindAny,
	"any":         KindAny,
}

// Check is a parsed check expression. For numeric kinds Min and Max bound
// the value; for strings and lists they bound the length.
type Check struct {
	Kind       Kind
	Min        *float64
	Max        *float64
	Options    []string
	Default    any
	HasDefault bool
	Expr       string
}

// Failure classifies why a value was rejected.
type Failure int

const (
	FailWrongType Failure = iota + 1
	FailTooSmall
	FailTooBig
	FailNotOption
)

func (f Failure) String() string {
	switch f {
	case FailWrongType:
		return "wrong type"
	case FailTooSmall:
		return "too small"
	case FailTooBig:
		return "too big"
	case FailNotOption:
		return "not an option"
	default:
		return "invalid"
	}
}

// CheckError reports a value that does not satisfy a check.
type CheckError struct {
	Failure Failure
	Value   any
	Expr    string
	Reason  string
}

func (e *CheckError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = e.Failure.String()
	}
	return fmt.Sprintf("%s: %v does not satisfy %s", reason, e.Value, e.Expr)
}

func (c Check) fail(f Failure, value any, reason string) error {
	return &CheckError{Failure: f, Value: value, Expr: c.Expr, Reason: reason}
}

// Coerce converts value to the type declared by the check and enforces its
// bounds. Strings are converted for numeric and boolean checks, integers are
// widened for float checks, and list elements are converted individually.
// The returned value is one of int64, float64, bool, string or []any.
func (c Check) Coerce(value any) (any, error) {
	switch c.Kind {
	case KindAny:
		return value, nil
	case KindInteger:
		n, ok := toInt(value)
		if !ok {
			return nil, c.fail(FailWrongType, value, "expected integer")
		}
		return n, c.checkBounds(float64(n), value)
	case KindFloat:
		f, ok := toFloat(value)
		if !ok {
			return nil, c.fail(FailWrongType, value, "expected float")
		}
		return f, c.checkBounds(f, value)
	case KindBoolean:
		b, ok := toBool(value)
		if !ok {
			return nil, c.fail(FailWrongType, value, "expected boolean")
		}
		return b, nil
	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, c.fail(FailWrongType, value, "expected string")
		}
		return s, c.checkBounds(float64(utf8.RuneCountInString(s)), value)
	case KindIPAddr:
		s, ok := value.(string)
		if !ok {
			return nil, c.fail(FailWrongType, value, "expected IP address")
		}
		if _, err := netip.ParseAddr(strings.TrimSpace(s)); err != nil {
			return nil, c.fail(FailWrongType, value, "expected IP address")
		}
		return strings.TrimSpace(s), nil
	case KindOption:
		s, ok := value.(string)
		if !ok {
			return nil, c.fail(FailWrongType, value, "expected string option")
		}
		if !slices.Contains(c.Options, s) {
			return nil, c.fail(FailNotOption, value, "expected one of "+strings.Join(c.Options, ", "))
		}
		return s, nil
	case KindList, KindIntList, KindFloatList, KindBoolList, KindStringList:
		return c.coerceList(value)
	}
	return nil, c.fail(FailWrongType, value, "unknown check "+string(c.Kind))
}

func (c Check) coerceList(value any) (any, error) {
	items, ok := toList(value)
	if !ok {
		return nil, c.fail(FailWrongType, value, "expected list")
	}
	if err := c.checkBounds(float64(len(items)), value); err != nil {
		return nil, err
	}
	elem := Check{Expr: c.Expr}
	switch c.Kind {
	case KindIntList:
		elem.Kind = KindInteger
	case KindFloatList:
		elem.Kind = KindFloat
	case KindBoolList:
		elem.Kind = KindBoolean
	case KindStringList:
		elem.Kind = KindString
	default:
		elem.Kind = KindAny
	}
	out := make([]any, len(items))
	for i, item := range items {
		converted, err := elem.Coerce(item)
		if err != nil {
			return nil, c.fail(FailWrongType, value, fmt.Sprintf("item %d: expected %s", i, elem.Kind))
		}
		out[i] = converted
	}
	return out, nil
}

func (c Check) checkBounds(n float64, value any) error {
	if c.Min != nil && n < *c.Min {
		return c.fail(FailTooSmall, value, "")
	}
	if c.Max != nil && n > *c.Max {
		return c.fail(FailTooBig, value, "")
	}
	return nil
}

func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false
		}
		// 2^63 rounds to MaxInt64 as a float64 but does not fit.
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int64:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true, true
		case "false", "no", "off", "0":
			return false, true
		}
	}
	return false, false
}

func toList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// CloneValue deep-copies the value shapes produced by TOML decoding.
func CloneValue(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = CloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = CloneValue(item)
		}
		return out
	}
	return value
}
