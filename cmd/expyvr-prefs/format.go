package main

import (
	"fmt"
	"strconv"
	"strings"
)

// formatValue renders a configuration value the way it would be typed on
// the command line.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			if s, ok := item.(string); ok {
				parts[i] = strconv.Quote(s)
				continue
			}
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		return "(section)"
	default:
		return fmt.Sprint(v)
	}
}
