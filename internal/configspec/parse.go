package configspec

import (
	"fmt"
	"strconv"
	"strings"
)

// literal is an uninterpreted argument of a check expression.
type literal struct {
	text   string
	quoted bool
	none   bool
	list   []literal
	isList bool
}

func (l literal) value() any {
	if l.isList {
		out := make([]any, len(l.list))
		for i, item := range l.list {
			out[i] = item.value()
		}
		return out
	}
	return l.text
}

// ParseCheck parses a check expression such as "integer(0, 10, default=5)".
func ParseCheck(expr string) (Check, error) {
	s := &scanner{src: expr}
	s.skipSpace()
	name := s.ident()
	if name == "" {
		return Check{}, fmt.Errorf("check %q: expected check name", expr)
	}
	kind, ok := kindAliases[name]
	if !ok {
		return Check{}, fmt.Errorf("check %q: unknown check %q", expr, name)
	}

	var positional []literal
	keywords := map[string]literal{}
	s.skipSpace()
	if s.peek() == '(' {
		s.pos++
		for {
			s.skipSpace()
			if s.peek() == ')' {
				s.pos++
				break
			}
			key, val, err := s.arg()
			if err != nil {
				return Check{}, fmt.Errorf("check %q: %w", expr, err)
			}
			if key == "" {
				positional = append(positional, val)
			} else {
				if _, dup := keywords[key]; dup {
					return Check{}, fmt.Errorf("check %q: duplicate keyword %q", expr, key)
				}
				keywords[key] = val
			}
			s.skipSpace()
			switch s.peek() {
			case ',':
				s.pos++
				continue
			case ')':
				s.pos++
			default:
				return Check{}, fmt.Errorf("check %q: expected ',' or ')' at offset %d", expr, s.pos)
			}
			break
		}
	}
	s.skipSpace()
	if !s.done() {
		return Check{}, fmt.Errorf("check %q: unexpected trailing input at offset %d", expr, s.pos)
	}
	return buildCheck(strings.TrimSpace(expr), kind, positional, keywords)
}

func buildCheck(expr string, kind Kind, positional []literal, keywords map[string]literal) (Check, error) {
	c := Check{Kind: kind, Expr: expr}
	if kind == KindOption {
		for _, p := range positional {
			if p.isList || p.none {
				return Check{}, fmt.Errorf("check %q: option values must be scalars", expr)
			}
			c.Options = append(c.Options, p.text)
		}
		if len(c.Options) == 0 {
			return Check{}, fmt.Errorf("check %q: option requires at least one value", expr)
		}
	} else {
		if len(positional) > 2 {
			return Check{}, fmt.Errorf("check %q: too many positional arguments", expr)
		}
		var err error
		if len(positional) > 0 {
			if c.Min, err = parseBound(positional[0]); err != nil {
				return Check{}, fmt.Errorf("check %q: min: %w", expr, err)
			}
		}
		if len(positional) > 1 {
			if c.Max, err = parseBound(positional[1]); err != nil {
				return Check{}, fmt.Errorf("check %q: max: %w", expr, err)
			}
		}
	}

	for key, val := range keywords {
		var err error
		switch key {
		case "min":
			c.Min, err = parseBound(val)
		case "max":
			c.Max, err = parseBound(val)
		case "default":
		default:
			err = fmt.Errorf("unknown keyword")
		}
		if err != nil {
			return Check{}, fmt.Errorf("check %q: %s: %w", expr, key, err)
		}
	}

	if def, ok := keywords["default"]; ok && !def.none {
		value, err := c.Coerce(def.value())
		if err != nil {
			return Check{}, fmt.Errorf("check %q: default: %w", expr, err)
		}
		c.Default = value
		c.HasDefault = true
	}
	return c, nil
}

func parseBound(l literal) (*float64, error) {
	if l.none {
		return nil, nil
	}
	if l.isList {
		return nil, fmt.Errorf("expected number, got list")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(l.text), 64)
	if err != nil {
		return nil, fmt.Errorf("expected number, got %q", l.text)
	}
	return &f, nil
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) skipSpace() {
	for !s.done() && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) ident() string {
	start := s.pos
	for !s.done() {
		ch := s.src[s.pos]
		if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (s.pos > start && ch >= '0' && ch <= '9') {
			s.pos++
			continue
		}
		break
	}
	return s.src[start:s.pos]
}

// arg reads "key=value" or a bare value.
func (s *scanner) arg() (string, literal, error) {
	start := s.pos
	if id := s.ident(); id != "" {
		s.skipSpace()
		if s.peek() == '=' {
			s.pos++
			val, err := s.value()
			return id, val, err
		}
	}
	s.pos = start
	val, err := s.value()
	return "", val, err
}

func (s *scanner) value() (literal, error) {
	s.skipSpace()
	switch ch := s.peek(); ch {
	case 0:
		return literal{}, fmt.Errorf("unexpected end of expression")
	case '\'', '"':
		return s.quoted(ch)
	case '(', '[':
		return s.list()
	}

	start := s.pos
	if id := s.ident(); id == "list" || id == "tuple" {
		s.skipSpace()
		if s.peek() == '(' {
			return s.list()
		}
	}
	s.pos = start
	for !s.done() && !strings.ContainsRune(",)]", rune(s.src[s.pos])) {
		s.pos++
	}
	text := strings.TrimSpace(s.src[start:s.pos])
	if text == "" {
		return literal{}, fmt.Errorf("empty value at offset %d", start)
	}
	return literal{text: text, none: text == "None"}, nil
}

func (s *scanner) quoted(quote byte) (literal, error) {
	s.pos++
	var b strings.Builder
	for !s.done() {
		ch := s.src[s.pos]
		switch {
		case ch == '\\' && s.pos+1 < len(s.src):
			b.WriteByte(s.src[s.pos+1])
			s.pos += 2
		case ch == quote:
			s.pos++
			return literal{text: b.String(), quoted: true}, nil
		default:
			b.WriteByte(ch)
			s.pos++
		}
	}
	return literal{}, fmt.Errorf("unterminated string")
}

func (s *scanner) list() (literal, error) {
	open := s.peek()
	closer := byte(')')
	if open == '[' {
		closer = ']'
	}
	s.pos++
	out := literal{isList: true}
	for {
		s.skipSpace()
		if s.peek() == closer {
			s.pos++
			return out, nil
		}
		item, err := s.value()
		if err != nil {
			return literal{}, err
		}
		out.list = append(out.list, item)
		s.skipSpace()
		switch s.peek() {
		case ',':
			s.pos++
		case closer:
			s.pos++
			return out, nil
		default:
			return literal{}, fmt.Errorf("expected ',' or %q in list at offset %d", closer, s.pos)
		}
	}
}
