// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseList parses a flat list literal as written by Python's repr or by a
// JSON encoder: ['a', "b"], ("a",), {'a'}, [1, 2]. Unquoted elements keep
// their literal text. An empty or blank string yields an empty list.
// Nested containers are rejected.
func ParseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}, nil
	}

	closer, ok := listCloser(s[0])
	if !ok || s[len(s)-1] != closer {
		return nil, fmt.Errorf("%w: %q is not bracket-delimited", ErrMalformedList, truncate(s))
	}

	p := listParser{src: s[1 : len(s)-1]}
	items, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v in %q", ErrMalformedList, err, truncate(s))
	}
	return items, nil
}

func listCloser(open byte) (byte, bool) {
	switch open {
	case '[':
		return ']', true
	case '(':
		return ')', true
	case '{':
		return '}', true
	}
	return 0, false
}

type listParser struct {
	src string
	pos int
}

func (p *listParser) parse() ([]string, error) {
	items := []string{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return items, nil
		}

		item, err := p.element()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.pos >= len(p.src) {
			return items, nil
		}
		if p.src[p.pos] != ',' {
			return nil, fmt.Errorf("expected ',' at offset %d", p.pos)
		}
		p.pos++
	}
}

func (p *listParser) element() (string, error) {
	switch c := p.src[p.pos]; c {
	case '\'', '"':
		return p.quoted(c)
	case '[', '(', '{':
		return "", fmt.Errorf("nested container at offset %d", p.pos)
	default:
		return p.bare()
	}
}

func (p *listParser) bare() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ',' {
		if c := p.src[p.pos]; c == '\'' || c == '"' || c == '[' || c == '(' || c == '{' {
			return "", fmt.Errorf("unexpected %q at offset %d", c, p.pos)
		}
		p.pos++
	}
	tok := strings.TrimSpace(p.src[start:p.pos])
	if tok == "" {
		return "", fmt.Errorf("empty element at offset %d", start)
	}
	return tok, nil
}

func (p *listParser) quoted(quote byte) (string, error) {
	start := p.pos
	p.pos++ // opening quote

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string starting at offset %d", start)
}

// escape decodes one backslash sequence. Unknown escapes are kept verbatim,
// matching Python's handling of unrecognized sequences.
func (p *listParser) escape(b *strings.Builder) error {
	if p.pos+1 >= len(p.src) {
		return fmt.Errorf("dangling backslash at offset %d", p.pos)
	}
	next := p.src[p.pos+1]
	p.pos += 2

	switch next {
	case '\\', '\'', '"':
		b.WriteByte(next)
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'x':
		return p.hexRune(b, 2)
	case 'u':
		return p.hexRune(b, 4)
	case 'U':
		return p.hexRune(b, 8)
	default:
		b.WriteByte('\\')
		b.WriteByte(next)
	}
	return nil
}

func (p *listParser) hexRune(b *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return fmt.Errorf("short hex escape at offset %d", p.pos)
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return fmt.Errorf("bad hex escape at offset %d", p.pos)
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return fmt.Errorf("invalid code point at offset %d", p.pos)
	}
	b.WriteRune(r)
	p.pos += digits
	return nil
}

func (p *listParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func truncate(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// toStringList types one list cell. DuckDB LIST values arrive as []any;
// string cells are parsed as literals; NULL becomes an empty list.
func toStringList(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			if e == nil {
				continue
			}
			if s, ok := e.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(e))
		}
		return out, nil
	case string:
		return ParseList(val)
	default:
		return nil, fmt.Errorf("%w: unexpected cell type %T", ErrMalformedList, v)
	}
}
