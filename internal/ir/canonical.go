package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for display and
// snapshots.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats (returns error)
//  5. No null (returns error)
//
// Besides IRValue, plain Go strings, ints, bools, []any, []string and
// map[string]any are accepted so callers can snapshot ad-hoc structures.
//
// NFC merges strings that differ in normalization, so this form must not
// feed identity computation. Use MarshalExact for that.
func MarshalCanonical(v any) ([]byte, error) {
	e := encoder{normalize: true}
	if err := e.write(v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// MarshalExact is MarshalCanonical without NFC normalization. Strings are
// kept byte for byte: each byte that is not part of valid UTF-8 is written
// as a lone low surrogate escape \udcXX, which no valid input produces.
// Distinct values therefore always marshal to distinct bytes.
func MarshalExact(v any) ([]byte, error) {
	var e encoder
	if err := e.write(v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf       bytes.Buffer
	normalize bool
}

func (e *encoder) write(v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case IRString:
		e.writeString(string(val))
	case string:
		e.writeString(val)
	case IRInt:
		e.buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		e.buf.WriteString(strconv.FormatInt(val, 10))
	case int:
		e.buf.WriteString(strconv.Itoa(val))
	case IRBool:
		e.buf.WriteString(strconv.FormatBool(bool(val)))
	case bool:
		e.buf.WriteString(strconv.FormatBool(val))
	case IRArray:
		return e.writeArray(len(val), func(i int) any { return val[i] })
	case []any:
		return e.writeArray(len(val), func(i int) any { return val[i] })
	case []string:
		return e.writeArray(len(val), func(i int) any { return val[i] })
	case IRObject:
		return e.writeObject(val.SortedKeys(), func(k string) any { return val[k] })
	case map[string]any:
		return e.writeObject(sortedKeys(val), func(k string) any { return val[k] })
	case float64, float32:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func (e *encoder) writeArray(n int, elem func(int) any) error {
	e.buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.write(elem(i)); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) writeObject(keys []string, value func(string) any) error {
	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.writeString(k)
		e.buf.WriteByte(':')
		if err := e.write(value(k)); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	e.buf.WriteByte('}')
	return nil
}

// writeString writes an RFC 8785 string literal.
// Only control characters (U+0000-U+001F), backslash, and quote are escaped;
// U+2028/U+2029 and HTML characters are written literally.
func (e *encoder) writeString(s string) {
	const hex = "0123456789abcdef"

	if e.normalize {
		s = norm.NFC.String(s)
	}

	e.buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b := s[i]
			e.buf.WriteString(`\udc`)
			e.buf.WriteByte(hex[b>>4])
			e.buf.WriteByte(hex[b&0xF])
			i++
			continue
		}
		i += size

		switch r {
		case '"':
			e.buf.WriteString(`\"`)
		case '\\':
			e.buf.WriteString(`\\`)
		case '\b':
			e.buf.WriteString(`\b`)
		case '\f':
			e.buf.WriteString(`\f`)
		case '\n':
			e.buf.WriteString(`\n`)
		case '\r':
			e.buf.WriteString(`\r`)
		case '\t':
			e.buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				e.buf.WriteString(`\u00`)
				e.buf.WriteByte(hex[r>>4])
				e.buf.WriteByte(hex[r&0xF])
				continue
			}
			e.buf.WriteRune(r)
		}
	}
	e.buf.WriteByte('"')
}
