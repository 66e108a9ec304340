package eval

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/domharness/domharness/internal/value"
)

// jsonStringify implements a pragmatic subset of JSON.stringify: objects,
// arrays, strings, numbers, bools, null, with undefined/function members of
// an object omitted and undefined/function array elements serialized as
// null, matching the language's own behavior.
func jsonStringify(v value.Value, indent, curIndent string) (string, bool) {
	switch x := v.(type) {
	case value.Undefined:
		return "", false
	case *value.NativeFunc, *Closure:
		return "", false
	case value.Null:
		return "null", true
	case value.Bool:
		if x {
			return "true", true
		}
		return "false", true
	case value.Number:
		return strconv.FormatInt(int64(x), 10), true
	case value.Float:
		return value.FormatFloat(float64(x)), true
	case value.String:
		return jsonQuote(string(x)), true
	case *value.Array:
		return jsonStringifyArray(x, indent, curIndent), true
	case *value.Object:
		return jsonStringifyObject(x, indent, curIndent), true
	default:
		return "null", true
	}
}

func jsonStringifyArray(a *value.Array, indent, curIndent string) string {
	if len(a.Items) == 0 {
		return "[]"
	}
	nextIndent := curIndent + indent
	parts := make([]string, len(a.Items))
	for i, item := range a.Items {
		s, ok := jsonStringify(item, indent, nextIndent)
		if !ok {
			s = "null"
		}
		parts[i] = s
	}
	return joinJSON("[", "]", parts, indent, curIndent, nextIndent)
}

func jsonStringifyObject(o *value.Object, indent, curIndent string) string {
	keys := o.Keys()
	if len(keys) == 0 {
		return "{}"
	}
	nextIndent := curIndent + indent
	var parts []string
	for _, k := range keys {
		v, _ := o.Get(k)
		s, ok := jsonStringify(v, indent, nextIndent)
		if !ok {
			continue
		}
		sep := ":"
		if indent != "" {
			sep = ": "
		}
		parts = append(parts, jsonQuote(k)+sep+s)
	}
	if len(parts) == 0 {
		return "{}"
	}
	return joinJSON("{", "}", parts, indent, curIndent, nextIndent)
}

func joinJSON(open, close string, parts []string, indent, curIndent, nextIndent string) string {
	if indent == "" {
		return open + strings.Join(parts, ",") + close
	}
	var b strings.Builder
	b.WriteString(open + "\n")
	for i, p := range parts {
		b.WriteString(nextIndent + p)
		if i < len(parts)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(curIndent + close)
	return b.String()
}

func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u` + padHex(int(r)))
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func padHex(n int) string {
	s := strconv.FormatInt(int64(n), 16)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// jsonParse implements a hand-rolled recursive-descent JSON parser: the
// scriptparse lexer/parser is a different grammar (the scripting language,
// not JSON), so JSON.parse gets its own minimal reader rather than reusing
// it.
func jsonParse(s string) (value.Value, error) {
	p := &jsonParser{s: s}
	p.skipWS()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.pos != len(p.s) {
		return nil, &ScriptError{Message: "unexpected trailing input"}
	}
	return v, nil
}

type jsonParser struct {
	s   string
	pos int
}

func (p *jsonParser) skipWS() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsonParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *jsonParser) parseValue() (value.Value, error) {
	p.skipWS()
	if p.pos >= len(p.s) {
		return nil, &ScriptError{Message: "unexpected end of JSON input"}
	}
	switch c := p.peek(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	case c == 't':
		return p.parseLiteral("true", value.Bool(true))
	case c == 'f':
		return p.parseLiteral("false", value.Bool(false))
	case c == 'n':
		return p.parseLiteral("null", value.NullValue)
	default:
		return p.parseNumber()
	}
}

func (p *jsonParser) parseLiteral(lit string, v value.Value) (value.Value, error) {
	if p.pos+len(lit) > len(p.s) || p.s[p.pos:p.pos+len(lit)] != lit {
		return nil, &ScriptError{Message: "invalid JSON literal"}
	}
	p.pos += len(lit)
	return v, nil
}

func (p *jsonParser) parseNumber() (value.Value, error) {
	start := p.pos
	for p.pos < len(p.s) && strings.ContainsRune("-+.eE0123456789", rune(p.s[p.pos])) {
		p.pos++
	}
	if start == p.pos {
		return nil, &ScriptError{Message: "invalid JSON number"}
	}
	text := p.s[start:p.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &ScriptError{Message: "invalid JSON number: " + text}
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil && float64(i) == f {
		return value.Number(i), nil
	}
	return value.Float(f), nil
}

func (p *jsonParser) parseString() (string, error) {
	if p.peek() != '"' {
		return "", &ScriptError{Message: "expected string"}
	}
	p.pos++
	var b strings.Builder
	for {
		if p.pos >= len(p.s) {
			return "", &ScriptError{Message: "unterminated string"}
		}
		c := p.s[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.s) {
				return "", &ScriptError{Message: "unterminated escape"}
			}
			switch p.s[p.pos] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'u':
				if p.pos+4 >= len(p.s) {
					return "", &ScriptError{Message: "invalid unicode escape"}
				}
				n, err := strconv.ParseInt(p.s[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return "", &ScriptError{Message: "invalid unicode escape"}
				}
				p.pos += 4
				r := rune(n)
				if utf16.IsSurrogate(r) && p.pos+6 < len(p.s) && p.s[p.pos+1] == '\\' && p.s[p.pos+2] == 'u' {
					n2, err := strconv.ParseInt(p.s[p.pos+3:p.pos+7], 16, 32)
					if err == nil {
						combined := utf16.DecodeRune(r, rune(n2))
						if combined != 0xFFFD {
							b.WriteRune(combined)
							p.pos += 6
							p.pos++
							continue
						}
					}
				}
				b.WriteRune(r)
			default:
				return "", &ScriptError{Message: "invalid escape"}
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *jsonParser) parseArray() (value.Value, error) {
	p.pos++ // '['
	p.skipWS()
	arr := value.NewArray()
	if p.peek() == ']' {
		p.pos++
		return arr, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, v)
		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, &ScriptError{Message: "expected ',' or ']' in array"}
		}
	}
}

func (p *jsonParser) parseObject() (value.Value, error) {
	p.pos++ // '{'
	p.skipWS()
	obj := value.NewObject()
	if p.peek() == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipWS()
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if p.peek() != ':' {
			return nil, &ScriptError{Message: "expected ':' in object"}
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, &ScriptError{Message: "expected ',' or '}' in object"}
		}
	}
}
