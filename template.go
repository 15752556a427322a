package roam

import (
	"fmt"
	"strings"
)

// renderTemplate substitutes {name} placeholders in tmpl from vars.
// "{{" and "}}" escape literal braces. A placeholder with no matching
// variable, an empty placeholder, or an unmatched brace is an error;
// missing variables never substitute blanks.
func renderTemplate(tmpl string, vars map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		switch tmpl[i] {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("template: unmatched '{' at offset %d", i)
			}
			name := tmpl[i+1 : i+end]
			if name == "" {
				return "", fmt.Errorf("template: empty placeholder at offset %d", i)
			}
			val, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("template: unknown variable %q", name)
			}
			b.WriteString(fmt.Sprint(val))
			i += end

		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("template: unmatched '}' at offset %d", i)

		default:
			b.WriteByte(tmpl[i])
		}
	}

	return b.String(), nil
}
