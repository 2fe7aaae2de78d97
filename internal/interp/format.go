package interp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// formatSpecPattern matches one `%[-+ 0#][width][.precision]conv` token
// (§4.3.1). Flags may appear in any order; width and precision are
// digit runs; `%%` is the literal-percent escape.
var formatSpecPattern = regexp.MustCompile(`%([-+ 0#]*)(\d*)(\.(\d+))?([a-zA-Z%])`)

// hasFormatSpecifier reports whether s contains at least one
// non-literal `%` conversion, which is what decides whether Print (and
// friends) take printf mode.
func hasFormatSpecifier(s string) bool {
	for _, m := range formatSpecPattern.FindAllStringSubmatch(s, -1) {
		if m[5] != "%" {
			return true
		}
	}
	return false
}

// firstSpecifierConv returns the conversion character of the first
// non-literal specifier in s, used by Input to guess the requested type.
func firstSpecifierConv(s string) (byte, bool) {
	for _, m := range formatSpecPattern.FindAllStringSubmatch(s, -1) {
		if m[5] != "%" {
			return m[5][0], true
		}
	}
	return 0, false
}

// stripFormatSpecs removes every `%spec` run from s, used by Input to
// build the text actually displayed to the user.
func stripFormatSpecs(s string) string {
	return formatSpecPattern.ReplaceAllStringFunc(s, func(m string) string {
		if m == "%%" {
			return "%"
		}
		return ""
	})
}

// formatPercent is the shared printf engine behind `printf`/`format`/
// `sprintf`, Print's printf mode, and `__format__` (§4.3.1).
func formatPercent(i *Interpreter, tmpl string, args []Value) string {
	var out strings.Builder
	argIdx := 0
	next := func() Value {
		if argIdx < len(args) {
			v := args[argIdx]
			argIdx++
			return v
		}
		return Nil
	}

	last := 0
	for _, loc := range formatSpecPattern.FindAllStringSubmatchIndex(tmpl, -1) {
		out.WriteString(tmpl[last:loc[0]])
		last = loc[1]

		flags := tmpl[loc[2]:loc[3]]
		widthStr := tmpl[loc[4]:loc[5]]
		hasPrec := loc[6] != -1 && loc[7] != -1 && loc[6] != loc[7]
		precStr := ""
		if loc[8] != -1 && loc[9] != -1 {
			precStr = tmpl[loc[8]:loc[9]]
			hasPrec = true
		}
		conv := tmpl[loc[10]:loc[11]]

		if conv == "%" {
			out.WriteString("%")
			continue
		}

		width, _ := strconv.Atoi(widthStr)
		prec, _ := strconv.Atoi(precStr)
		out.WriteString(formatOne(i, conv[0], flags, width, prec, hasPrec, next()))
	}
	out.WriteString(tmpl[last:])
	return out.String()
}

type specFlags struct {
	left, plus, space, zero, alt bool
}

func parseFlags(s string) specFlags {
	var f specFlags
	for _, c := range s {
		switch c {
		case '-':
			f.left = true
		case '+':
			f.plus = true
		case ' ':
			f.space = true
		case '0':
			f.zero = true
		case '#':
			f.alt = true
		}
	}
	return f
}

func formatOne(i *Interpreter, conv byte, flagStr string, width, prec int, hasPrec bool, v Value) string {
	flags := parseFlags(flagStr)
	var body string

	switch conv {
	case 'd', 'i', 'u':
		n := int64(i.asNumber(v))
		sign := ""
		if n < 0 {
			sign, n = "-", -n
		} else if flags.plus {
			sign = "+"
		} else if flags.space {
			sign = " "
		}
		digits := strconv.FormatInt(n, 10)
		if hasPrec && len(digits) < prec {
			digits = strings.Repeat("0", prec-len(digits)) + digits
		}
		body = sign + digits
	case 'f', 'F':
		p := 6
		if hasPrec {
			p = prec
		}
		n := i.asNumber(v)
		sign := ""
		if n < 0 {
			sign, n = "-", -n
		} else if flags.plus {
			sign = "+"
		} else if flags.space {
			sign = " "
		}
		body = sign + strconv.FormatFloat(n, 'f', p, 64)
	case 'e', 'E':
		p := 6
		if hasPrec {
			p = prec
		}
		body = strconv.FormatFloat(i.asNumber(v), byte(conv), p, 64)
	case 'g', 'G':
		body = strconv.FormatFloat(i.asNumber(v), conv, -1, 64)
	case 's':
		body = v.String()
		if hasPrec && prec < len(body) {
			body = body[:prec]
		}
	case 'c':
		if n, ok := v.(*NumberValue); ok {
			body = string(rune(int(n.Value)))
		} else {
			body = v.String()
			if len(body) > 1 {
				body = body[:1]
			}
		}
	case 'x', 'X':
		n := int64(i.asNumber(v))
		body = strconv.FormatInt(n, 16)
		if conv == 'X' {
			body = strings.ToUpper(body)
		}
		if flags.alt {
			if conv == 'X' {
				body = "0X" + body
			} else {
				body = "0x" + body
			}
		}
	case 'o':
		n := int64(i.asNumber(v))
		body = strconv.FormatInt(n, 8)
		if flags.alt {
			body = "0" + body
		}
	case 'b':
		n := int64(i.asNumber(v))
		body = strconv.FormatInt(n, 2)
		if flags.alt {
			body = "0b" + body
		}
	case 'B':
		body = "false"
		if Truthy(v) {
			body = "true"
		}
	case 't':
		body = v.Type()
	default:
		body = v.String()
	}

	return padSpec(body, width, flags)
}

func padSpec(body string, width int, flags specFlags) string {
	if len(body) >= width {
		return body
	}
	padLen := width - len(body)
	if flags.left {
		return body + strings.Repeat(" ", padLen)
	}
	if flags.zero {
		sign := ""
		digits := body
		if len(body) > 0 && (body[0] == '-' || body[0] == '+' || body[0] == ' ') {
			sign, digits = body[:1], body[1:]
		}
		return sign + strings.Repeat("0", padLen) + digits
	}
	return strings.Repeat(" ", padLen) + body
}

// sprintfArgs is a tiny adapter so Go-side callers can build a printf
// string without going through the evaluator.
func sprintfArgs(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
