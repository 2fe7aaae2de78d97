package lexer

import "strings"

// readInterpolatedString scans a backtick string (isF=false, placeholders
// spelled `${expr}`) or an f"…"/f'…' string (isF=true, placeholders
// spelled `{expr}` or `{expr:spec}`) and expands it into a token run
// equivalent to `str-seg + (expr) + str-seg + (expr) …` per §4.1.
func (l *Lexer) readInterpolatedString(isF bool) ([]Token, error) {
	pos := l.pos()
	quote := l.ch
	l.readChar() // consume opening backtick/quote

	var segs []string
	var exprToks [][]Token
	var specs []string
	var hasSpec []bool
	var sb strings.Builder

	for {
		if l.ch == 0 || (l.ch == '\n' && quote != '`') {
			return nil, newLexError(pos, "unterminated string literal")
		}
		if l.ch == '\n' {
			sb.WriteByte('\n')
			l.readChar()
			continue
		}
		if l.ch == quote {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			sb.WriteByte(l.escapeByte(l.ch, quote))
			l.readChar()
			continue
		}
		if !isF && l.ch == '$' && l.peekChar() == '{' {
			segs = append(segs, sb.String())
			sb.Reset()
			l.readChar()
			l.readChar()
			exprText, specText, hs, err := l.readPlaceholder(false)
			if err != nil {
				return nil, err
			}
			toks, err := tokenizeSub(exprText)
			if err != nil {
				return nil, err
			}
			exprToks = append(exprToks, toks)
			specs = append(specs, specText)
			hasSpec = append(hasSpec, hs)
			continue
		}
		if isF && l.ch == '{' {
			segs = append(segs, sb.String())
			sb.Reset()
			l.readChar()
			exprText, specText, hs, err := l.readPlaceholder(true)
			if err != nil {
				return nil, err
			}
			toks, err := tokenizeSub(exprText)
			if err != nil {
				return nil, err
			}
			exprToks = append(exprToks, toks)
			specs = append(specs, specText)
			hasSpec = append(hasSpec, hs)
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	segs = append(segs, sb.String())
	l.remember(STRING)

	return buildInterpolationTokens(pos, segs, exprToks, specs, hasSpec), nil
}

// readPlaceholder reads the contents of a `${…}`/`{…}` placeholder up to
// its matching closing brace, balancing nested braces. For f-strings, a
// top-level `:` (not nested inside another brace) separates the value
// expression from its format spec.
func (l *Lexer) readPlaceholder(isF bool) (exprText, specText string, hasSpec bool, err error) {
	depth := 0
	var expr, spec strings.Builder
	inSpec := false
	for {
		if l.ch == 0 {
			return "", "", false, newLexError(l.pos(), "unterminated interpolation")
		}
		if l.ch == '{' {
			depth++
			writeByte(&expr, &spec, inSpec, l.ch)
			l.readChar()
			continue
		}
		if l.ch == '}' {
			if depth == 0 {
				l.readChar()
				break
			}
			depth--
			writeByte(&expr, &spec, inSpec, l.ch)
			l.readChar()
			continue
		}
		if isF && l.ch == ':' && depth == 0 && !inSpec {
			inSpec = true
			hasSpec = true
			l.readChar()
			continue
		}
		writeByte(&expr, &spec, inSpec, l.ch)
		l.readChar()
	}
	return expr.String(), spec.String(), hasSpec, nil
}

func writeByte(expr, spec *strings.Builder, inSpec bool, ch byte) {
	if inSpec {
		spec.WriteByte(ch)
	} else {
		expr.WriteByte(ch)
	}
}

// tokenizeSub lexes a placeholder's expression text in isolation. No
// layout reconstruction is needed: interpolated expressions are always
// single-line and self-contained.
func tokenizeSub(text string) ([]Token, error) {
	sub := New(text)
	toks, err := sub.rawTokens()
	if err != nil {
		return nil, err
	}
	if len(toks) > 0 && toks[len(toks)-1].Type == EOF {
		toks = toks[:len(toks)-1]
	}
	return toks, nil
}

// buildInterpolationTokens assembles the literal+expr concatenation
// token run described in §4.1. With no placeholders, collapses to a
// single STRING token.
func buildInterpolationTokens(pos Position, segs []string, exprToks [][]Token, specs []string, hasSpec []bool) []Token {
	if len(exprToks) == 0 {
		return []Token{NewToken(STRING, segs[0], pos)}
	}

	var out []Token
	for i, seg := range segs {
		if i > 0 {
			out = append(out, NewToken(PLUS, "+", pos))
		}
		out = append(out, NewToken(STRING, seg, pos))

		if i < len(exprToks) {
			out = append(out, NewToken(PLUS, "+", pos))
			out = append(out, NewToken(LPAREN, "(", pos))
			if hasSpec[i] {
				out = append(out, NewToken(IDENT, "__format__", pos))
				out = append(out, NewToken(LPAREN, "(", pos))
				out = append(out, exprToks[i]...)
				out = append(out, NewToken(COMMA, ",", pos))
				out = append(out, NewToken(STRING, specs[i], pos))
				out = append(out, NewToken(RPAREN, ")", pos))
			} else {
				out = append(out, exprToks[i]...)
			}
			out = append(out, NewToken(RPAREN, ")", pos))
		}
	}
	return out
}
