package lexer

import "strings"

// lineIndents computes the leading-indent (spaces, tab = 4 spaces) of
// every source line, keyed by 1-based line number, per §4.1.
func lineIndents(input string) map[int]int {
	indents := make(map[int]int)
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		indent := 0
		for j := 0; j < len(line); j++ {
			switch line[j] {
			case ' ':
				indent++
			case '\t':
				indent += 4
			default:
				indents[i+1] = indent
				indent = -1
			}
			if indent == -1 {
				break
			}
		}
		if indent != -1 {
			indents[i+1] = indent
		}
	}
	return indents
}

// reconstructLayout is the lexer's second pass: it walks the raw token
// stream and, at bracket depth zero, converts significant indentation
// into synthetic INDENT/DEDENT tokens while leaving brace-delimited
// code untouched (§4.1 "Layout reconstruction").
func reconstructLayout(tokens []Token, indents map[int]int) []Token {
	var out []Token
	stack := []int{0}
	depth := 0
	i := 0

	for i < len(tokens) {
		tok := tokens[i]

		switch tok.Type {
		case LPAREN, LBRACKET, LBRACE:
			depth++
			out = append(out, tok)
			i++
			continue
		case RPAREN, RBRACKET, RBRACE:
			if depth > 0 {
				depth--
			}
			out = append(out, tok)
			i++
			continue
		case EOF:
			for len(stack) > 1 {
				stack = stack[:len(stack)-1]
				out = append(out, NewToken(DEDENT, "", tok.Pos))
			}
			out = append(out, tok)
			i++
			continue
		}

		if depth > 0 {
			out = append(out, tok)
			i++
			continue
		}

		switch tok.Type {
		case COLON:
			out = append(out, tok)
			i++
			var skipped []Token
			for i < len(tokens) && tokens[i].Type == NEWLINE {
				skipped = append(skipped, tokens[i])
				i++
			}
			out = append(out, skipped...)
			if i < len(tokens) && tokens[i].Type != EOF {
				next := tokens[i]
				top := stack[len(stack)-1]
				if indents[next.Pos.Line] > top {
					out = append(out, NewToken(INDENT, "", next.Pos))
					stack = append(stack, indents[next.Pos.Line])
				}
			}
			continue

		case NEWLINE:
			out = append(out, tok)
			i++
			for i < len(tokens) && tokens[i].Type == NEWLINE {
				out = append(out, tokens[i])
				i++
			}
			if i < len(tokens) && tokens[i].Type != EOF {
				next := tokens[i]
				nextIndent := indents[next.Pos.Line]
				for len(stack) > 1 && nextIndent < stack[len(stack)-1] {
					stack = stack[:len(stack)-1]
					out = append(out, NewToken(DEDENT, "", next.Pos))
				}
			}
			continue

		default:
			out = append(out, tok)
			i++
		}
	}

	return out
}
