package lexer

import "testing"

func TestTokenize_BasicArithmetic(t *testing.T) {
	input := "x = 5 + 10 * 2"

	tests := []struct {
		expectedLiteral string
		expectedType    TokenType
	}{
		{"x", IDENT},
		{"=", ASSIGN},
		{"5", NUMBER},
		{"+", PLUS},
		{"10", NUMBER},
		{"*", STAR},
		{"2", NUMBER},
		{"", EOF},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}

	for i, tt := range tests {
		if i >= len(tokens) {
			t.Fatalf("tests[%d] - ran out of tokens", i)
		}
		tok := tokens[i]
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTokenize_Keywords(t *testing.T) {
	input := "if elif else while for in of fn return break continue let const class extends static new super self print import from as try except finally raise"

	tests := []TokenType{
		IF, ELIF, ELSE, WHILE, FOR, IN, OF, FUNC, RETURN, BREAK, CONTINUE,
		LET, CONST_KW, CLASS, EXTENDS, STATIC, NEW, SUPER, SELF, PRINT,
		IMPORT, FROM, AS, TRY, EXCEPT, FINALLY, RAISE, EOF,
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	for i, want := range tests {
		if tokens[i].Type != want {
			t.Fatalf("tests[%d] - expected %s, got %s", i, want, tokens[i].Type)
		}
	}
}

func TestTokenize_DialectAliases(t *testing.T) {
	// "def"/"function" alias to fn; "var" aliases to let; "True"/"None"
	// alias to the same tokens as their lowercase C/JS spellings.
	tests := []struct {
		input string
		want  TokenType
	}{
		{"def", FUNC},
		{"function", FUNC},
		{"var", LET},
		{"True", TRUE},
		{"None", NIL},
		{"catch", EXCEPT},
		{"throw", RAISE},
	}
	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q) returned error: %v", tt.input, err)
		}
		if tokens[0].Type != tt.want {
			t.Errorf("Tokenize(%q)[0] = %s, want %s", tt.input, tokens[0].Type, tt.want)
		}
	}
}

func TestTokenize_CaseSensitiveKeywords(t *testing.T) {
	// Quantum is case-sensitive: "IF" is a plain identifier, not a
	// variant spelling of "if".
	tokens, err := Tokenize("IF")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Type != IDENT {
		t.Errorf("Tokenize(\"IF\")[0].Type = %s, want IDENT", tokens[0].Type)
	}
}

func TestTokenize_Numbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"0x1F", "0x1F"},
		{"0", "0"},
	}
	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q) returned error: %v", tt.input, err)
		}
		if tokens[0].Type != NUMBER || tokens[0].Literal != tt.want {
			t.Errorf("Tokenize(%q)[0] = %s %q, want NUMBER %q", tt.input, tokens[0].Type, tokens[0].Literal, tt.want)
		}
	}
}

func TestTokenize_Strings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`"line\nbreak"`, "line\nbreak"},
		{`"tab\there"`, "tab\there"},
	}
	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q) returned error: %v", tt.input, err)
		}
		if tokens[0].Type != STRING || tokens[0].Literal != tt.want {
			t.Errorf("Tokenize(%q)[0] = %s %q, want STRING %q", tt.input, tokens[0].Type, tokens[0].Literal, tt.want)
		}
	}
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`"never closed`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
}

func TestTokenize_IllegalCharacter(t *testing.T) {
	_, err := Tokenize("x = $")
	if err == nil {
		t.Fatal("expected an error for an unrecognized character")
	}
}

func TestTokenize_Operators(t *testing.T) {
	// "/" is kept away from immediately preceding "//" — a lone "//" not
	// following a value-producing token lexes as a line comment instead
	// of SLASH_SLASH (the same rule that disambiguates comments from
	// floor-division), so this string avoids that adjacency.
	input := "+ - * % ** = += -= *= /= == != < > <= >= -> => ++ -- & | ^ ~ << >> && || ? : , . ... ;"
	tests := []TokenType{
		PLUS, MINUS, STAR, PERCENT, STAR_STAR, ASSIGN,
		PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN, EQ, NOT_EQ,
		LT, GT, LE, GE, ARROW, FAT_ARROW, INC, DEC, AMP, PIPE, CARET, TILDE,
		SHL, SHR, LOGICAL_AND, LOGICAL_OR, QUESTION, COLON, COMMA, DOT,
		DOTDOTDOT, SEMICOLON, EOF,
	}
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	for i, want := range tests {
		if tokens[i].Type != want {
			t.Fatalf("tests[%d] - expected %s, got %s (literal=%q)", i, want, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestTokenize_FloorDivisionAfterValue(t *testing.T) {
	// "//" following a value-producing token (here, the identifier "a")
	// lexes as floor-division, not a comment.
	tokens, err := Tokenize("a // 2")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[1].Type != SLASH_SLASH {
		t.Fatalf("expected SLASH_SLASH after a value-producing token, got %s", tokens[1].Type)
	}
}

func TestTokenize_LineComment(t *testing.T) {
	// "//" not following a value-producing token is a line comment.
	tokens, err := Tokenize("+ // a comment\n1")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Type != PLUS {
		t.Fatalf("expected PLUS, got %s", tokens[0].Type)
	}
	if tokens[1].Type != NEWLINE {
		t.Fatalf("expected NEWLINE (comment skipped), got %s %q", tokens[1].Type, tokens[1].Literal)
	}
	if tokens[2].Type != NUMBER || tokens[2].Literal != "1" {
		t.Fatalf("expected NUMBER 1, got %s %q", tokens[2].Type, tokens[2].Literal)
	}
}

// TestLayoutInvariance checks §8's "layout invariance" property: tokens
// from a brace-delimited program contain no INDENT or DEDENT.
func TestLayoutInvariance(t *testing.T) {
	input := `fn add(a, b) {
	return a + b
}
print(add(2, 3))
`
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	for _, tok := range tokens {
		if tok.Type == INDENT || tok.Type == DEDENT {
			t.Fatalf("brace-delimited program produced a layout token: %s", tok.Type)
		}
	}
}

// TestLayoutConsistency checks §8's "layout consistency" property: an
// indentation-delimited equivalent of a brace program yields the same
// non-layout token kinds.
func TestLayoutConsistency(t *testing.T) {
	braced := `fn add(a, b) {
	return a + b
}
`
	indented := "fn add(a, b):\n\treturn a + b\n"

	bracedTokens, err := Tokenize(braced)
	if err != nil {
		t.Fatalf("Tokenize(braced) returned error: %v", err)
	}
	indentedTokens, err := Tokenize(indented)
	if err != nil {
		t.Fatalf("Tokenize(indented) returned error: %v", err)
	}

	nonLayout := func(tokens []Token) []TokenType {
		var out []TokenType
		for _, tok := range tokens {
			switch tok.Type {
			case INDENT, DEDENT, NEWLINE, LBRACE, RBRACE, COLON:
				continue
			}
			out = append(out, tok.Type)
		}
		return out
	}

	want := nonLayout(bracedTokens)
	got := nonLayout(indentedTokens)
	if len(want) != len(got) {
		t.Fatalf("token kind count differs: braced=%d indented=%d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("tokens[%d]: braced=%s indented=%s", i, want[i], got[i])
		}
	}
}

func TestIndentationProducesLayoutTokens(t *testing.T) {
	input := "if x:\n    y = 1\n"
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	var sawIndent, sawDedent bool
	for _, tok := range tokens {
		if tok.Type == INDENT {
			sawIndent = true
		}
		if tok.Type == DEDENT {
			sawDedent = true
		}
	}
	if !sawIndent || !sawDedent {
		t.Fatalf("expected INDENT and DEDENT, sawIndent=%v sawDedent=%v", sawIndent, sawDedent)
	}
}
