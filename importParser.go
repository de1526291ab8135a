package main

// SpecifierKind discriminates the closed set of import specifier
// variants. Every branch over specifiers switches exhaustively on it.
type SpecifierKind uint8

const (
	DefaultSpecifier   SpecifierKind = iota // import X from "m"
	NamedSpecifier                          // import { a, b as c } from "m"
	NamespaceSpecifier                      // import * as ns from "m"
)

// ImportSpecifier is one binding introduced by an import declaration.
// Imported is "default" for default specifiers and "*" for namespace
// specifiers; Local is always the bound identifier.
type ImportSpecifier struct {
	Kind     SpecifierKind
	Imported string
	Local    string
}

// ImportDeclaration is one static `import ... from "..."` statement
// with byte offsets into the original file content. SpecListStart/End
// delimit the specifier list (zero for side-effect imports), StmtEnd
// points right after the closing quote and an optional semicolon.
type ImportDeclaration struct {
	Source        string
	Specifiers    []ImportSpecifier
	StmtStart     int
	StmtEnd       int
	SpecListStart int
	SpecListEnd   int
	SourceStart   int
	SourceEnd     int
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isIdentByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_' || b == '$'
}

func wordAt(code []byte, i int, word string) bool {
	if i < 0 || i+len(word) > len(code) {
		return false
	}
	for j := 0; j < len(word); j++ {
		if code[i+j] != word[j] {
			return false
		}
	}
	end := i + len(word)
	return end >= len(code) || !isIdentByte(code[end])
}

func skipLineCommentAt(code []byte, i int) int {
	i += 2
	for i < len(code) && code[i] != '\n' {
		i++
	}
	return i
}

func skipBlockCommentAt(code []byte, i int) int {
	i += 2
	for i+1 < len(code) && !(code[i] == '*' && code[i+1] == '/') {
		i++
	}
	if i+1 < len(code) {
		i += 2
	}
	return i
}

// skipTrivia advances past whitespace and comments.
func skipTrivia(code []byte, i int) int {
	n := len(code)
	for i < n {
		if isSpaceByte(code[i]) {
			i++
			continue
		}
		if i+1 < n && code[i] == '/' && code[i+1] == '/' {
			i = skipLineCommentAt(code, i)
			continue
		}
		if i+1 < n && code[i] == '/' && code[i+1] == '*' {
			i = skipBlockCommentAt(code, i)
			continue
		}
		break
	}
	return i
}

// skipStringAt advances past a string or template literal starting at i.
// Returns the position after the closing quote.
func skipStringAt(code []byte, i int) int {
	quote := code[i]
	i++
	for i < len(code) {
		if code[i] == '\\' && i+1 < len(code) {
			i += 2
			continue
		}
		if code[i] == quote {
			return i + 1
		}
		i++
	}
	return i
}

// scanIdent reads an identifier at i. Empty name means no identifier.
func scanIdent(code []byte, i int) (name string, next int, end int) {
	start := i
	for i < len(code) && isIdentByte(code[i]) {
		i++
	}
	return string(code[start:i]), i, i
}

// scanStringLiteral reads a '…' or "…" literal at i, returning its
// contents and the content offsets. ok is false on an unterminated literal.
func scanStringLiteral(code []byte, i int) (value string, next int, start int, end int, ok bool) {
	quote := code[i]
	i++
	start = i
	for i < len(code) && code[i] != quote {
		i++
	}
	if i >= len(code) {
		return "", i, 0, 0, false
	}
	return string(code[start:i]), i + 1, start, i, true
}

// consumeSemicolon skips spaces and tabs, then a `;` when present.
func consumeSemicolon(code []byte, i int) int {
	j := i
	for j < len(code) && (code[j] == ' ' || code[j] == '\t') {
		j++
	}
	if j < len(code) && code[j] == ';' {
		return j + 1
	}
	return i
}

// ParseImportDeclarations extracts every static import declaration from
// JS/TS source. Dynamic `import(...)`, `export ... from` re-exports and
// whole-statement `import type` declarations are not import
// declarations for the transform and are skipped. Malformed statements
// are skipped rather than reported; the transform leaves them alone.
func ParseImportDeclarations(code []byte) []ImportDeclaration {
	var declarations []ImportDeclaration
	n := len(code)
	i := 0

	for i < n {
		switch code[i] {
		case '\'', '"', '`':
			i = skipStringAt(code, i)
		case '/':
			if i+1 < n && code[i+1] == '/' {
				i = skipLineCommentAt(code, i)
			} else if i+1 < n && code[i+1] == '*' {
				i = skipBlockCommentAt(code, i)
			} else {
				i++
			}
		case 'i':
			boundaryOK := i == 0 || (!isIdentByte(code[i-1]) && code[i-1] != '.')
			if boundaryOK && wordAt(code, i, "import") {
				if decl, next, ok := parseImportDeclarationAt(code, i); ok {
					declarations = append(declarations, decl)
					i = next
				} else {
					i = next
				}
				continue
			}
			i++
		default:
			i++
		}
	}

	return declarations
}

// parseImportDeclarationAt parses one statement starting at the
// `import` keyword. ok is false when nothing should be recorded; next
// is always a safe resume position.
func parseImportDeclarationAt(code []byte, start int) (decl ImportDeclaration, next int, ok bool) {
	n := len(code)
	i := start + len("import")
	i = skipTrivia(code, i)
	if i >= n {
		return ImportDeclaration{}, i, false
	}

	// Dynamic import expression, not a declaration.
	if code[i] == '(' || code[i] == '.' {
		return ImportDeclaration{}, i, false
	}

	// Side-effect import: `import "m"`.
	if code[i] == '\'' || code[i] == '"' {
		source, after, srcStart, srcEnd, strOK := scanStringLiteral(code, i)
		if !strOK || source == "" {
			return ImportDeclaration{}, after, false
		}
		return ImportDeclaration{
			Source:      source,
			StmtStart:   start,
			StmtEnd:     consumeSemicolon(code, after),
			SourceStart: srcStart,
			SourceEnd:   srcEnd,
		}, consumeSemicolon(code, after), true
	}

	// Whole-statement type import vanishes at runtime; skip the
	// statement entirely. `import type from "m"` still binds a default
	// named `type`, so only treat `type` as the modifier when an
	// identifier, brace or star follows.
	if wordAt(code, i, "type") {
		j := skipTrivia(code, i+len("type"))
		if j < n && (isIdentByte(code[j]) || code[j] == '{' || code[j] == '*') && !wordAt(code, j, "from") {
			return ImportDeclaration{}, skipPastImportSource(code, j), false
		}
	}

	specListStart := i
	var specifiers []ImportSpecifier
	specListEnd := i

	switch {
	case code[i] == '*':
		spec, after, nsOK := parseNamespaceSpecifier(code, i)
		if !nsOK {
			return ImportDeclaration{}, after, false
		}
		specifiers = append(specifiers, spec)
		specListEnd = after
		i = after

	case code[i] == '{':
		specs, after, namedOK := parseNamedSpecifiers(code, i)
		if !namedOK {
			return ImportDeclaration{}, after, false
		}
		specifiers = append(specifiers, specs...)
		specListEnd = after
		i = after

	default:
		local, after, identEnd := scanIdent(code, i)
		if local == "" {
			return ImportDeclaration{}, i + 1, false
		}
		specifiers = append(specifiers, ImportSpecifier{Kind: DefaultSpecifier, Imported: "default", Local: local})
		specListEnd = identEnd
		i = skipTrivia(code, after)

		// Mixed form: `Default, { a }` or `Default, * as ns`.
		if i < n && code[i] == ',' {
			i = skipTrivia(code, i+1)
			if i < n && code[i] == '{' {
				specs, after, namedOK := parseNamedSpecifiers(code, i)
				if !namedOK {
					return ImportDeclaration{}, after, false
				}
				specifiers = append(specifiers, specs...)
				specListEnd = after
				i = after
			} else if i < n && code[i] == '*' {
				spec, after, nsOK := parseNamespaceSpecifier(code, i)
				if !nsOK {
					return ImportDeclaration{}, after, false
				}
				specifiers = append(specifiers, spec)
				specListEnd = after
				i = after
			} else {
				return ImportDeclaration{}, i, false
			}
		}
	}

	i = skipTrivia(code, i)
	if !wordAt(code, i, "from") {
		return ImportDeclaration{}, i, false
	}
	i = skipTrivia(code, i+len("from"))
	if i >= n || (code[i] != '\'' && code[i] != '"') {
		return ImportDeclaration{}, i, false
	}

	source, after, srcStart, srcEnd, strOK := scanStringLiteral(code, i)
	if !strOK || source == "" {
		return ImportDeclaration{}, after, false
	}

	stmtEnd := consumeSemicolon(code, after)
	return ImportDeclaration{
		Source:        source,
		Specifiers:    specifiers,
		StmtStart:     start,
		StmtEnd:       stmtEnd,
		SpecListStart: specListStart,
		SpecListEnd:   specListEnd,
		SourceStart:   srcStart,
		SourceEnd:     srcEnd,
	}, stmtEnd, true
}

// parseNamespaceSpecifier parses `* as Name` with code[i] == '*'.
func parseNamespaceSpecifier(code []byte, i int) (ImportSpecifier, int, bool) {
	i = skipTrivia(code, i+1)
	if !wordAt(code, i, "as") {
		return ImportSpecifier{}, i, false
	}
	i = skipTrivia(code, i+len("as"))
	local, after, _ := scanIdent(code, i)
	if local == "" {
		return ImportSpecifier{}, after, false
	}
	return ImportSpecifier{Kind: NamespaceSpecifier, Imported: "*", Local: local}, after, true
}

// parseNamedSpecifiers parses `{ a, b as c, "str" as d, type T }` with
// code[i] == '{'. Inline type entries are dropped; they do not exist at
// runtime. Returns the position right after the closing brace.
func parseNamedSpecifiers(code []byte, i int) ([]ImportSpecifier, int, bool) {
	n := len(code)
	var specs []ImportSpecifier
	i++ // past '{'

	for i < n {
		i = skipTrivia(code, i)
		if i >= n {
			return nil, i, false
		}
		if code[i] == '}' {
			return specs, i + 1, true
		}

		isTypeEntry := false
		if wordAt(code, i, "type") {
			j := skipTrivia(code, i+len("type"))
			// `type` followed by a name is the inline modifier; a bare
			// `type` (or `type as X`) is an identifier named "type".
			if j < n && (isIdentByte(code[j]) || code[j] == '"' || code[j] == '\'') && !wordAt(code, j, "as") {
				isTypeEntry = true
				i = j
			}
		}

		var imported string
		if code[i] == '"' || code[i] == '\'' {
			value, after, _, _, strOK := scanStringLiteral(code, i)
			if !strOK {
				return nil, after, false
			}
			imported = value
			i = after
		} else {
			name, after, _ := scanIdent(code, i)
			if name == "" {
				return nil, i, false
			}
			imported = name
			i = after
		}

		local := imported
		i = skipTrivia(code, i)
		if wordAt(code, i, "as") {
			i = skipTrivia(code, i+len("as"))
			alias, after, _ := scanIdent(code, i)
			if alias == "" {
				return nil, after, false
			}
			local = alias
			i = after
		}

		if !isTypeEntry {
			specs = append(specs, ImportSpecifier{Kind: NamedSpecifier, Imported: imported, Local: local})
		}

		i = skipTrivia(code, i)
		if i < n && code[i] == ',' {
			i++
		}
	}

	return nil, i, false
}

// skipPastImportSource advances past the rest of an import statement
// that is being ignored, stopping after its source string (or at the
// end of the line for malformed input).
func skipPastImportSource(code []byte, i int) int {
	n := len(code)
	for i < n {
		if code[i] == '\'' || code[i] == '"' {
			return skipStringAt(code, i)
		}
		if code[i] == '\n' || code[i] == ';' {
			return i
		}
		if i+1 < n && code[i] == '/' && code[i+1] == '/' {
			i = skipLineCommentAt(code, i)
			continue
		}
		if i+1 < n && code[i] == '/' && code[i+1] == '*' {
			i = skipBlockCommentAt(code, i)
			continue
		}
		i++
	}
	return i
}
