package migrate

import "strings"

// SplitStatements splits a migration script into executable statements on
// semicolons. Semicolons inside quoted strings, quoted identifiers, or line
// comments do not split. Pieces containing only whitespace and comments are
// dropped. Returns nil for a script with no statements.
func SplitStatements(script string) []string {
	var stmts []string
	var b strings.Builder
	var quote byte // 0 = outside any quoted region

	flush := func() {
		stmt := strings.TrimSpace(b.String())
		b.Reset()
		if hasExecutableContent(stmt) {
			stmts = append(stmts, stmt)
		}
	}

	n := len(script)
	for i := 0; i < n; {
		c := script[i]
		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == quote {
				// doubled quote stays inside the literal
				if i+1 < n && script[i+1] == quote {
					b.WriteByte(script[i+1])
					i++
				} else {
					quote = 0
				}
			}
			i++
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)
			i++
		case c == '-' && i+1 < n && script[i+1] == '-':
			// line comment runs to end of line
			j := strings.IndexByte(script[i:], '\n')
			if j < 0 {
				b.WriteString(script[i:])
				i = n
			} else {
				b.WriteString(script[i : i+j+1])
				i += j + 1
			}
		case c == ';':
			flush()
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	flush()

	return stmts
}

// hasExecutableContent reports whether s contains anything besides
// whitespace and line comments.
func hasExecutableContent(s string) bool {
	for i := 0; i < len(s); {
		c := s[i]
		if c == '-' && i+1 < len(s) && s[i+1] == '-' {
			j := strings.IndexByte(s[i:], '\n')
			if j < 0 {
				return false
			}
			i += j + 1
			continue
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return true
		}
		i++
	}
	return false
}

// GuardedAddColumn is a parsed ALTER TABLE ... ADD COLUMN IF NOT EXISTS
// statement. On dialects without native guard support the engine checks
// column existence itself and executes Stripped.
type GuardedAddColumn struct {
	Table    string // table name, unquoted
	Column   string // column name, unquoted
	Stripped string // the statement with the IF NOT EXISTS guard removed
}

// ParseGuardedAddColumn recognizes a guarded add-column statement. Keywords
// match case-insensitively, identifiers may be bare, double-quoted, or
// backtick-quoted, and the COLUMN keyword is optional as in PostgreSQL.
// Any other statement returns ok false.
func ParseGuardedAddColumn(stmt string) (*GuardedAddColumn, bool) {
	toks := scanTokens(stmt)
	i := 0
	next := func() (sqlToken, bool) {
		if i >= len(toks) {
			return sqlToken{}, false
		}
		t := toks[i]
		i++
		return t, true
	}

	expectKeyword := func(word string) bool {
		t, ok := next()
		return ok && strings.EqualFold(t.text, word)
	}

	if !expectKeyword("ALTER") || !expectKeyword("TABLE") {
		return nil, false
	}
	tableTok, ok := next()
	if !ok {
		return nil, false
	}
	if !expectKeyword("ADD") {
		return nil, false
	}
	// COLUMN is optional
	if i < len(toks) && strings.EqualFold(toks[i].text, "COLUMN") {
		i++
	}

	guardStart := i
	if !expectKeyword("IF") || !expectKeyword("NOT") || !expectKeyword("EXISTS") {
		return nil, false
	}
	colTok, ok := next()
	if !ok {
		return nil, false
	}

	stripped := strings.TrimRight(stmt[:toks[guardStart].start], " \t\r\n") +
		" " + strings.TrimLeft(stmt[toks[guardStart+2].end:], " \t\r\n")

	return &GuardedAddColumn{
		Table:    unquoteIdent(tableTok.text),
		Column:   unquoteIdent(colTok.text),
		Stripped: stripped,
	}, true
}

type sqlToken struct {
	text  string
	start int
	end   int
}

// scanTokens splits a statement into whitespace-separated tokens, keeping
// quoted identifiers intact.
func scanTokens(s string) []sqlToken {
	var toks []sqlToken
	n := len(s)
	for i := 0; i < n; {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		start := i
		if c == '"' || c == '`' {
			i++
			for i < n {
				if s[i] == c {
					if i+1 < n && s[i+1] == c {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
		} else {
			for i < n {
				c := s[i]
				if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '"' || c == '`' {
					break
				}
				i++
			}
		}
		toks = append(toks, sqlToken{text: s[start:i], start: start, end: i})
	}
	return toks
}

// unquoteIdent removes surrounding double quotes or backticks from an
// identifier and undoubles any escaped quote characters inside.
func unquoteIdent(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '`') && s[len(s)-1] == s[0] {
		q := string(s[0])
		inner := s[1 : len(s)-1]
		return strings.ReplaceAll(inner, q+q, q)
	}
	return s
}

// destructivePairs are statement-leading keyword pairs that destroy schema
// or data. Used by lint to flag scripts that are not purely additive.
var destructivePairs = [][2]string{
	{"DROP", "TABLE"},
	{"DROP", "INDEX"},
	{"TRUNCATE", ""},
	{"DELETE", "FROM"},
}

// IsDestructive reports whether a statement drops schema objects or deletes
// data, including ALTER TABLE ... DROP COLUMN.
func IsDestructive(stmt string) bool {
	toks := scanTokens(stmt)
	if len(toks) == 0 {
		return false
	}

	for _, pair := range destructivePairs {
		if strings.EqualFold(toks[0].text, pair[0]) {
			if pair[1] == "" || (len(toks) > 1 && strings.EqualFold(toks[1].text, pair[1])) {
				return true
			}
		}
	}

	// ALTER TABLE ... DROP [COLUMN] ...
	if len(toks) >= 4 && strings.EqualFold(toks[0].text, "ALTER") && strings.EqualFold(toks[1].text, "TABLE") {
		for _, t := range toks[2:] {
			if strings.EqualFold(t.text, "DROP") {
				return true
			}
		}
	}

	return false
}
