package migrate

import "fmt"

// Problem is one lint finding against a migration script.
type Problem struct {
	Name    string // migration name, or filename when the name is invalid
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Name, p.Message)
}

// Lint checks a script set for the mistakes that bite at deploy time:
// ordering violations and statements that destroy schema or data. Scripts
// are expected purely additive; anything that drops, truncates, or deletes
// is flagged.
func Lint(scripts []Script) []Problem {
	var problems []Problem

	if err := ValidateScripts(scripts); err != nil {
		problems = append(problems, Problem{Name: "(set)", Message: err.Error()})
	}

	for _, sc := range scripts {
		stmts := SplitStatements(sc.SQL)
		if len(stmts) == 0 {
			problems = append(problems, Problem{Name: sc.Name, Message: "script contains no statements"})
			continue
		}
		for _, stmt := range stmts {
			if IsDestructive(stmt) {
				problems = append(problems, Problem{
					Name:    sc.Name,
					Message: fmt.Sprintf("destructive statement: %s", firstLine(stmt)),
				})
			}
		}
	}

	return problems
}

func firstLine(stmt string) string {
	for i := 0; i < len(stmt); i++ {
		if stmt[i] == '\n' {
			return stmt[:i] + " ..."
		}
	}
	return stmt
}
