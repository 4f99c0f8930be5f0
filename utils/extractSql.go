package utils

import (
	"regexp"
	"strings"
)

var (
	codeFenceRegexp  = regexp.MustCompile("(?i)```(sql)?")
	statementLine    = regexp.MustCompile(`(?im)^[ \t]*(?:SELECT\b|WITH\s+\w+\s+AS\s*\()`)
	statementStart   = regexp.MustCompile(`(?i)\bSELECT\b|\bWITH\s+\w+\s+AS\s*\(`)
	whitespaceRegexp = regexp.MustCompile(`\s+`)
)

// ExtractSQL pulls the first statement out of free-form model output. It
// drops markdown fences and any preamble, starts at the first line opening
// with SELECT or a common table expression (or, failing that, the first such
// keyword anywhere) and stops at the first semicolon. Returns "" when no
// statement is found.
func ExtractSQL(text string) string {
	text = codeFenceRegexp.ReplaceAllString(text, " ")

	loc := statementLine.FindStringIndex(text)
	if loc == nil {
		loc = statementStart.FindStringIndex(text)
	}
	if loc == nil {
		return ""
	}
	stmt := text[loc[0]:]
	if i := strings.Index(stmt, ";"); i >= 0 {
		stmt = stmt[:i]
	}
	stmt = strings.Trim(strings.TrimSpace(stmt), "`\"'")
	return whitespaceRegexp.ReplaceAllString(stmt, " ")
}
