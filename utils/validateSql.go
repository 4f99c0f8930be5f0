package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"datamilo/database"
)

var (
	ErrNotSelect          = errors.New("statement is not a SELECT")
	ErrMissingFrom        = errors.New("statement has no FROM clause")
	ErrMutatingStatement  = errors.New("statement contains a mutating keyword")
	ErrInvalidReference   = errors.New("statement references a column on the wrong table")
	mutatingKeywordRegexp = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|truncate)\b`)
	selectRegexp          = regexp.MustCompile(`(?i)\bselect\b`)
	fromRegexp            = regexp.MustCompile(`(?i)\bfrom\b`)
)

// CheckSQL returns nil when query is a read-only SELECT that only uses
// qualified names the warehouse actually has.
func CheckSQL(query string) error {
	if !selectRegexp.MatchString(query) {
		return ErrNotSelect
	}
	if !fromRegexp.MatchString(query) {
		return ErrMissingFrom
	}
	if kw := mutatingKeywordRegexp.FindString(query); kw != "" {
		return fmt.Errorf("%w: %s", ErrMutatingStatement, strings.ToUpper(kw))
	}
	lower := strings.ToLower(query)
	for _, ref := range database.InvalidReferences {
		if strings.Contains(lower, ref) {
			return fmt.Errorf("%w: %s", ErrInvalidReference, ref)
		}
	}
	return nil
}

func ValidateSQL(query string) bool {
	return CheckSQL(query) == nil
}

// ContainsMutation reports whether text holds any data-modifying keyword
// as a whole word. Column names such as created_at do not match.
func ContainsMutation(text string) bool {
	return mutatingKeywordRegexp.MatchString(text)
}
