package services

import (
	"fmt"

	"datamilo/utils"
)

// SanitizeGeneratedSQL extracts the statement from raw model output and
// validates it. The mutation check covers the whole output, so a second
// statement hidden after a semicolon or around a subquery still rejects
// the answer.
func SanitizeGeneratedSQL(generatedText string) (string, error) {
	finalQuery := utils.ExtractSQL(generatedText)
	if finalQuery == "" {
		return "", fmt.Errorf("%w: could not extract a query from the model response", ErrValidationRejected)
	}

	if utils.ContainsMutation(generatedText) {
		return "", fmt.Errorf("%w: %v", ErrValidationRejected, utils.ErrMutatingStatement)
	}
	if err := utils.CheckSQL(finalQuery); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidationRejected, err)
	}
	return finalQuery, nil
}
