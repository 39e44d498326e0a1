package agent

import (
	"errors"
	"fmt"
	"strings"
)

// MaxQuestionLength bounds the accepted user question size.
const MaxQuestionLength = 1000

var (
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrQuestionTooLong = fmt.Errorf("question exceeds %d characters", MaxQuestionLength)
	ErrInvalidQuestion = errors.New("question contains invalid characters")
)

// ValidateQuestion normalizes and checks a user question before it is sent
// to the model.
func ValidateQuestion(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", ErrEmptyQuestion
	}
	if len(q) > MaxQuestionLength {
		return "", ErrQuestionTooLong
	}
	if strings.ContainsRune(q, '\x00') {
		return "", ErrInvalidQuestion
	}
	return q, nil
}
