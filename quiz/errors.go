package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")

	ErrNoAnswers              = errors.New("question has no answers")
	ErrNoCorrectAnswer        = errors.New("question has no correct answer")
	ErrMultipleCorrectAnswers = errors.New("question has more than one correct answer")
	ErrNoAnswersInserted      = errors.New("no answers were inserted")
)

// Issue is a single field-scoped problem found in a submission.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every issue found in a submission. It is user-correctable
// and is meant to be rendered back next to the offending inputs.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Fields returns the distinct invalid field names in the order they were reported.
func (err *ValidationError) Fields() []string {
	if err == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(err.Issues))
	fields := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		if _, ok := seen[issue.Field]; ok {
			continue
		}
		seen[issue.Field] = struct{}{}
		fields = append(fields, issue.Field)
	}
	return fields
}

// Messages returns the issue messages in report order.
func (err *ValidationError) Messages() []string {
	if err == nil {
		return nil
	}
	messages := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// PersistenceError wraps a failed store call. It is fatal for the current request.
type PersistenceError struct {
	Op  string
	Err error
}

func (err *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", err.Op, err.Err)
}

func (err *PersistenceError) Unwrap() error {
	return err.Err
}

// AnomalyError reports stored or about-to-be-stored data that breaks a quiz invariant,
// such as a question without exactly one correct answer.
type AnomalyError struct {
	QuestionID int
	Err        error
}

func (err *AnomalyError) Error() string {
	if err.QuestionID == 0 {
		return fmt.Sprintf("data integrity: %v", err.Err)
	}
	return fmt.Sprintf("data integrity: question %d: %v", err.QuestionID, err.Err)
}

func (err *AnomalyError) Unwrap() error {
	return err.Err
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}
