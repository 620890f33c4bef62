// Package quickadd parses one-line task entries of the form
//
//	read chapter 4 @Physics !high ^2026-03-10T20:00 +notes on the lab report
//
// into the fields of a new task. It powers both the `add` command and the
// TUI quick-add box.
package quickadd

import (
	"fmt"
	"strings"
	"time"

	"github.com/hqpham/studyflow/internal/model"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeEmptyTitle      ErrorCode = "empty_title"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
)

type ParseError struct {
	Code    ErrorCode
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Input is a parsed quick-add entry.
type Input struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    model.Priority
	Subject     string
}

// Parse splits the entry into title and markers. Markers may appear in any
// order; the description marker (+) consumes the rest of the line.
func Parse(raw string) (Input, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Input{}, &ParseError{Code: ErrCodeEmptyInput, Message: "entry is empty"}
	}

	in := Input{Priority: model.PriorityMedium}
	var titleParts []string

	tokens := strings.Fields(raw)
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		switch {
		case strings.HasPrefix(token, "@") && len(token) > 1:
			in.Subject = token[1:]

		case strings.HasPrefix(token, "!") && len(token) > 1:
			priority, err := model.ParsePriority(token[1:])
			if err != nil {
				return Input{}, &ParseError{
					Code:    ErrCodeInvalidArgument,
					Message: fmt.Sprintf("unknown priority %q (use low, medium, or high)", token[1:]),
				}
			}
			in.Priority = priority

		case strings.HasPrefix(token, "^") && len(token) > 1:
			due, ok := model.ParseTime(token[1:])
			if !ok {
				return Input{}, &ParseError{
					Code:    ErrCodeInvalidArgument,
					Message: fmt.Sprintf("unparseable due date %q", token[1:]),
				}
			}
			in.DueDate = &due

		case strings.HasPrefix(token, "+"):
			rest := append([]string{strings.TrimPrefix(token, "+")}, tokens[i+1:]...)
			in.Description = strings.TrimSpace(strings.Join(rest, " "))
			i = len(tokens)

		default:
			titleParts = append(titleParts, token)
		}
	}

	in.Title = strings.Join(titleParts, " ")
	if in.Title == "" {
		return Input{}, &ParseError{Code: ErrCodeEmptyTitle, Message: "entry has markers but no title"}
	}
	return in, nil
}
