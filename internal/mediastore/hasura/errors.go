package hasura

import (
	"errors"
	"fmt"
	"strings"

	"github.com/listenupapp/mediashelf/internal/domain"
)

// Sentinel errors for Hasura transport failures.
var (
	ErrUnauthorized = errors.New("hasura: admin secret rejected")
	ErrServer       = errors.New("hasura: server error")
	ErrBadResponse  = errors.New("hasura: malformed response")
)

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Path string `json:"path"`
		Code string `json:"code"`
	} `json:"extensions"`
}

// GraphQLErrors is the "errors" array of a failed GraphQL response.
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	lines := make([]string, 0, len(e))
	for _, ge := range e {
		lines = append(lines, fmt.Sprintf("%s: %s", ge.Extensions.Path, ge.Message))
	}
	return strings.Join(lines, "\n")
}

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "listTags", "listItems", "insertItem", ...
	Table domain.Table
	Err   error
}

func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("hasura %s [%s]: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("hasura %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op string, table domain.Table, err error) error {
	return &Error{
		Op:    op,
		Table: table,
		Err:   err,
	}
}
