package core

// error_messages.go maps pipeline errors to user-facing messages with codes
// for support reference.
//
// # Input Errors (FILE001-FILE099)
//
//	FILE001 - Missing input: the raw CSV was not found in data/raw
//	          Action: Place the file in data/raw or pass a different filename
//	          Match: *MissingInputError
//
//	FILE002 - Invalid CSV: the file could not be parsed
//	          Action: Ensure the file is comma-separated with one header row
//	          Match: *ParseError, "invalid csv"
//
//	FILE005 - Empty file: the file has no header row
//	          Action: Provide a CSV file with a header and data rows
//	          Match: ErrEmptyFile
//
// # Project Errors (DIR001-DIR099)
//
//	DIR001 - Directory creation: a project directory could not be created
//	         Action: Check permissions and that no file occupies the path
//	         Match: *project.DirectoryCreationError
//
// # Request Parameters (REQ001)
//
//	REQ001 - Invalid query parameters Patterns: "bad request"
//
// # Database Errors (DB001-DB099)
//
//	DB004 - Connection refused        Patterns: "connection refused"
//	DB006 - Timeout                   Patterns: "timeout"
//
// # Request Errors (UPL004-UPL005)
//
//	UPL004 - Request cancelled        Patterns: "context canceled"
//	UPL005 - Request timeout          Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Typed errors are matched first with errors.As/errors.Is; the remaining
// patterns are matched case-insensitively with strings.Contains, first match
// wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/featureprep/internal/project"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgMissingInput = UserMessage{
		Message: "Raw input file not found",
		Action:  "Place the CSV file in the data/raw folder or pass a different filename",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure the file is comma-separated with one header row and consistent columns",
		Code:    "FILE002",
	}
	msgEmptyFile = UserMessage{
		Message: "The input file is empty",
		Action:  "Provide a CSV file with a header row and data rows",
		Code:    "FILE005",
	}
	msgDirectory = UserMessage{
		Message: "A project directory could not be created",
		Action:  "Check permissions and make sure no regular file occupies the directory path",
		Code:    "DIR001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively; more specific first.
var errorPatterns = []errorPattern{
	{
		pattern: "invalid csv",
		msg:     msgInvalidCSV,
	},
	{
		pattern: "bad request",
		msg: UserMessage{
			Message: "The request parameters are invalid",
			Action:  "Pass a plain file name from data/raw and a positive row count",
			Code:    "REQ001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DATABASE_URL and try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or raise the server timeout",
			Code:    "UPL005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try again later",
			Code:    "DB006",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the application logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var missing *MissingInputError
	var dirErr *project.DirectoryCreationError
	var parseErr *ParseError
	switch {
	case errors.As(err, &missing):
		return msgMissingInput
	case errors.As(err, &dirErr):
		return msgDirectory
	case errors.Is(err, ErrEmptyFile):
		return msgEmptyFile
	case errors.As(err, &parseErr):
		return msgInvalidCSV
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
