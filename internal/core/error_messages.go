// Package core provides the item configuration logic.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Input Errors (INP001-INP099)
//
//	INP001 - Missing input: A required identifying field was not provided
//	         Action: Enter the item code before generating the DataLoad
//	         Patterns: "missing required input"
//
//	INP002 - Invalid mode: DataLoad mode is not recognised
//	         Action: Use create or update
//	         Patterns: "invalid mode"
//
//	INP003 - Invalid request: Request body could not be read
//	         Action: Check the request fields and try again
//	         Patterns: "invalid request", "validation"
//
//	INP004 - Invalid item code: The item code cannot be used as a file name
//	         Action: Remove path separators and ".." from the item code
//	         Patterns: "invalid item code"
//
// # Part Errors (PRT001-PRT099)
//
//	PRT001 - Unknown part: The part category is not configured
//	         Action: Choose casing, impeller, gasket, shaft or baseplate
//	         Patterns: "unknown part"
//
// # Reference Data Errors (REF001-REF099)
//
//	REF001 - Unsupported asset: A reference data file has an unsupported type
//	         Action: Use .yaml, .json or .csv reference files
//	         Patterns: "unsupported asset type"
//
//	REF002 - Reference unavailable: Material reference data could not be loaded
//	         Action: Check the catalog files or database and try again
//	         Patterns: "reference data unavailable", "no such file"
//
// # Output Errors (OUT001-OUT099)
//
//	OUT001 - Write failed: The DataLoad file could not be written
//	         Action: Check that the output directory is writable
//	         Patterns: "write transport", "create output dir", "rename transport file"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	REQ002 - Request timeout
//	RATE001 - Rate limited
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgMissingInput = UserMessage{
		Message: "A required identifying field was not provided",
		Action:  "Enter the item code before generating the DataLoad",
		Code:    "INP001",
	}
	msgInvalidRequest = UserMessage{
		Message: "The request could not be processed",
		Action:  "Check the request fields and try again",
		Code:    "INP003",
	}
	msgReferenceUnavailable = UserMessage{
		Message: "Material reference data could not be loaded",
		Action:  "Check the catalog files or database and try again",
		Code:    "REF002",
	}
	msgWriteFailed = UserMessage{
		Message: "The DataLoad file could not be written",
		Action:  "Check that the output directory is writable",
		Code:    "OUT001",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: "unsupported asset type" must win over the generic
// "reference data unavailable" it is usually wrapped in.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Input Errors (INP001-INP004)
	// =========================================================================
	{pattern: "missing required input", msg: msgMissingInput},
	{
		pattern: "invalid item code",
		msg: UserMessage{
			Message: "The item code cannot be used as a file name",
			Action:  `Remove path separators and ".." from the item code`,
			Code:    "INP004",
		},
	},
	{
		pattern: "invalid mode",
		msg: UserMessage{
			Message: "DataLoad mode is not recognised",
			Action:  "Use create or update",
			Code:    "INP002",
		},
	},
	{pattern: "invalid request", msg: msgInvalidRequest},
	{pattern: "validation", msg: msgInvalidRequest},

	// =========================================================================
	// Part Errors (PRT001)
	// =========================================================================
	{
		pattern: "unknown part",
		msg: UserMessage{
			Message: "The part category is not configured",
			Action:  "Choose casing, impeller, gasket, shaft or baseplate",
			Code:    "PRT001",
		},
	},

	// =========================================================================
	// Reference Data Errors (REF001-REF002)
	// =========================================================================
	{
		pattern: "unsupported asset type",
		msg: UserMessage{
			Message: "A reference data file has an unsupported type",
			Action:  "Use .yaml, .json or .csv reference files",
			Code:    "REF001",
		},
	},
	{pattern: "reference data unavailable", msg: msgReferenceUnavailable},
	{pattern: "no such file", msg: msgReferenceUnavailable},

	// =========================================================================
	// Output Errors (OUT001)
	// =========================================================================
	{pattern: "write transport", msg: msgWriteFailed},
	{pattern: "create output dir", msg: msgWriteFailed},
	{pattern: "rename transport file", msg: msgWriteFailed},

	// =========================================================================
	// Request Errors (REQ001-REQ002, RATE001)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
