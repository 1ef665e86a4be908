package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrCallLogNotFound is returned when a call log is not found
	ErrCallLogNotFound = errors.New("call log not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrProfileNotFound is returned when an employee profile is not found
	ErrProfileNotFound = errors.New("employee profile not found")

	// ErrSipAccountNotFound is returned when a SIP account is not found
	ErrSipAccountNotFound = errors.New("sip account not found")

	// ErrNoCallDestination is returned when the employee has neither an active
	// SIP account nor a profile phone number. Checked before any record or
	// provider call is made.
	ErrNoCallDestination = errors.New("no call destination configured for employee")

	// ErrEmptyMessageBody is returned when an outbound message body is empty
	// after trimming whitespace. Checked before any side effect.
	ErrEmptyMessageBody = errors.New("message body is empty")

	// ErrNoRecording is returned when a call log has no recording to archive
	ErrNoRecording = errors.New("call has no recording")

	// ErrLegacyImportDisabled is returned when the legacy CRM import is not configured
	ErrLegacyImportDisabled = errors.New("legacy import is not enabled")
)

// GatewayError wraps a telephony provider failure. The originating log row is
// already persisted with status failed when this is returned.
type GatewayError struct {
	Operation string // "place_call" or "send_message"
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("telephony gateway %s failed: %v", e.Operation, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
