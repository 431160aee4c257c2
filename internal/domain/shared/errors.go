package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Invalid argument errors. These are caller bugs and are never used to report
// that no work, path or resource is available.

type InvalidArgumentError struct {
	*DomainError
}

func NewInvalidArgumentError(message string) *InvalidArgumentError {
	return &InvalidArgumentError{DomainError: NewDomainError(message)}
}

// InvalidJobError is returned when a job type is not accepted by an operation
type InvalidJobError struct {
	*InvalidArgumentError
	Job       string
	Operation string
}

func NewInvalidJobError(operation, job string) *InvalidJobError {
	return &InvalidJobError{
		InvalidArgumentError: NewInvalidArgumentError(fmt.Sprintf("%s: invalid job type %q", operation, job)),
		Job:                  job,
		Operation:            operation,
	}
}

// UnknownNodeError is returned when a node is not part of the graph it is looked up in
type UnknownNodeError struct {
	*InvalidArgumentError
	NodeID     int
	GraphIndex int
}

func NewUnknownNodeError(nodeID, graphIndex int) *UnknownNodeError {
	return &UnknownNodeError{
		InvalidArgumentError: NewInvalidArgumentError(fmt.Sprintf("node %d not found in graph %d", nodeID, graphIndex)),
		NodeID:               nodeID,
		GraphIndex:           graphIndex,
	}
}

// UnknownPlatformError is returned when a platform was never registered with a distribution manager
type UnknownPlatformError struct {
	*InvalidArgumentError
	PlatformID int
}

func NewUnknownPlatformError(platformID int) *UnknownPlatformError {
	return &UnknownPlatformError{
		InvalidArgumentError: NewInvalidArgumentError(fmt.Sprintf("platform %d is not registered", platformID)),
		PlatformID:           platformID,
	}
}

// UnknownGraphError is returned when no graph is registered under an index
type UnknownGraphError struct {
	*InvalidArgumentError
	GraphIndex int
}

func NewUnknownGraphError(graphIndex int) *UnknownGraphError {
	return &UnknownGraphError{
		InvalidArgumentError: NewInvalidArgumentError(fmt.Sprintf("graph %d not found", graphIndex)),
		GraphIndex:           graphIndex,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsInvalidArgument reports whether err is (or wraps) an invalid argument error
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	if errors.As(err, &target) {
		return true
	}
	var jobErr *InvalidJobError
	if errors.As(err, &jobErr) {
		return true
	}
	var nodeErr *UnknownNodeError
	if errors.As(err, &nodeErr) {
		return true
	}
	var platformErr *UnknownPlatformError
	if errors.As(err, &platformErr) {
		return true
	}
	var graphErr *UnknownGraphError
	return errors.As(err, &graphErr)
}
