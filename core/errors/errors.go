// Package errors provides standardized error types and helpers for the stephanos codebase.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyExtraction indicates a document or range yielded no renderable text
	ErrEmptyExtraction = errors.New("empty extraction")
	// ErrUnsupported indicates an unsupported operation or style
	ErrUnsupported = errors.New("unsupported")
	// ErrInternal indicates an internal system error
	ErrInternal = errors.New("internal error")
)

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "work", "author", "corpus")
	ID       string // Identifier of the resource
	Hint     string // Optional suggestion shown to the user
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found", e.Resource)
	if e.ID != "" {
		msg = fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// RangeSyntaxError reports a citation range selector that violates the
// selector grammar. Token carries the offending selector element.
type RangeSyntaxError struct {
	Selector string // Full selector string as given by the caller
	Token    string // Offending token within the selector
	Reason   string // What rule the token violates
	Err      error  // Underlying error, if any
}

func (e *RangeSyntaxError) Error() string {
	if e.Token != "" && e.Token != e.Selector {
		return fmt.Sprintf("invalid range %q: bad token %q: %s", e.Selector, e.Token, e.Reason)
	}
	return fmt.Sprintf("invalid range %q: %s", e.Selector, e.Reason)
}

func (e *RangeSyntaxError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// EmptyExtractionError reports a document or range that produced no
// renderable segments.
type EmptyExtractionError struct {
	Source string // Document path, work ID, or work:range identity
	Detail string // Why nothing was extracted
	Err    error  // Underlying error, if any
}

func (e *EmptyExtractionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("empty extraction from %s: %s", e.Source, e.Detail)
	}
	return fmt.Sprintf("empty extraction from %s", e.Source)
}

func (e *EmptyExtractionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrEmptyExtraction
}

// StyleEligibilityError reports a style that is valid in general but not
// applicable to the given document or operation.
type StyleEligibilityError struct {
	Style       string // Style identifier (e.g., "S", "stephanus_layout")
	Requirement string // What the document or operation lacks
	Err         error  // Underlying error, if any
}

func (e *StyleEligibilityError) Error() string {
	return fmt.Sprintf("style %s not eligible: requires %s", e.Style, e.Requirement)
}

func (e *StyleEligibilityError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// UnknownStyleError reports a style selector that matches no known style.
type UnknownStyleError struct {
	Name  string   // Selector as given by the caller
	Valid []string // All accepted selectors
}

func (e *UnknownStyleError) Error() string {
	if len(e.Valid) > 0 {
		return fmt.Sprintf("unknown style %q (valid: %s)", e.Name, strings.Join(e.Valid, ", "))
	}
	return fmt.Sprintf("unknown style %q", e.Name)
}

func (e *UnknownStyleError) Unwrap() error {
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "TEI", "CTS", "YAML")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewRangeSyntax creates a RangeSyntaxError
func NewRangeSyntax(selector, token, reason string) *RangeSyntaxError {
	return &RangeSyntaxError{
		Selector: selector,
		Token:    token,
		Reason:   reason,
	}
}

// NewEmptyExtraction creates an EmptyExtractionError
func NewEmptyExtraction(source, detail string) *EmptyExtractionError {
	return &EmptyExtractionError{
		Source: source,
		Detail: detail,
	}
}

// NewStyleEligibility creates a StyleEligibilityError
func NewStyleEligibility(style, requirement string) *StyleEligibilityError {
	return &StyleEligibilityError{
		Style:       style,
		Requirement: requirement,
	}
}

// NewUnknownStyle creates an UnknownStyleError
func NewUnknownStyle(name string, valid []string) *UnknownStyleError {
	return &UnknownStyleError{
		Name:  name,
		Valid: valid,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
