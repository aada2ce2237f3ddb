// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error kinds raised by the taxonomy subsystem.
// The HTTP layer maps them to status codes; everything else treats them as
// ordinary errors and may wrap them with fmt.Errorf("%w").
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the API layer.
type Kind int

const (
	// KindUnknown is any error that is not one of ours.
	KindUnknown Kind = iota
	// KindValidation is bad input: duplicate slug, self-parenting, malformed name.
	KindValidation
	// KindNotFound is a referenced id or slug that does not resolve.
	KindNotFound
	// KindConflict is an operation that would violate a structural invariant,
	// e.g. deleting a non-empty category without cascade.
	KindConflict
)

// Error carries a kind alongside the message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validationf returns a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf returns a not-found error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf returns a conflict error with a formatted message.
func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf unwraps err and returns its kind, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is (or wraps) a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsConflict reports whether err is (or wraps) a conflict error.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
