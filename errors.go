/*
Copyright © 2024 the Spatial authors.
This file is part of Spatial.

Spatial is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Spatial is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Spatial.  If not, see <http://www.gnu.org/licenses/>.
*/

package spatial

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFinished is returned when the constructed shape of a builder
	// is requested while a shape is still being assembled.
	ErrNotFinished = errors.New("spatial: invalid state: the shape is not finished")

	// ErrNoShape is returned when the constructed shape of a builder is
	// requested before any shape has been built.
	ErrNoShape = errors.New("spatial: no shape has been constructed")

	// ErrAlreadyChained is returned by ChainTo when the segment already
	// has a downstream stage.
	ErrAlreadyChained = errors.New("spatial: forwarding segment is already chained")

	// ErrNoOperations is returned by shape operations when the shape was
	// built without a SpatialOperations implementation.
	ErrNoOperations = errors.New("spatial: no spatial operations are registered")
)

// ErrorKind classifies a ValidationError.
type ErrorKind int

// These are the kinds of validation failure.
const (
	UnexpectedCall ErrorKind = iota + 1
	NestingOverflow
	CoordinateSystemMismatch
	InvalidType
	InvalidPointCoordinate
	InvalidLatitude
	InvalidLongitude
	InvalidPolygonPoints
	InvalidLineStringPoints
	InvalidFullGlobe
)

var errorKindNames = map[ErrorKind]string{
	UnexpectedCall:           "unexpected call",
	NestingOverflow:          "nesting overflow",
	CoordinateSystemMismatch: "coordinate system mismatch",
	InvalidType:              "invalid type",
	InvalidPointCoordinate:   "invalid point coordinate",
	InvalidLatitude:          "invalid latitude",
	InvalidLongitude:         "invalid longitude",
	InvalidPolygonPoints:     "invalid polygon points",
	InvalidLineStringPoints:  "invalid line string points",
	InvalidFullGlobe:         "invalid full globe",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// validationMessages is the message catalogue for validation failures.
// The formatting arguments of each entry are documented by the helper that
// creates errors of that kind.
var validationMessages = map[ErrorKind]string{
	UnexpectedCall:           "unexpected call: expected %s, got %s",
	NestingOverflow:          "nesting overflow: shapes may be nested at most %d levels deep",
	CoordinateSystemMismatch: "coordinate system mismatch: %s does not match %s",
	InvalidType:              "invalid type: %s is not allowed %s",
	InvalidPointCoordinate:   "invalid point coordinate: %s (%s) is %v",
	InvalidLatitude:          "invalid latitude: %v is outside of [-90, 90]",
	InvalidLongitude:         "invalid longitude: %v is outside of [%v, %v]",
	InvalidPolygonPoints:     "invalid polygon points: a ring needs at least 4 positions and must be closed, got %d positions",
	InvalidLineStringPoints:  "invalid line string points: a line string needs at least 2 positions, got %d",
	InvalidFullGlobe:         "invalid full globe: %s",
}

// ValidationError reports a call sequence that violates the pipeline
// grammar or carries an invalid value.
type ValidationError struct {
	Kind ErrorKind

	// Expected and Actual name the expected and attempted calls of an
	// UnexpectedCall error.
	Expected, Actual string

	msg string
}

func newValidationError(kind ErrorKind, args ...interface{}) *ValidationError {
	return &ValidationError{
		Kind: kind,
		msg:  fmt.Sprintf(validationMessages[kind], args...),
	}
}

func unexpectedCall(expected, actual string) *ValidationError {
	err := newValidationError(UnexpectedCall, expected, actual)
	err.Expected = expected
	err.Actual = actual
	return err
}

func (e *ValidationError) Error() string {
	return "spatial: " + e.msg
}

// Is reports whether target is a *ValidationError of the same kind, so that
// errors.Is(err, &ValidationError{Kind: InvalidType}) matches any invalid
// type error.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ParseError is returned by format readers when their input is malformed.
// It is distinct from ValidationError, which reports problems with the call
// sequence a reader produced.
type ParseError struct {
	// Format is the name of the format being read, e.g. "wkt".
	Format string
	// Msg is a message from the reader's catalogue.
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

// NewParseError returns a parse error for the named format. The message is
// built from msgFormat and args.
func NewParseError(format string, cause error, msgFormat string, args ...interface{}) *ParseError {
	return &ParseError{
		Format: format,
		Msg:    fmt.Sprintf(msgFormat, args...),
		Err:    cause,
	}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Format, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ArgumentError is returned when a required argument is nil.
type ArgumentError struct {
	Name string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("spatial: argument %s must not be nil", e.Name)
}

// RegistrationError is returned when an implementation is registered into
// an occupied registry slot.
type RegistrationError struct {
	Slot string
	// Existing is the type of the implementation occupying the slot.
	Existing string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("spatial: registry slot %q is already occupied by %s; clear it before registering", e.Slot, e.Existing)
}
