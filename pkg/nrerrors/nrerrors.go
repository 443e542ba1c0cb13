// Copyright (c) 2024 SAP SE or an SAP affiliate company. All rights reserved. This file is licensed under the Apache Software License, v. 2 except as noted otherwise in the LICENSE file
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package nrerrors defines the error kinds used throughout the seed-master
// core: ConfigurationError, LogicError, UniquenessError and
// InvalidInputError. All four carry the EngineId(s) involved so callers
// never have to parse a message to find out which engine failed.
package nrerrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can branch on it with errors.As
// instead of string matching.
type Kind int

const (
	// Configuration marks a bad policy configuration: unknown policy name,
	// missing required key, out-of-range numeric, range check violation,
	// or an unresolvable override target.
	Configuration Kind = iota
	// Logic marks a misuse of the registration/lifecycle protocol.
	Logic
	// Uniqueness marks a collision produced by a policy claiming uniqueness.
	Uniqueness
	// InvalidInput marks an event-dependent policy invoked with data it
	// cannot use (e.g. isTimeValid == false).
	InvalidInput
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "ConfigurationError"
	case Logic:
		return "LogicError"
	case Uniqueness:
		return "UniquenessError"
	case InvalidInput:
		return "InvalidInputError"
	default:
		return "UnknownError"
	}
}

// Error is the common error type for all four kinds. EngineID/OtherEngineID
// are rendered via fmt.Stringer (satisfied by engineid.ID) rather than
// importing pkg/engineid directly, so this package stays leaf-level and
// free of cycles.
type Error struct {
	Kind          Kind
	EngineID      fmt.Stringer
	OtherEngineID fmt.Stringer // set only for Uniqueness errors
	Msg           string
}

func (e *Error) Error() string {
	if e.Kind == Uniqueness && e.OtherEngineID != nil {
		return fmt.Sprintf("%s: engine %q collides with engine %q: %s", e.Kind, e.EngineID, e.OtherEngineID, e.Msg)
	}
	if e.EngineID != nil {
		return fmt.Sprintf("%s: engine %q: %s", e.Kind, e.EngineID, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is allows errors.Is(err, nrerrors.ErrConfiguration) and friends to work
// without exposing Kind field comparisons at call sites.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.EngineID != nil || t.OtherEngineID != nil || t.Msg != "" {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values for errors.Is comparisons against a bare kind, e.g.
// errors.Is(err, nrerrors.ErrLogic).
var (
	ErrConfiguration = &Error{Kind: Configuration}
	ErrLogic         = &Error{Kind: Logic}
	ErrUniqueness    = &Error{Kind: Uniqueness}
	ErrInvalidInput  = &Error{Kind: InvalidInput}
)

// Configurationf builds a ConfigurationError naming id (which may be nil).
func Configurationf(id fmt.Stringer, format string, args ...any) error {
	return &Error{Kind: Configuration, EngineID: id, Msg: fmt.Sprintf(format, args...)}
}

// Logicf builds a LogicError naming id (which may be nil).
func Logicf(id fmt.Stringer, format string, args ...any) error {
	return &Error{Kind: Logic, EngineID: id, Msg: fmt.Sprintf(format, args...)}
}

// Uniquenessf builds a UniquenessError naming both colliding engines.
func Uniquenessf(id, other fmt.Stringer, format string, args ...any) error {
	return &Error{Kind: Uniqueness, EngineID: id, OtherEngineID: other, Msg: fmt.Sprintf(format, args...)}
}

// InvalidInputf builds an InvalidInputError naming id (which may be nil).
func InvalidInputf(id fmt.Stringer, format string, args ...any) error {
	return &Error{Kind: InvalidInput, EngineID: id, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
