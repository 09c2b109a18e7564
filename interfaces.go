/*
 * interfaces.go, part of goFF.
 *
 * Copyright 2026 Raul Mera A.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package chem

import (
	"errors"
	"fmt"
	"strings"
)

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice in the Topology. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

// Masser can  return a slice with the masses of each atom in the reference.
type Masser interface {

	//Returns a slice with the massess of all atoms
	Masses() ([]float64, error)
}

//Errors

// The kinds of failure of the library. Every error returned by goFF packages unwraps
// to one of these, so they can be tested with errors.Is.
var (
	// A force-field definition is malformed, or a requested parameter handler
	// category is not present in it.
	ErrConfiguration = errors.New("configuration error")

	// A topology term (atom, bond, angle, torsion) was not matched by any parameter.
	ErrParameterization = errors.New("parameterization error")

	// The caller broke a precondition: malformed input lengths, queries on a context
	// with no positions, undefined stereochemistry...
	ErrPrecondition = errors.New("precondition error")

	// The chemistry/simulation runtime itself failed while serving a call.
	ErrRuntimeDelegation = errors.New("runtime delegation error")

	// The capability is part of the API surface but not implemented by this runtime.
	ErrUnsupported = errors.New("unsupported operation")
)

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it should just return the current value, not add the empty string to the slice.
}

// CError is the error type of the chem package, and the one most other packages
// use for their own failures.
type CError struct {
	msg  string
	kind error
	err  error
	deco []string
}

// NewError returns a CError of the given kind. kind should be one of the Err* values
// of this package (or nil).
func NewError(kind error, caller, format string, a ...any) *CError {
	return &CError{msg: fmt.Sprintf(format, a...), kind: kind, deco: []string{caller}}
}

// WrapError returns a CError of the given kind with err as its cause.
func WrapError(kind error, err error, caller, format string, a ...any) *CError {
	e := NewError(kind, caller, format, a...)
	e.err = err
	return e
}

func (err *CError) Error() string {
	var b strings.Builder
	if err.kind != nil {
		b.WriteString(err.kind.Error())
		b.WriteString(": ")
	}
	b.WriteString(err.msg)
	if err.err != nil {
		b.WriteString(": ")
		b.WriteString(err.err.Error())
	}
	return b.String()
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Unwrap gives both the kind and the cause of the error, if present.
func (err *CError) Unwrap() []error {
	ret := make([]error, 0, 2)
	if err.kind != nil {
		ret = append(ret, err.kind)
	}
	if err.err != nil {
		ret = append(ret, err.err)
	}
	return ret
}

// Kind returns the first of the library error kinds that err unwraps to, or nil.
func Kind(err error) error {
	for _, k := range []error{ErrConfiguration, ErrParameterization, ErrPrecondition, ErrRuntimeDelegation, ErrUnsupported} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// ErrDecorate decorates err with the caller's name if it implements Error, and
// returns it unchanged otherwise.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var err2 Error
	if errors.As(err, &err2) {
		err2.Decorate(caller)
	}
	return err
}
