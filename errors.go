/*
 * errors.go, part of godem.
 *
 *
 * Copyright 2024 The godem developers
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation, either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public
 * License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package odem

// CError (Concrete Error) is the concrete type implementing the Error
// interface in this package. Other packages of the library define their
// own, with additional information where it makes sense (see TrajError).
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

//Decorate adds the dec string to the decoration slice of strings of the
//error, and returns the resulting slice. An empty dec is not added.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate asserts that err implements Error, decorates it with the
//caller's name and returns it. Used with any other error type, it panics.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

// PanicMsg is the type of the messages thrown by panicking functions on
// programming errors. It satisfies the error interface, but for regular,
// recoverable errors use CError.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }
