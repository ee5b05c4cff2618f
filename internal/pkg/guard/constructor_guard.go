// Package guard marks values that were built by their constructor so that
// zero-value commands, queries and entities can be rejected at use sites.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be created through a
// constructor. Its zero value reports "not constructed".
//
// Example:
//
//	var ErrTransitionCommandIsNotConstructed = errors.New("must be created via NewRequestTransitionCommand")
//
//	type RequestTransitionCommand struct {
//	    trackingCode kernel.TrackingCode
//	    guard        guard.ConstructorGuard
//	}
//
//	func (c RequestTransitionCommand) Validate() error {
//	    return c.guard.Validate(ErrTransitionCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that reports the owning value as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
