// Package errs provides the typed errors shared by the warehouse domain and its adapters.
//
// Every error type follows the same shape:
//   - a sentinel (ErrObjectNotFound, ErrVersionConflict, ...) usable with errors.Is
//   - a struct carrying the details (parameter name, identifier, versions, bounds)
//   - constructors with and without a cause
//   - Error() for a single-line message and Unwrap() returning the sentinel
//
// The sentinels map one to one onto the failure kinds that station collaborators see:
//   - ObjectNotFoundError: the parcel (or other record) does not exist
//   - ObjectAlreadyExistsError: a tracking code is already registered
//   - VersionConflictError: optimistic-lock contention, reload and retry
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: input validation
package errs
