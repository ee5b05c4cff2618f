// Package kernel provides the value objects shared by every warehouse aggregate.
//
// The package includes:
//   - UUID: surrogate identifier for stage intervals, quality issues and audit records
//   - TrackingCode: the immutable, scanner-readable identity of a parcel
//   - OperatorID: the opaque, already-authenticated identity of a station operator
//
// All values are immutable. Their zero values are invalid and fail Validate, so a
// value that skipped its constructor is caught at the first aggregate boundary.
package kernel
