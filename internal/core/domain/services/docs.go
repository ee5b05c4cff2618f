// Package services provides the domain services that keep the parcel ledger,
// the stage history and the quality records consistent with each other.
//
// The package includes:
//   - Ledger: registration, lookup and versioned transitions of parcels
//   - HistoryLog: opening and closing stage intervals, reading the history
//   - QualityInspector: recording failed checks and resolving them after rework
//
// Services are bound to repositories of one unit of work, so everything a
// service writes shares the caller's transaction. They never commit.
package services
