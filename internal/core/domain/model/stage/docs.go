// Package stage is the static catalog of production stages a parcel moves
// through and the legal moves between them.
//
// Transition table:
//
//	Intake ──> Processing ──> FabricWork ──> QualityCheck ──> QualityPassed ──> ReadyToShip ──> Shipped
//	               ^                              │
//	               │                              v
//	               └─────────────────────── ReworkRequired
//
//	any non-terminal stage ──> Cancelled
//
// Shipped and Cancelled are terminal. There are no implicit self loops, and a
// move absent from the table is rejected with an IllegalTransitionError rather
// than coerced into a nearby legal move.
package stage
