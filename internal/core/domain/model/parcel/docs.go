// Package parcel provides the Parcel aggregate: one physical shipment unit
// moving through the production stages of the warehouse.
//
// The package includes:
//   - Parcel: identity (tracking code), order and customer references, item count,
//     priority, current stage and the optimistic-concurrency version counter
//   - Priority: the closed set of handling priorities assigned at intake
//
// Key business rules:
//   - A parcel is created once at intake, in stage Intake with version 1
//   - The current stage is always a member of the stage catalog
//   - Every successful transition increases the version by exactly one
//   - A transition is only applied when the caller's expected version matches
//   - Parcels are never deleted; cancellation is the terminal stage Cancelled
package parcel
