// Package history models the stage history of a parcel as a sequence of
// intervals. Each interval records one visit of a parcel to one stage: who
// brought it there, when it entered, when it left and how long it dwelt.
//
// Key business rules:
//   - A parcel has exactly one open interval (no exit time) at any moment,
//     and it belongs to the parcel's current stage
//   - Closing an interval fixes its exit time and duration; a closed interval
//     never changes again
//   - Durations are never negative; station clocks that run backwards produce
//     a zero duration and a clamped marker instead
package history
