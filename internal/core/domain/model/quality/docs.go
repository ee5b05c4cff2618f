// Package quality records the defects found at quality check.
//
// A failed check (QualityCheck -> ReworkRequired) records an unresolved Issue.
// Finishing rework (ReworkRequired -> Processing) resolves the most recent
// unresolved issue of the parcel. Several unresolved issues may coexist when a
// parcel fails more than once before an issue is resolved.
package quality
