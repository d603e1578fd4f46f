// Package params resolves the numeric and boolean parameters consumed by
// the constraint builders.
//
// A parameter either comes from a time series registered for the tech, or
// from the static, location-scoped option store. Static values are resolved
// once per (tech, location) into a typed Tech record and memoized, so the
// many constraint rules sharing a record never repeat string-keyed lookups.
package params
