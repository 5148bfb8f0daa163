// Package habits provides local persistence for habit definitions and
// daily check-ins.
//
// The store is intentionally independent of any Google API; it exists so
// the presentation layer can place habit state next to the aggregated
// Google data for the same day range. The single domain invariant is
// that a check-in can never be dated after today.
package habits
