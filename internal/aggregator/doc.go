// Package aggregator fans out to the dashboard's data sources and merges
// their results into a single snapshot.
//
// The three upstream calls (messages, tasks, events) are independent and
// run concurrently, each bounded by an explicit per-call timeout. A
// failed call marks its section unavailable inside the snapshot instead
// of aborting the whole aggregation: partial dashboards are preferred
// over total failure.
//
// Sources are interfaces with two implementations each: a live one
// calling the real Google API and a mock one serving demo data. The
// aggregator is agnostic to which is wired in.
package aggregator
