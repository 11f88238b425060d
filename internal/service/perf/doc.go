// Package perf hosts opt-in benchmarks for contention service calls.
//
// The benchmarks sit behind build tags (`perf`, `perf_large`) so they stay
// out of default test runs; this untagged file keeps the package visible to
// editors and `go list`.
package perf
