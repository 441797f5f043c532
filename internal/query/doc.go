// Package query executes compiled filter conditions against the value store
// and projects rows into view records.
//
// An Executor wraps a *store.Store. Every method compiles its statement with
// querysql, runs it with the caller's context, and either returns the full
// result or fails with a *StorageError; partial results are never returned.
//
// Pagination follows Page: Limit and Offset default to DefaultLimit and 0,
// a Limit of 0 returns an empty result, a negative Limit is unbounded and a
// negative Offset is an *InputError raised before the store is touched.
//
// Single-item lookups return (nil, nil) when nothing matches. List methods
// return an empty, non-nil slice.
package query
