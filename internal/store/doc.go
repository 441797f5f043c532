// Package store provides the SQLite-backed value store the query core reads.
//
// The store holds the entity-attribute-value graph:
//   - entities: identity rows with creation/update provenance
//   - properties: one data type per property id
//   - "values": text payloads scoped by (property, entity, space)
//   - relations: typed, space-scoped edges materialized as entities
//   - spaces and members: graph partitions and their membership
//
// # Connection Pool
//
// A Store is a handle with an explicit lifecycle (Open/Close) around a
// bounded database/sql pool. Callers queue when every connection is busy.
// There is no process-wide default store.
//
// # SQL Functions
//
// Every pooled connection registers two deterministic scalar functions:
//   - regexp(pattern, value): backs the REGEXP operator; NULL values never match
//   - similarity(a, b): trigram similarity in [0, 1], used to rank search results
//
// # Database Configuration
//
// Pragmas are set per connection through the DSN so every pooled
// connection gets them:
//   - journal_mode=WAL: concurrent reads during fixture writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout: wait for locks instead of failing
//   - foreign_keys=ON
//
// # Deterministic Reads
//
// Read helpers never return nil slices; an empty result is an empty slice.
package store
