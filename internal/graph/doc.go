// Package graph defines the entity-attribute-value data model that the
// query core reads: entities, typed properties, text-encoded values, typed
// relations and the spaces that scope them.
//
// The package has two layers:
//
//   - Storage records (Entity, Property, Value, Relation, Space, Member)
//     mirror the persisted tables column for column.
//   - Views (EntityView, RelationView, ...) are what read accessors return.
//     Views rename storage columns to resolver-facing names and carry derived
//     fields such as an entity's name.
//
// Value payloads are always stored as text. The helpers in payload.go define
// the canonical text encodings for checkbox and point payloads and the
// numeric-literal grammar used to coerce number payloads at query time.
package graph
