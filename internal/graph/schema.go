package graph

// Persisted table names. Column names follow the layout in the store's
// schema.sql and are referenced directly by the query compilers.
const (
	TableEntities   = "entities"
	TableProperties = "properties"
	TableValues     = "values"
	TableRelations  = "relations"
	TableSpaces     = "spaces"
	TableMembers    = "members"
)
