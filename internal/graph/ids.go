package graph

// Well-known system entity ids. Every knowledge graph served by this module
// shares these ids for its schema vocabulary.
const (
	// NamePropertyID is the Text property holding an entity's display name.
	NamePropertyID = "a126ca53-0c8e-48d5-b888-82c734c38935"

	// DescriptionPropertyID is the Text property holding an entity's description.
	DescriptionPropertyID = "9b1f76ff-9711-404c-861e-59dc3fa7d037"

	// TypesPropertyID is the relation type linking an entity to its types.
	TypesPropertyID = "8f151ba4-de20-4e3c-9cb4-99ddf96f48f1"

	// PropertiesPropertyID is the relation type linking a type to its properties.
	PropertiesPropertyID = "01412f83-8189-4ab1-8365-65c7fd358cc1"

	// SchemaTypeID is the type every type entity is an instance of.
	SchemaTypeID = "e7d737c5-3676-4c60-9fa1-6aa64a8c5f18"
)
