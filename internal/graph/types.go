package graph

// DataType is the declared type of a property.
type DataType string

const (
	DataTypeText     DataType = "Text"
	DataTypeNumber   DataType = "Number"
	DataTypeCheckbox DataType = "Checkbox"
	DataTypeTime     DataType = "Time"
	DataTypePoint    DataType = "Point"
	DataTypeRelation DataType = "Relation"
)

// DataTypes lists every valid DataType in declaration order.
var DataTypes = []DataType{
	DataTypeText,
	DataTypeNumber,
	DataTypeCheckbox,
	DataTypeTime,
	DataTypePoint,
	DataTypeRelation,
}

// Valid reports whether t is one of the known data types.
func (t DataType) Valid() bool {
	for _, dt := range DataTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// SpaceType distinguishes single-owner spaces from governed ones.
type SpaceType string

const (
	SpaceTypePersonal SpaceType = "Personal"
	SpaceTypePublic   SpaceType = "Public"
)

// Valid reports whether t is a known space type.
func (t SpaceType) Valid() bool {
	return t == SpaceTypePersonal || t == SpaceTypePublic
}

// Entity is an identity row with creation and update provenance.
// Timestamps and block markers are opaque strings written by ingestion.
type Entity struct {
	ID             string
	CreatedAt      string
	CreatedAtBlock string
	UpdatedAt      string
	UpdatedAtBlock string
}

// Property declares the data type of an attribute.
type Property struct {
	ID   string
	Type DataType
}

// Value is a single (property, entity, space)-scoped fact.
// Value is nil when the payload column is NULL.
type Value struct {
	ID         string
	PropertyID string
	EntityID   string
	SpaceID    string
	Value      *string
	Language   *string
	Unit       *string
}

// Relation is a typed, space-scoped directed edge. EntityID is the entity
// that materializes the relation itself.
type Relation struct {
	ID            string
	EntityID      string
	TypeID        string
	FromEntityID  string
	FromSpaceID   *string
	FromVersionID *string
	ToEntityID    string
	ToSpaceID     *string
	ToVersionID   *string
	Position      *string
	SpaceID       string
	Verified      *bool
}

// Space is a partition of the graph with opaque governance addresses.
type Space struct {
	ID                string
	Type              SpaceType
	DAOAddress        string
	SpaceAddress      string
	MainVotingAddress *string
	MembershipAddress *string
	PersonalAddress   *string
}

// Member records that an address belongs to a space.
type Member struct {
	Address string
	SpaceID string
}

// EntityView is an entity as returned by read accessors.
// Name and Description are best-effort lookups and nil when absent.
type EntityView struct {
	ID             string  `json:"id"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	CreatedAtBlock string  `json:"createdAtBlock"`
	UpdatedAt      string  `json:"updatedAt"`
	UpdatedAtBlock string  `json:"updatedAtBlock"`
}

// RankedEntityView is an EntityView with the search rank that ordered it.
type RankedEntityView struct {
	EntityView
	Rank float64 `json:"rank"`
}

// RelationView is a relation with resolver-facing field names.
type RelationView struct {
	ID          string  `json:"id"`
	EntityID    string  `json:"entityId"`
	TypeID      string  `json:"typeId"`
	FromID      string  `json:"fromId"`
	FromSpaceID *string `json:"fromSpaceId,omitempty"`
	ToID        string  `json:"toId"`
	ToSpaceID   *string `json:"toSpaceId,omitempty"`
	SpaceID     string  `json:"spaceId"`
	Position    *string `json:"position,omitempty"`
	Verified    *bool   `json:"verified,omitempty"`
}

// ValueView is a value with resolver-facing field names.
type ValueView struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"propertyId"`
	EntityID   string  `json:"entityId"`
	SpaceID    string  `json:"spaceId"`
	Value      *string `json:"value"`
	Language   *string `json:"language,omitempty"`
	Unit       *string `json:"unit,omitempty"`
}

// PropertyView is a property with its data type and best-effort name.
type PropertyView struct {
	ID       string   `json:"id"`
	DataType DataType `json:"dataType"`
	Name     *string  `json:"name,omitempty"`
}

// SpaceView is a space as returned by read accessors.
type SpaceView struct {
	ID                string    `json:"id"`
	Type              SpaceType `json:"type"`
	DAOAddress        string    `json:"daoAddress"`
	SpaceAddress      string    `json:"spaceAddress"`
	MainVotingAddress *string   `json:"mainVotingAddress,omitempty"`
	MembershipAddress *string   `json:"membershipAddress,omitempty"`
	PersonalAddress   *string   `json:"personalAddress,omitempty"`
}

// MemberView is a membership fact.
type MemberView struct {
	Address string `json:"address"`
	SpaceID string `json:"spaceId"`
}
