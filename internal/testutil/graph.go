package testutil

import (
	"strings"

	"github.com/roach88/kgraph/internal/graph"
)

// Ids used by Graph.
const (
	SpaceOne = "S1"
	SpaceTwo = "S2"

	PropText  = "P_TEXT"
	PropNum   = "P_NUM"
	PropBool  = "P_BOOL"
	PropPoint = "P_POINT"
	PropTag   = "P_TAG"

	TypeOne   = "T1"
	TypeTwo   = "T2"
	TypeThree = "T3"

	PersonType = "PERSON"
)

// Graph is the canonical test graph.
//
// Space S1 (all values unless noted):
//
//	E1  name Alice (S2: Alicia), text "Hello World", num "42", bool true, point [1.5,-2]
//	E2  name Bob, text "Hello Universe", num "100", bool false
//	E3  name Carol, text "Goodbye World", num "not-a-number"
//	E4  name Dave
//	E5  name Eve, tags "Apple" and "Banana"
//	E6  (S2 only) name Frank, text "Hello Mars"
//	PERSON  name Person; a type declaring P_TEXT and P_NUM
//
// Relations, all in S1:
//
//	R1 E1 -T1-> E2   R2 E2 -T1-> E3   R3 E1 -T2-> E3   R4 E3 -T3-> E1
//	R5 E1 -TYPES-> PERSON   R6 PERSON -TYPES-> SCHEMA_TYPE
//	R7 PERSON -PROPERTIES-> P_TEXT   R8 PERSON -PROPERTIES-> P_NUM
var Graph = strings.NewReplacer(
	"$NAME", graph.NamePropertyID,
	"$DESCRIPTION", graph.DescriptionPropertyID,
	"$TYPES", graph.TypesPropertyID,
	"$PROPERTIES", graph.PropertiesPropertyID,
	"$SCHEMA_TYPE", graph.SchemaTypeID,
).Replace(graphYAML)

const graphYAML = `
spaces:
  - {id: S1, type: Public, dao_address: "0xdao1", space_address: "0xspace1", main_voting_address: "0xvote1"}
  - {id: S2, type: Personal, dao_address: "0xdao2", space_address: "0xspace2", personal_address: "0xadmin2"}
properties:
  - {id: $NAME, type: Text}
  - {id: $DESCRIPTION, type: Text}
  - {id: P_TEXT, type: Text}
  - {id: P_NUM, type: Number}
  - {id: P_BOOL, type: Checkbox}
  - {id: P_POINT, type: Point}
  - {id: P_TAG, type: Text}
entities:
  - id: E1
    created_at: "2024-01-01T00:00:00Z"
    created_at_block: "100"
    values:
      - {id: V01, property: $NAME, space: S1, value: "Alice"}
      - {id: V02, property: $DESCRIPTION, space: S1, value: "First entity"}
      - {id: V03, property: P_TEXT, space: S1, value: "Hello World"}
      - {id: V04, property: P_NUM, space: S1, value: "42"}
      - {id: V05, property: P_BOOL, space: S1, value: "true"}
      - {id: V06, property: P_POINT, space: S1, value: "[1.5,-2]"}
      - {id: V07, property: $NAME, space: S2, value: "Alicia"}
    relations:
      - {id: R1, entity: RE1, type: T1, to: E2, space: S1, position: "a0", verified: true}
      - {id: R3, entity: RE3, type: T2, to: E3, space: S1}
      - {id: R5, entity: RE5, type: $TYPES, to: PERSON, space: S1}
  - id: E2
    values:
      - {id: V11, property: $NAME, space: S1, value: "Bob"}
      - {id: V12, property: P_TEXT, space: S1, value: "Hello Universe"}
      - {id: V13, property: P_NUM, space: S1, value: "100"}
      - {id: V14, property: P_BOOL, space: S1, value: "false"}
    relations:
      - {id: R2, entity: RE2, type: T1, to: E3, space: S1, to_space: S2}
  - id: E3
    values:
      - {id: V21, property: $NAME, space: S1, value: "Carol"}
      - {id: V22, property: P_TEXT, space: S1, value: "Goodbye World"}
      - {id: V23, property: P_NUM, space: S1, value: "not-a-number"}
    relations:
      - {id: R4, entity: RE4, type: T3, to: E1, space: S1}
  - id: E4
    values:
      - {id: V31, property: $NAME, space: S1, value: "Dave"}
  - id: E5
    values:
      - {id: V41, property: $NAME, space: S1, value: "Eve"}
      - {id: V42, property: P_TAG, space: S1, value: "Apple"}
      - {id: V43, property: P_TAG, space: S1, value: "Banana"}
  - id: E6
    values:
      - {id: V51, property: $NAME, space: S2, value: "Frank"}
      - {id: V52, property: P_TEXT, space: S2, value: "Hello Mars"}
  - id: PERSON
    values:
      - {id: V61, property: $NAME, space: S1, value: "Person"}
    relations:
      - {id: R6, entity: RE6, type: $TYPES, to: $SCHEMA_TYPE, space: S1}
      - {id: R7, entity: RE7, type: $PROPERTIES, to: P_TEXT, space: S1}
      - {id: R8, entity: RE8, type: $PROPERTIES, to: P_NUM, space: S1}
members:
  - {address: "0xaaa", space: S1}
  - {address: "0xbbb", space: S1}
  - {address: "0xaaa", space: S2}
`
