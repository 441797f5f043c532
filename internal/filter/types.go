package filter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Filter is one node of an entity filter tree. Every populated field is
// ANDed with the others.
type Filter struct {
	AND          []*Filter       `json:"AND,omitempty"`
	OR           []*Filter       `json:"OR,omitempty"`
	NOT          *Filter         `json:"NOT,omitempty"`
	ID           *IDFilter       `json:"id,omitempty"`
	Value        *PropertyFilter `json:"value,omitempty"`
	FromRelation *RelationFilter `json:"fromRelation,omitempty"`
	ToRelation   *RelationFilter `json:"toRelation,omitempty"`
}

// IDFilter restricts entity ids. A nil In is unconstrained; a non-nil empty
// In matches nothing.
type IDFilter struct {
	In []string `json:"in"`
}

// IDs returns an IDFilter matching exactly ids. IDs() matches nothing.
func IDs(ids ...string) *IDFilter {
	return &IDFilter{In: append([]string{}, ids...)}
}

// PropertyFilter requires a value of Property satisfying Predicate.
// A nil Predicate only requires that some value of Property exists.
type PropertyFilter struct {
	Property  string
	Predicate Predicate
}

// propertyFilterJSON is the wire form of PropertyFilter: at most one
// predicate kind is populated.
type propertyFilterJSON struct {
	Property string             `json:"property"`
	Text     *TextPredicate     `json:"text,omitempty"`
	Number   *NumberPredicate   `json:"number,omitempty"`
	Checkbox *CheckboxPredicate `json:"checkbox,omitempty"`
	Point    *PointPredicate    `json:"point,omitempty"`
}

// UnmarshalJSON decodes the wire form, rejecting more than one predicate kind.
func (p *PropertyFilter) UnmarshalJSON(data []byte) error {
	var raw propertyFilterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var kinds []string
	var pred Predicate
	if raw.Text != nil {
		kinds = append(kinds, "text")
		pred = *raw.Text
	}
	if raw.Number != nil {
		kinds = append(kinds, "number")
		pred = *raw.Number
	}
	if raw.Checkbox != nil {
		kinds = append(kinds, "checkbox")
		pred = *raw.Checkbox
	}
	if raw.Point != nil {
		kinds = append(kinds, "point")
		pred = *raw.Point
	}
	if len(kinds) > 1 {
		return fmt.Errorf("value filter on %q sets %s; at most one predicate kind is allowed",
			raw.Property, strings.Join(kinds, " and "))
	}

	*p = PropertyFilter{Property: raw.Property, Predicate: pred}
	return nil
}

// MarshalJSON encodes the wire form.
func (p PropertyFilter) MarshalJSON() ([]byte, error) {
	raw := propertyFilterJSON{Property: p.Property}
	switch pred := p.Predicate.(type) {
	case TextPredicate:
		raw.Text = &pred
	case NumberPredicate:
		raw.Number = &pred
	case CheckboxPredicate:
		raw.Checkbox = &pred
	case PointPredicate:
		raw.Point = &pred
	}
	return json.Marshal(raw)
}

// RelationFilter constrains relation rows by equality on each populated field.
type RelationFilter struct {
	TypeID       *string `json:"typeId,omitempty"`
	FromEntityID *string `json:"fromEntityId,omitempty"`
	ToEntityID   *string `json:"toEntityId,omitempty"`
	SpaceID      *string `json:"spaceId,omitempty"`
}

// Parse decodes a JSON filter tree. Empty input is a nil (unconstrained) filter.
func Parse(data []byte) (*Filter, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var f Filter
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	return &f, nil
}

// ParseRelationFilter decodes a JSON relation filter. Empty input is the
// zero filter.
func ParseRelationFilter(data []byte) (RelationFilter, error) {
	var rf RelationFilter
	if len(strings.TrimSpace(string(data))) == 0 {
		return rf, nil
	}
	if err := json.Unmarshal(data, &rf); err != nil {
		return RelationFilter{}, fmt.Errorf("parse relation filter: %w", err)
	}
	return rf, nil
}
