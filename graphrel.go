package graphrel

import (
	"encoding/json"
	"errors"
	"time"
)

// Direction describes which way a relationship points.
type Direction string

const (
	// DirectionAway points from the source node to the target node.
	DirectionAway Direction = "AWAY"
	// DirectionTowards points from the target node back to the source node.
	DirectionTowards Direction = "TOWARDS"
	// DirectionNeutral is bidirectional.
	DirectionNeutral Direction = "NEUTRAL"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	switch d {
	case DirectionAway, DirectionTowards, DirectionNeutral:
		return true
	default:
		return false
	}
}

func (d Direction) String() string {
	return string(d)
}

// Node is an entity in the graph.
type Node struct {
	ID    string          `json:"id,omitempty"`
	Label string          `json:"label"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Relationship is a named link between two nodes as stored by the graph store.
type Relationship struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FromID    string    `json:"fromId"`
	ToID      string    `json:"toId"`
	Direction Direction `json:"direction"`
	CreatedAt time.Time `json:"createdAt,omitzero"`

	// Raw is the store's response body when the relationship was decoded
	// from one, including fields the typed view does not carry.
	Raw json.RawMessage `json:"-"`
}

// ErrMalformedRelationship is returned by DecodeRelationship for a body
// that is not JSON.
var ErrMalformedRelationship = errors.New("graphrel: relationship body is not JSON")

// createdAtLayouts are tried in order for a string createdAt.
var createdAtLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// DecodeRelationship reads a relationship from a store response body.
// Fields of an unexpected type are left zero rather than failing the decode:
// a numeric id becomes its decimal text, a numeric createdAt is taken as Unix
// seconds (milliseconds when it is that large). Only a body that is not JSON
// is an error.
func DecodeRelationship(body []byte) (Relationship, error) {
	if !json.Valid(body) {
		return Relationship{}, ErrMalformedRelationship
	}
	rel := Relationship{Raw: append(json.RawMessage(nil), body...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		// Valid JSON, but not an object.
		return rel, nil
	}
	rel.ID = scalarText(fields["id"])
	rel.Name = scalarText(fields["name"])
	rel.FromID = scalarText(fields["fromId"])
	rel.ToID = scalarText(fields["toId"])
	rel.Direction = Direction(scalarText(fields["direction"]))
	rel.CreatedAt = looseTime(fields["createdAt"])
	return rel, nil
}

func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func looseTime(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range createdAtLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return time.Time{}
	}
	v, err := n.Int64()
	if err != nil {
		return time.Time{}
	}
	if v >= 1e12 {
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}

// CreateRelRequest is the body of a POST /createRel call.
type CreateRelRequest struct {
	Name      string    `json:"name"`
	ToID      string    `json:"toId"`
	FromID    string    `json:"fromId"`
	Direction Direction `json:"direction"`
}

// Validate checks the request fields without consulting the store.
func (r *CreateRelRequest) Validate() error {
	switch {
	case r.Name == "":
		return invalid("name is empty")
	case r.FromID == "" || r.ToID == "":
		return invalid("both fromId and toId are required")
	case !r.Direction.IsValid():
		return invalid("unknown direction " + string(r.Direction))
	}
	return nil
}
