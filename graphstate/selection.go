package graphstate

import "github.com/meikuraledutech/graphrel/connect"

// Selection is the pair of nodes the operator has picked for a new
// relationship. The first pick is the source.
type Selection struct {
	first  *string
	second *string
}

// Select records nodeID as the next endpoint. Once both are set, further
// picks replace the second endpoint.
func (s *Selection) Select(nodeID string) {
	id := nodeID
	if s.first == nil {
		s.first = &id
		return
	}
	s.second = &id
}

// Endpoints returns copies of the selected endpoints.
func (s *Selection) Endpoints() connect.Endpoints {
	return connect.Endpoints{First: clone(s.first), Second: clone(s.second)}
}

// Complete reports whether both endpoints are selected.
func (s *Selection) Complete() bool {
	return s.first != nil && s.second != nil
}

// Reset clears both endpoints.
func (s *Selection) Reset() {
	s.first = nil
	s.second = nil
}

func clone(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
