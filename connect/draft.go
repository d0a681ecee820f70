package connect

import (
	"strconv"
	"strings"

	"github.com/meikuraledutech/graphrel"
)

// Notice texts.
const (
	MsgNameNotSet    = "name is not set"
	MsgRequestFailed = "error: request failed"
)

func statusMessage(code int) string {
	return "error: " + strconv.Itoa(code)
}

// Draft is what the operator typed into the control.
type Draft struct {
	Name        string
	DoubleSided bool
}

// Direction maps the double-sided toggle: unchecked is AWAY, checked is NEUTRAL.
func (d Draft) Direction() graphrel.Direction {
	if d.DoubleSided {
		return graphrel.DirectionNeutral
	}
	return graphrel.DirectionAway
}

// nameSet reports whether the name has anything besides whitespace.
// The name is sent as typed.
func (d Draft) nameSet() bool {
	return strings.TrimSpace(d.Name) != ""
}
