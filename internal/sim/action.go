package sim

import (
	"fmt"
	"strings"
)

// RoomID names one of the four rooms in the home.
type RoomID string

// ObjectID names an interactable object.
type ObjectID string

// StateLabel is an object's symbolic state (e.g. "on", "used", "filled").
type StateLabel string

const (
	RoomKitchen    RoomID = "kitchen"
	RoomBedroom    RoomID = "bedroom"
	RoomBathroom   RoomID = "bathroom"
	RoomLivingRoom RoomID = "living_room"
)

// LocationHeld is the sentinel location of an object the agent is carrying.
const LocationHeld RoomID = "agent"

// Rooms returns the closed room set, in a fixed order.
func Rooms() []RoomID {
	return []RoomID{RoomKitchen, RoomBedroom, RoomBathroom, RoomLivingRoom}
}

// ValidRoom reports whether id is a member of the closed room set.
// The held-object sentinel is not a room.
func ValidRoom(id RoomID) bool {
	switch id {
	case RoomKitchen, RoomBedroom, RoomBathroom, RoomLivingRoom:
		return true
	default:
		return false
	}
}

// ActionKind is the verb of a parsed action. The set is closed: every kind
// has exactly one precondition validator and one effect function.
type ActionKind string

const (
	ActionGoto   ActionKind = "goto"
	ActionPickup ActionKind = "pickup"
	ActionDrop   ActionKind = "drop"
	ActionToggle ActionKind = "toggle"
	ActionUse    ActionKind = "use"
)

// ActionKinds returns all valid kinds in a fixed order.
func ActionKinds() []ActionKind {
	return []ActionKind{ActionGoto, ActionPickup, ActionDrop, ActionToggle, ActionUse}
}

// ParsedAction is a validated (verb, argument) pair ready for precondition
// checking. The argument is a RoomID for goto and an ObjectID otherwise.
// The simulator never re-parses text; producing ParsedActions from natural
// language is the translator's job.
type ParsedAction struct {
	Verb ActionKind
	Arg  string
}

func (a ParsedAction) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", a.Verb, a.Arg))
}

// Room returns the argument as a RoomID (meaningful for goto only).
func (a ParsedAction) Room() RoomID { return RoomID(a.Arg) }

// Object returns the argument as an ObjectID.
func (a ParsedAction) Object() ObjectID { return ObjectID(a.Arg) }
