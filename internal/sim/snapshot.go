package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// StateSnapshot is the read-only view of the world handed to external
// collaborators (plan generation and step repair). Slices are sorted so the
// rendering is deterministic.
type StateSnapshot struct {
	Location       RoomID                `json:"location"`
	Holding        ObjectID              `json:"holding,omitempty"`
	VisibleObjects []ObjectID            `json:"visible_objects"`
	RoomInventory  map[RoomID][]ObjectID `json:"room_inventory"`
}

// Describe renders the snapshot as prompt-ready text: the agent's situation
// followed by the full per-room inventory.
func (s StateSnapshot) Describe() string {
	holding := string(s.Holding)
	if holding == "" {
		holding = "nothing"
	}
	visible := "none"
	if len(s.VisibleObjects) > 0 {
		visible = joinIDs(s.VisibleObjects)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "- Location: %s\n", s.Location)
	fmt.Fprintf(&b, "- Holding: %s\n", holding)
	fmt.Fprintf(&b, "- Visible here: %s\n", visible)
	b.WriteString("\nAll Objects:\n")

	rooms := make([]RoomID, 0, len(s.RoomInventory))
	for room := range s.RoomInventory {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })
	for _, room := range rooms {
		objs := s.RoomInventory[room]
		if len(objs) == 0 {
			fmt.Fprintf(&b, "  %s: empty\n", room)
			continue
		}
		fmt.Fprintf(&b, "  %s: %s\n", room, joinIDs(objs))
	}
	return strings.TrimRight(b.String(), "\n")
}

func joinIDs(ids []ObjectID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}

// EncodeState serializes a world state to msgpack, for compact artifact
// storage by the eval harness.
func EncodeState(s *WorldState) ([]byte, error) {
	return msgpack.Marshal(s)
}

// DecodeState is the inverse of EncodeState.
func DecodeState(b []byte) (*WorldState, error) {
	var s WorldState
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode world state: %w", err)
	}
	if s.Objects == nil {
		s.Objects = map[ObjectID]ObjectState{}
	}
	return &s, nil
}
