package sim

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// AgentState is the agent's half of the world: where it stands and what it
// carries. Holding is empty when the hands are free.
type AgentState struct {
	Location RoomID   `json:"location" yaml:"location" msgpack:"location"`
	Holding  ObjectID `json:"holding,omitempty" yaml:"holding,omitempty" msgpack:"holding"`
}

// ObjectState is one object's location and symbolic state. Location is
// either a room or LocationHeld, never both and never anything else.
type ObjectState struct {
	Location RoomID     `json:"location" yaml:"location" msgpack:"location"`
	State    StateLabel `json:"state" yaml:"state" msgpack:"state"`
}

// WorldState is the sole mutable entity in the simulation.
//
// Invariants (checked by Validate):
//   - agent.Location is a valid room.
//   - agent.Holding == x iff Objects[x].Location == LocationHeld, for at
//     most one x.
//   - every object location is a valid room or LocationHeld.
type WorldState struct {
	Agent   AgentState              `json:"agent" yaml:"agent" msgpack:"agent"`
	Objects map[ObjectID]ObjectState `json:"objects" yaml:"objects" msgpack:"objects"`
}

// Clone returns a structurally independent deep copy. The clone and the
// receiver share no mutable structure.
func (s *WorldState) Clone() *WorldState {
	out := &WorldState{
		Agent:   s.Agent,
		Objects: make(map[ObjectID]ObjectState, len(s.Objects)),
	}
	for id, obj := range s.Objects {
		out.Objects[id] = obj
	}
	return out
}

// Validate checks the structural invariants above.
func (s *WorldState) Validate() error {
	if !ValidRoom(s.Agent.Location) {
		return fmt.Errorf("agent location %q is not a valid room", s.Agent.Location)
	}
	var held []ObjectID
	for id, obj := range s.Objects {
		if obj.Location == LocationHeld {
			held = append(held, id)
			continue
		}
		if !ValidRoom(obj.Location) {
			return fmt.Errorf("object %q location %q is not a valid room", id, obj.Location)
		}
	}
	sort.Slice(held, func(i, j int) bool { return held[i] < held[j] })
	switch {
	case len(held) > 1:
		return fmt.Errorf("more than one object held: %v", held)
	case len(held) == 1 && s.Agent.Holding != held[0]:
		return fmt.Errorf("object %q is held but agent.holding is %q", held[0], s.Agent.Holding)
	case len(held) == 0 && s.Agent.Holding != "":
		return fmt.Errorf("agent.holding is %q but no object has the held location", s.Agent.Holding)
	}
	return nil
}

// HasObject reports whether id is part of this world's object vocabulary.
func (s *WorldState) HasObject(id ObjectID) bool {
	_, ok := s.Objects[id]
	return ok
}

// VisibleObjects returns the objects in the agent's current room, sorted.
// Held objects are not visible.
func (s *WorldState) VisibleObjects() []ObjectID {
	var out []ObjectID
	for id, obj := range s.Objects {
		if obj.Location == s.Agent.Location {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RoomInventory maps every room to its objects, sorted per room. Held
// objects appear in no room.
func (s *WorldState) RoomInventory() map[RoomID][]ObjectID {
	out := make(map[RoomID][]ObjectID, 4)
	for _, room := range Rooms() {
		out[room] = nil
	}
	for id, obj := range s.Objects {
		if obj.Location == LocationHeld {
			continue
		}
		out[obj.Location] = append(out[obj.Location], id)
	}
	for room := range out {
		ids := out[room]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out[room] = ids
	}
	return out
}

// Digest returns a hex blake3 digest over the canonical JSON encoding.
// Identical states produce identical digests, so tests and the eval harness
// can compare states byte-for-byte without retaining copies.
func (s *WorldState) Digest() string {
	// encoding/json writes map keys in sorted order, which makes the
	// encoding canonical.
	b, err := json.Marshal(s)
	if err != nil {
		// WorldState contains only strings and maps; this cannot fail.
		panic(fmt.Sprintf("worldstate digest: %v", err))
	}
	sum := blake3.Sum256(b)
	return fmt.Sprintf("%x", sum)
}

// Describe renders a short human-readable summary of the agent's situation,
// suitable for prompt context.
func (s *WorldState) Describe() string {
	holding := string(s.Agent.Holding)
	if holding == "" {
		holding = "nothing"
	}
	visible := "none"
	if objs := s.VisibleObjects(); len(objs) > 0 {
		names := make([]string, len(objs))
		for i, id := range objs {
			names[i] = string(id)
		}
		visible = strings.Join(names, ", ")
	}
	return fmt.Sprintf("Current location: %s\nVisible objects: [%s]\nHolding: %s",
		s.Agent.Location, visible, holding)
}
