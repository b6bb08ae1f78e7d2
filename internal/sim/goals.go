package sim

import (
	"fmt"
	"sort"
)

// Predicate is a pure boolean function over WorldState used to judge task
// completion.
type Predicate func(*WorldState) bool

// GoalRegistry maps predicate names to predicates. The set is closed at
// initialization and extended by registration, not subclassing.
type GoalRegistry struct {
	preds map[string]Predicate
}

// NewGoalRegistry returns an empty registry.
func NewGoalRegistry() *GoalRegistry {
	return &GoalRegistry{preds: map[string]Predicate{}}
}

// Register adds a named predicate. Re-registering a name replaces it.
func (r *GoalRegistry) Register(name string, p Predicate) error {
	if name == "" {
		return &ConfigError{Msg: "goal predicate name is empty"}
	}
	if p == nil {
		return &ConfigError{Msg: fmt.Sprintf("goal predicate %q is nil", name)}
	}
	r.preds[name] = p
	return nil
}

// Names returns all registered predicate names, sorted.
func (r *GoalRegistry) Names() []string {
	out := make([]string, 0, len(r.preds))
	for name := range r.preds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Evaluate checks each named predicate against the state and partitions the
// names into achieved and failed. An unknown name is a configuration error,
// not a silent failure.
func (r *GoalRegistry) Evaluate(s *WorldState, names []string) (achieved, failed []string, err error) {
	for _, name := range names {
		p, ok := r.preds[name]
		if !ok {
			return nil, nil, &ConfigError{Msg: fmt.Sprintf("unknown goal predicate %q", name)}
		}
		if p(s) {
			achieved = append(achieved, name)
		} else {
			failed = append(failed, name)
		}
	}
	return achieved, failed, nil
}

func objectState(id ObjectID, want StateLabel) Predicate {
	return func(s *WorldState) bool {
		obj, ok := s.Objects[id]
		return ok && obj.State == want
	}
}

func objectIn(id ObjectID, room RoomID) Predicate {
	return func(s *WorldState) bool {
		obj, ok := s.Objects[id]
		return ok && obj.Location == room
	}
}

func agentIn(room RoomID) Predicate {
	return func(s *WorldState) bool { return s.Agent.Location == room }
}

// DefaultGoals returns the registry of built-in goal predicates for the
// default layout. The effect-label-to-predicate pairings are deliberate:
// hands_washed requires faucet "on" (use leaves the faucet on, per
// DefaultRules) while coffee_made requires coffee_maker "used".
func DefaultGoals() *GoalRegistry {
	r := NewGoalRegistry()

	// Hygiene.
	_ = r.Register("hands_washed", func(s *WorldState) bool {
		return objectState("soap", "used")(s) && objectState("faucet", "on")(s)
	})
	_ = r.Register("teeth_brushed", objectState("toothbrush", "used"))

	// Kitchen.
	_ = r.Register("coffee_made", func(s *WorldState) bool {
		return objectState("coffee_maker", "used")(s) && objectState("cup", "filled")(s)
	})
	_ = r.Register("cup_filled", objectState("cup", "filled"))

	// Room state.
	_ = r.Register("lights_on", objectState("light", "on"))
	_ = r.Register("lights_off", objectState("light", "off"))
	_ = r.Register("lamp_on", objectState("lamp", "on"))

	// Object location.
	_ = r.Register("cup_in_kitchen", objectIn("cup", RoomKitchen))
	_ = r.Register("cup_in_living_room", objectIn("cup", RoomLivingRoom))
	_ = r.Register("phone_in_bedroom", objectIn("phone", RoomBedroom))

	// Agent state.
	_ = r.Register("agent_in_kitchen", agentIn(RoomKitchen))
	_ = r.Register("agent_in_bathroom", agentIn(RoomBathroom))
	_ = r.Register("agent_in_bedroom", agentIn(RoomBedroom))
	_ = r.Register("agent_in_living_room", agentIn(RoomLivingRoom))
	_ = r.Register("hands_empty", func(s *WorldState) bool { return s.Agent.Holding == "" })
	_ = r.Register("holding_cup", func(s *WorldState) bool { return s.Agent.Holding == "cup" })
	_ = r.Register("holding_phone", func(s *WorldState) bool { return s.Agent.Holding == "phone" })

	return r
}
