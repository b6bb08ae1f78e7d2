package sim

import "fmt"

// EffectFunc applies a validated action's deterministic mutation. It mutates
// only the fields its action's contract specifies; the planner relies on
// exact, minimal mutation to keep cloned speculative states trustworthy.
type EffectFunc func(*WorldState)

// Rules holds the per-object configuration the effect engine consults.
// The original behavior around "use" labels was inconsistent, so the
// label mapping is explicit data rather than something inferred from
// predicates.
type Rules struct {
	// UseStates maps an object to the state label the use action applies.
	// Objects not listed get "used".
	UseStates map[ObjectID]StateLabel

	// useSideEffects are extra, conditional mutations applied after the
	// use label (e.g. the coffee maker filling a co-located cup).
	useSideEffects map[ObjectID]EffectFunc
}

// DefaultRules returns the default-use-label table and side effects:
//   - faucet: use sets "on" (not "used"), and fills a held cup;
//   - coffee_maker: fills the cup when the cup is in the kitchen;
//   - cup: fills itself when used in the bathroom with the faucet on.
func DefaultRules() *Rules {
	return &Rules{
		UseStates: map[ObjectID]StateLabel{
			"faucet": "on",
		},
		useSideEffects: map[ObjectID]EffectFunc{
			"coffee_maker": func(s *WorldState) {
				if cup, ok := s.Objects["cup"]; ok && cup.Location == RoomKitchen {
					cup.State = "filled"
					s.Objects["cup"] = cup
				}
			},
			"faucet": func(s *WorldState) {
				if s.Agent.Holding == "cup" {
					cup := s.Objects["cup"]
					cup.State = "filled"
					s.Objects["cup"] = cup
				}
			},
			"cup": func(s *WorldState) {
				faucet, ok := s.Objects["faucet"]
				if ok && s.Agent.Location == RoomBathroom && faucet.State == "on" {
					cup := s.Objects["cup"]
					cup.State = "filled"
					s.Objects["cup"] = cup
				}
			},
		},
	}
}

// Engine decides action validity and produces effect functions. One
// validator and one effect per ActionKind, selected by lookup table.
type Engine struct {
	rules      *Rules
	validators map[ActionKind]func(*Engine, *WorldState, ParsedAction) *PreconditionError
	effects    map[ActionKind]func(*Engine, *WorldState, ParsedAction)
}

// NewEngine builds an engine over the given rules; nil means DefaultRules.
func NewEngine(rules *Rules) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	e := &Engine{rules: rules}
	e.validators = map[ActionKind]func(*Engine, *WorldState, ParsedAction) *PreconditionError{
		ActionGoto:   (*Engine).checkGoto,
		ActionPickup: (*Engine).checkPickup,
		ActionDrop:   (*Engine).checkDrop,
		ActionToggle: (*Engine).checkToggle,
		ActionUse:    (*Engine).checkUse,
	}
	e.effects = map[ActionKind]func(*Engine, *WorldState, ParsedAction){
		ActionGoto:   (*Engine).applyGoto,
		ActionPickup: (*Engine).applyPickup,
		ActionDrop:   (*Engine).applyDrop,
		ActionToggle: (*Engine).applyToggle,
		ActionUse:    (*Engine).applyUse,
	}
	return e
}

// Check validates the action against the state. On success it returns the
// effect function to apply; on failure, the precondition error. Check never
// mutates state.
func (e *Engine) Check(s *WorldState, a ParsedAction) (EffectFunc, *PreconditionError) {
	validate, ok := e.validators[a.Verb]
	if !ok {
		return nil, invalidTarget(a, "unknown action %q", a.Verb)
	}
	if err := validate(e, s, a); err != nil {
		return nil, err
	}
	apply := e.effects[a.Verb]
	return func(s *WorldState) { apply(e, s, a) }, nil
}

// Validators. Unknown identifiers fail with invalid_target before any other
// precondition is evaluated.

func (e *Engine) checkGoto(s *WorldState, a ParsedAction) *PreconditionError {
	if !ValidRoom(a.Room()) {
		return invalidTarget(a, "unknown room %q", a.Arg)
	}
	// Topology is fully connected: any room is reachable from any room.
	return nil
}

func (e *Engine) checkPickup(s *WorldState, a ParsedAction) *PreconditionError {
	obj, ok := s.Objects[a.Object()]
	if !ok {
		return invalidTarget(a, "unknown object %q", a.Arg)
	}
	if s.Agent.Holding != "" {
		return handsFull(a)
	}
	if obj.Location != s.Agent.Location {
		return wrongLocation(a, "%s not in %s", a.Arg, s.Agent.Location)
	}
	return nil
}

func (e *Engine) checkDrop(s *WorldState, a ParsedAction) *PreconditionError {
	if !s.HasObject(a.Object()) {
		return invalidTarget(a, "unknown object %q", a.Arg)
	}
	// Dropping a different held object and dropping empty-handed are the
	// same error.
	if s.Agent.Holding != a.Object() {
		return notHolding(a)
	}
	return nil
}

func (e *Engine) checkToggle(s *WorldState, a ParsedAction) *PreconditionError {
	obj, ok := s.Objects[a.Object()]
	if !ok {
		return invalidTarget(a, "unknown object %q", a.Arg)
	}
	// Location equality only: a held object is not toggleable.
	if obj.Location != s.Agent.Location {
		return wrongLocation(a, "%s not in %s (it's in %s)", a.Arg, s.Agent.Location, obj.Location)
	}
	return nil
}

func (e *Engine) checkUse(s *WorldState, a ParsedAction) *PreconditionError {
	obj, ok := s.Objects[a.Object()]
	if !ok {
		return invalidTarget(a, "unknown object %q", a.Arg)
	}
	// Usable when co-located or currently held.
	if obj.Location != s.Agent.Location && s.Agent.Holding != a.Object() {
		return wrongLocation(a, "%s not in %s (it's in %s)", a.Arg, s.Agent.Location, obj.Location)
	}
	return nil
}

// Effects. Each mutates only the fields its contract specifies.

func (e *Engine) applyGoto(s *WorldState, a ParsedAction) {
	s.Agent.Location = a.Room()
}

func (e *Engine) applyPickup(s *WorldState, a ParsedAction) {
	obj := s.Objects[a.Object()]
	obj.Location = LocationHeld
	s.Objects[a.Object()] = obj
	s.Agent.Holding = a.Object()
}

func (e *Engine) applyDrop(s *WorldState, a ParsedAction) {
	obj := s.Objects[a.Object()]
	obj.Location = s.Agent.Location
	s.Objects[a.Object()] = obj
	s.Agent.Holding = ""
}

func (e *Engine) applyToggle(s *WorldState, a ParsedAction) {
	obj := s.Objects[a.Object()]
	switch obj.State {
	case "on":
		obj.State = "off"
	case "off":
		obj.State = "on"
	default:
		// Non-boolean states toggle to "on".
		obj.State = "on"
	}
	s.Objects[a.Object()] = obj
}

func (e *Engine) applyUse(s *WorldState, a ParsedAction) {
	id := a.Object()
	obj := s.Objects[id]
	obj.State = e.useStateFor(id)
	s.Objects[id] = obj
	if side, ok := e.rules.useSideEffects[id]; ok {
		side(s)
	}
}

func (e *Engine) useStateFor(id ObjectID) StateLabel {
	if label, ok := e.rules.UseStates[id]; ok && label != "" {
		return label
	}
	return "used"
}

// String renders the rules table for debugging.
func (r *Rules) String() string {
	return fmt.Sprintf("Rules{use_states: %v}", r.UseStates)
}
