package sim

// Simulator composes the world state, precondition engine and goal registry.
// It is single-threaded by contract: no locking, sequencing is program
// order. Speculation happens on clones, never on the live instance.
type Simulator struct {
	engine  *Engine
	goals   *GoalRegistry
	state   *WorldState
	initial *WorldState
}

// Option configures a Simulator at construction.
type Option func(*Simulator)

// WithState injects a custom initial world state.
func WithState(s *WorldState) Option {
	return func(sim *Simulator) { sim.initial = s.Clone() }
}

// WithRules injects custom effect rules.
func WithRules(r *Rules) Option {
	return func(sim *Simulator) { sim.engine = NewEngine(r) }
}

// WithGoals injects a custom goal registry.
func WithGoals(g *GoalRegistry) Option {
	return func(sim *Simulator) { sim.goals = g }
}

// NewSimulator builds a simulator over the default layout, rules and goals
// unless options override them. The initial snapshot is recorded for Reset.
func NewSimulator(opts ...Option) *Simulator {
	sim := &Simulator{}
	for _, opt := range opts {
		opt(sim)
	}
	if sim.initial == nil {
		sim.initial = DefaultLayout()
	}
	if sim.engine == nil {
		sim.engine = NewEngine(nil)
	}
	if sim.goals == nil {
		sim.goals = DefaultGoals()
	}
	sim.state = sim.initial.Clone()
	return sim
}

// IsValid checks an action against the current state without mutating it.
func (s *Simulator) IsValid(a ParsedAction) (bool, *PreconditionError) {
	if _, err := s.engine.Check(s.state, a); err != nil {
		return false, err
	}
	return true, nil
}

// Execute re-checks validity and applies the effect. A failed Execute
// leaves the world state unchanged; there is no partial mutation.
func (s *Simulator) Execute(a ParsedAction) (bool, *PreconditionError) {
	effect, err := s.engine.Check(s.state, a)
	if err != nil {
		return false, err
	}
	effect(s.state)
	return true, nil
}

// Clone returns an independent simulator: deep-copied current state, the
// same initial snapshot (deep-copied, for Reset), same rules and goals. The
// clone shares no mutable structure with the original.
func (s *Simulator) Clone() *Simulator {
	return &Simulator{
		engine:  s.engine,
		goals:   s.goals,
		state:   s.state.Clone(),
		initial: s.initial.Clone(),
	}
}

// Reset restores the state to the snapshot recorded at construction.
func (s *Simulator) Reset() {
	s.state = s.initial.Clone()
}

// CheckGoal evaluates the named predicates on the current state.
func (s *Simulator) CheckGoal(names []string) (achieved, failed []string, err error) {
	return s.goals.Evaluate(s.state, names)
}

// Goals exposes the registry so callers can register predicates or list
// what is available.
func (s *Simulator) Goals() *GoalRegistry { return s.goals }

// Snapshot produces the collaborator-facing view of the current state.
func (s *Simulator) Snapshot() StateSnapshot {
	return StateSnapshot{
		Location:       s.state.Agent.Location,
		Holding:        s.state.Agent.Holding,
		VisibleObjects: s.state.VisibleObjects(),
		RoomInventory:  s.state.RoomInventory(),
	}
}

// Digest returns the canonical digest of the current state.
func (s *Simulator) Digest() string { return s.state.Digest() }

// Describe renders the current state for prompt context.
func (s *Simulator) Describe() string { return s.state.Describe() }

// ExportState returns a deep copy of the current state, for persistence.
func (s *Simulator) ExportState() *WorldState { return s.state.Clone() }
