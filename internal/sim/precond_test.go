package sim

import "testing"

func act(verb ActionKind, arg string) ParsedAction {
	return ParsedAction{Verb: verb, Arg: arg}
}

func TestCheck_EveryActionKindHasValidatorAndEffect(t *testing.T) {
	e := NewEngine(nil)
	for _, kind := range ActionKinds() {
		if _, ok := e.validators[kind]; !ok {
			t.Errorf("no validator for %s", kind)
		}
		if _, ok := e.effects[kind]; !ok {
			t.Errorf("no effect for %s", kind)
		}
	}
}

func TestCheck_InvalidTargetBeforeOtherPreconditions(t *testing.T) {
	s := DefaultLayout()
	s.Agent.Holding = "cup"
	obj := s.Objects["cup"]
	obj.Location = LocationHeld
	s.Objects["cup"] = obj

	e := NewEngine(nil)
	// Hands are full, but the unknown object must win.
	_, err := e.Check(s, act(ActionPickup, "dragon"))
	if err == nil || err.Kind != ErrInvalidTarget {
		t.Fatalf("pickup dragon: got %v, want invalid_target", err)
	}
	_, err = e.Check(s, act(ActionGoto, "mars"))
	if err == nil || err.Kind != ErrInvalidTarget {
		t.Fatalf("goto mars: got %v, want invalid_target", err)
	}
	_, err = e.Check(s, act(ActionKind("fly"), "away"))
	if err == nil || err.Kind != ErrInvalidTarget {
		t.Fatalf("fly away: got %v, want invalid_target", err)
	}
}

func TestCheck_Preconditions(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(*WorldState)
		action  ParsedAction
		want    ErrorKind // "" means valid
	}{
		{"goto any room is valid", nil, act(ActionGoto, "bathroom"), ""},
		{"goto same room is valid", nil, act(ActionGoto, "kitchen"), ""},
		{"pickup co-located", nil, act(ActionPickup, "cup"), ""},
		{"pickup elsewhere", nil, act(ActionPickup, "soap"), ErrWrongLocation},
		{"pickup hands full", func(s *WorldState) {
			hold(s, "keys")
		}, act(ActionPickup, "cup"), ErrHandsFull},
		{"pickup hands full wins over location", func(s *WorldState) {
			hold(s, "keys")
		}, act(ActionPickup, "soap"), ErrHandsFull},
		{"drop held object", func(s *WorldState) {
			hold(s, "cup")
		}, act(ActionDrop, "cup"), ""},
		{"drop empty-handed", nil, act(ActionDrop, "cup"), ErrNotHolding},
		{"drop different held object", func(s *WorldState) {
			hold(s, "keys")
		}, act(ActionDrop, "cup"), ErrNotHolding},
		{"toggle co-located", nil, act(ActionToggle, "coffee_maker"), ""},
		{"toggle elsewhere", nil, act(ActionToggle, "faucet"), ErrWrongLocation},
		{"toggle held object is not co-located", func(s *WorldState) {
			hold(s, "cup")
		}, act(ActionToggle, "cup"), ErrWrongLocation},
		{"use co-located", nil, act(ActionUse, "coffee_maker"), ""},
		{"use held object", func(s *WorldState) {
			hold(s, "cup")
		}, act(ActionUse, "cup"), ""},
		{"use elsewhere", nil, act(ActionUse, "soap"), ErrWrongLocation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultLayout()
			if tc.prepare != nil {
				tc.prepare(s)
			}
			e := NewEngine(nil)
			effect, err := e.Check(s, tc.action)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("Check(%s): unexpected error %v", tc.action, err)
				}
				if effect == nil {
					t.Fatalf("Check(%s): nil effect on valid action", tc.action)
				}
				return
			}
			if err == nil {
				t.Fatalf("Check(%s): expected %s, got valid", tc.action, tc.want)
			}
			if err.Kind != tc.want {
				t.Fatalf("Check(%s): kind %s, want %s (msg %q)", tc.action, err.Kind, tc.want, err.Msg)
			}
			if effect != nil {
				t.Fatalf("Check(%s): effect returned alongside error", tc.action)
			}
		})
	}
}

// hold puts the agent directly into the holding-obj state, preserving the
// hold invariant.
func hold(s *WorldState, id ObjectID) {
	obj := s.Objects[id]
	obj.Location = LocationHeld
	s.Objects[id] = obj
	s.Agent.Holding = id
}

func TestCheck_DoesNotMutate(t *testing.T) {
	s := DefaultLayout()
	e := NewEngine(nil)
	before := s.Digest()
	if _, err := e.Check(s, act(ActionPickup, "cup")); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if _, err := e.Check(s, act(ActionPickup, "soap")); err == nil {
		t.Fatal("Check(pickup soap): expected error")
	}
	if got := s.Digest(); got != before {
		t.Fatalf("Check mutated state: digest %s != %s", got, before)
	}
}

func TestEffect_GotoMutatesOnlyAgentLocation(t *testing.T) {
	s := DefaultLayout()
	e := NewEngine(nil)
	effect, err := e.Check(s, act(ActionGoto, "bedroom"))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := DefaultLayout()
	want.Agent.Location = RoomBedroom

	effect(s)
	if got, expect := s.Digest(), want.Digest(); got != expect {
		t.Fatalf("goto mutated more than agent.location: %s != %s", got, expect)
	}
}

func TestEffect_PickupAndDrop(t *testing.T) {
	s := DefaultLayout()
	e := NewEngine(nil)

	mustApply(t, e, s, act(ActionPickup, "cup"))
	if s.Agent.Holding != "cup" {
		t.Fatalf("holding = %q, want cup", s.Agent.Holding)
	}
	if s.Objects["cup"].Location != LocationHeld {
		t.Fatalf("cup location = %q, want %q", s.Objects["cup"].Location, LocationHeld)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("hold invariant after pickup: %v", err)
	}

	mustApply(t, e, s, act(ActionGoto, "bedroom"))
	mustApply(t, e, s, act(ActionDrop, "cup"))
	if s.Agent.Holding != "" {
		t.Fatalf("holding = %q, want empty", s.Agent.Holding)
	}
	if s.Objects["cup"].Location != RoomBedroom {
		t.Fatalf("cup location = %q, want bedroom", s.Objects["cup"].Location)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("hold invariant after drop: %v", err)
	}
}

func TestEffect_Toggle(t *testing.T) {
	s := DefaultLayout()
	e := NewEngine(nil)

	mustApply(t, e, s, act(ActionToggle, "coffee_maker"))
	if got := s.Objects["coffee_maker"].State; got != "on" {
		t.Fatalf("toggle off->%q, want on", got)
	}
	mustApply(t, e, s, act(ActionToggle, "coffee_maker"))
	if got := s.Objects["coffee_maker"].State; got != "off" {
		t.Fatalf("toggle on->%q, want off", got)
	}
	// Non-boolean state toggles to on.
	mustApply(t, e, s, act(ActionToggle, "plate"))
	if got := s.Objects["plate"].State; got != "on" {
		t.Fatalf("toggle clean->%q, want on", got)
	}
}

func TestEffect_UseDefaultsToUsed(t *testing.T) {
	s := DefaultLayout()
	s.Agent.Location = RoomBathroom
	e := NewEngine(nil)
	mustApply(t, e, s, act(ActionUse, "soap"))
	if got := s.Objects["soap"].State; got != "used" {
		t.Fatalf("use soap -> %q, want used", got)
	}
}

func TestEffect_UseFaucetSetsOnAndFillsHeldCup(t *testing.T) {
	s := DefaultLayout()
	e := NewEngine(nil)
	mustApply(t, e, s, act(ActionPickup, "cup"))
	mustApply(t, e, s, act(ActionGoto, "bathroom"))
	mustApply(t, e, s, act(ActionUse, "faucet"))
	if got := s.Objects["faucet"].State; got != "on" {
		t.Fatalf("use faucet -> %q, want on", got)
	}
	if got := s.Objects["cup"].State; got != "filled" {
		t.Fatalf("held cup after faucet use -> %q, want filled", got)
	}
}

func TestEffect_UseCoffeeMakerFillsKitchenCup(t *testing.T) {
	s := DefaultLayout()
	e := NewEngine(nil)
	mustApply(t, e, s, act(ActionUse, "coffee_maker"))
	if got := s.Objects["coffee_maker"].State; got != "used" {
		t.Fatalf("coffee_maker -> %q, want used", got)
	}
	if got := s.Objects["cup"].State; got != "filled" {
		t.Fatalf("kitchen cup -> %q, want filled", got)
	}

	// No fill when the cup is elsewhere.
	s = DefaultLayout()
	obj := s.Objects["cup"]
	obj.Location = RoomBedroom
	s.Objects["cup"] = obj
	mustApply(t, e, s, act(ActionUse, "coffee_maker"))
	if got := s.Objects["cup"].State; got != "empty" {
		t.Fatalf("remote cup -> %q, want empty", got)
	}
}

func TestEffect_UseCupAtRunningFaucet(t *testing.T) {
	s := DefaultLayout()
	e := NewEngine(nil)
	mustApply(t, e, s, act(ActionPickup, "cup"))
	mustApply(t, e, s, act(ActionGoto, "bathroom"))
	mustApply(t, e, s, act(ActionDrop, "cup"))
	mustApply(t, e, s, act(ActionToggle, "faucet"))
	mustApply(t, e, s, act(ActionUse, "cup"))
	if got := s.Objects["cup"].State; got != "filled" {
		t.Fatalf("cup at running faucet -> %q, want filled", got)
	}
}

func mustApply(t *testing.T, e *Engine, s *WorldState, a ParsedAction) {
	t.Helper()
	effect, err := e.Check(s, a)
	if err != nil {
		t.Fatalf("Check(%s): %v", a, err)
	}
	effect(s)
}
