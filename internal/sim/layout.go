package sim

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultLayout returns the fixed default home: four rooms, sixteen objects,
// agent starting empty-handed in the kitchen.
func DefaultLayout() *WorldState {
	return &WorldState{
		Agent: AgentState{Location: RoomKitchen},
		Objects: map[ObjectID]ObjectState{
			// Kitchen.
			"cup":          {Location: RoomKitchen, State: "empty"},
			"plate":        {Location: RoomKitchen, State: "clean"},
			"coffee_maker": {Location: RoomKitchen, State: "off"},
			"keys":         {Location: RoomKitchen, State: "unused"},

			// Bathroom.
			"soap":       {Location: RoomBathroom, State: "unused"},
			"towel":      {Location: RoomBathroom, State: "dry"},
			"faucet":     {Location: RoomBathroom, State: "off"},
			"toothbrush": {Location: RoomBathroom, State: "unused"},

			// Bedroom.
			"lamp":    {Location: RoomBedroom, State: "off"},
			"blanket": {Location: RoomBedroom, State: "folded"},
			"pillow":  {Location: RoomBedroom, State: "on_bed"},

			// Living room.
			"remote": {Location: RoomLivingRoom, State: "off"},
			"book":   {Location: RoomLivingRoom, State: "closed"},
			"light":  {Location: RoomLivingRoom, State: "off"},
			"phone":  {Location: RoomLivingRoom, State: "off"},
		},
	}
}

// DefaultObjects returns the default layout's object vocabulary, sorted.
func DefaultObjects() []ObjectID {
	layout := DefaultLayout()
	out := make([]ObjectID, 0, len(layout.Objects))
	for id := range layout.Objects {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LayoutConfig is the YAML shape of a custom world layout. Omitted sections
// fall back to the defaults, so a config may override just the agent start,
// just the object placement, or just the use-state labels.
type LayoutConfig struct {
	Agent *struct {
		Location RoomID   `yaml:"location"`
		Holding  ObjectID `yaml:"holding"`
	} `yaml:"agent,omitempty"`

	Objects map[ObjectID]ObjectState `yaml:"objects,omitempty"`

	// UseStates overrides the state label applied by the use action,
	// per object (e.g. faucet: on). See DefaultRules.
	UseStates map[ObjectID]StateLabel `yaml:"use_states,omitempty"`
}

// LoadLayout reads a YAML layout file and returns the world it describes
// plus the rules with any per-object use-state overrides applied. The
// returned state is validated against the structural invariants.
func LoadLayout(path string) (*WorldState, *Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var cfg LayoutConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	state, rules, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return state, rules, nil
}

// Build materializes the config into a world state and rules.
func (c *LayoutConfig) Build() (*WorldState, *Rules, error) {
	state := DefaultLayout()
	if len(c.Objects) > 0 {
		state.Objects = make(map[ObjectID]ObjectState, len(c.Objects))
		for id, obj := range c.Objects {
			state.Objects[id] = obj
		}
	}
	if c.Agent != nil {
		state.Agent = AgentState{Location: c.Agent.Location, Holding: c.Agent.Holding}
	}
	if err := state.Validate(); err != nil {
		return nil, nil, err
	}

	rules := DefaultRules()
	for id, label := range c.UseStates {
		if !state.HasObject(id) {
			return nil, nil, fmt.Errorf("use_states: unknown object %q", id)
		}
		rules.UseStates[id] = label
	}
	return state, rules, nil
}
