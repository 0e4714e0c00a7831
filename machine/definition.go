package machine

import (
	"gopkg.in/yaml.v3"
)

// Definition is a declarative machine configuration, typically loaded from
// YAML. It covers the data half of a configuration (states, initial state,
// transition table); callbacks and guards remain code-registered so a typo in
// a callback reference is a compile-time failure, not a runtime one.
//
//	initial: asleep
//	states: [asleep, hanging_out, error]
//	transitions:
//	  - trigger: wake_up
//	    source: asleep
//	    dest: hanging_out
//	  - trigger: error
//	    source: "*"
//	    dest: error
type Definition struct {
	Initial     State           `yaml:"initial"`
	States      []State         `yaml:"states"`
	Transitions []TransitionDef `yaml:"transitions"`
}

// TransitionDef is the declarative form of a Transition. Either Source or
// Sources may be used; Sources wins when both are set.
type TransitionDef struct {
	Trigger string  `yaml:"trigger"`
	Source  State   `yaml:"source"`
	Sources []State `yaml:"sources"`
	Dest    State   `yaml:"dest"`
}

// ParseDefinition unmarshals a YAML machine definition and validates it for
// construction-time defects.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, configErrorf("invalid definition: %v", err)
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (d *Definition) validate() error {
	if len(d.States) == 0 {
		return configErrorf("definition declares no states")
	}
	if d.Initial == "" {
		return configErrorf("definition declares no initial state")
	}

	declared := make(map[State]struct{}, len(d.States))
	for _, s := range d.States {
		declared[s] = struct{}{}
	}
	if _, ok := declared[d.Initial]; !ok {
		return configErrorf("initial state %q is not a declared state", d.Initial)
	}

	for _, t := range d.Transitions {
		if t.Trigger == "" {
			return configErrorf("transition to %q has no trigger name", t.Dest)
		}
		if _, ok := declared[t.Dest]; !ok {
			return configErrorf("transition %q references undeclared destination state %q", t.Trigger, t.Dest)
		}
		for _, src := range t.sources() {
			if src == SourceAny {
				continue
			}
			if _, ok := declared[src]; !ok {
				return configErrorf("transition %q references undeclared source state %q", t.Trigger, src)
			}
		}
	}

	return nil
}

func (t *TransitionDef) sources() []State {
	if len(t.Sources) > 0 {
		return t.Sources
	}
	if t.Source != "" {
		return []State{t.Source}
	}
	return nil
}

// TransitionTable converts the declarative transitions into Transition values
// suitable for AddTransitions or model construction.
func (d *Definition) TransitionTable() []Transition {
	out := make([]Transition, 0, len(d.Transitions))
	for _, t := range d.Transitions {
		out = append(out, Transition{
			Trigger: t.Trigger,
			Sources: t.sources(),
			Dest:    t.Dest,
		})
	}
	return out
}
