package automation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Scene is a named, ordered list of actions applied on demand. Actions run
// in order and stop at the first failure, like a rule's actions.
type Scene struct {
	Name        string
	Description string
	Actions     []Action
}

// Apply runs the scene's actions against c.
func (s *Scene) Apply(c Context) Result {
	res := Result{Rule: s.Name, ActionsTotal: len(s.Actions), Fired: true}
	start := time.Now()
	for i, a := range s.Actions {
		if err := execute(a, c); err != nil {
			res.Err = &RuleError{Rule: s.Name, Phase: PhaseAction, Index: i, Err: err}
			break
		}
		res.ActionsCompleted++
	}
	res.Duration = time.Since(start)
	return res
}

func (s *Scene) Describe() string {
	return fmt.Sprintf("scene %s: %s", s.Name, describeList(s.Actions))
}

// SceneSet holds scenes by case-insensitive name.
type SceneSet struct {
	scenes map[string]*Scene
}

// NewSceneSet validates and indexes scenes.
func NewSceneSet(scenes ...*Scene) (*SceneSet, error) {
	set := &SceneSet{scenes: make(map[string]*Scene, len(scenes))}
	for _, s := range scenes {
		if s == nil {
			return nil, fmt.Errorf("%w: nil scene", ErrInvalidRule)
		}
		if err := ValidateName(s.Name); err != nil {
			return nil, err
		}
		for i, a := range s.Actions {
			if a == nil {
				return nil, fmt.Errorf("%w: scene %q action %d", ErrNilAction, s.Name, i)
			}
		}
		key := strings.ToLower(s.Name)
		if _, dup := set.scenes[key]; dup {
			return nil, fmt.Errorf("%w: scene %q", ErrDuplicateRule, s.Name)
		}
		set.scenes[key] = s
	}
	return set, nil
}

// Get returns the named scene.
func (s *SceneSet) Get(name string) (*Scene, error) {
	sc, ok := s.scenes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}
	return sc, nil
}

// Names returns scene names sorted alphabetically.
func (s *SceneSet) Names() []string {
	names := make([]string, 0, len(s.scenes))
	for _, sc := range s.scenes {
		names = append(names, sc.Name)
	}
	sort.Strings(names)
	return names
}

// DefaultScenes returns the built-in away, movie, night and morning scenes
// for a home whose main room is mainRoom.
func DefaultScenes(mainRoom string) []*Scene {
	return []*Scene{
		{
			Name:        "away",
			Description: "Everything off, security armed, heating set back",
			Actions:     []Action{TurnOffAll{}, ArmSecurity{}, SetTemperature{Celsius: 18}},
		},
		{
			Name:        "movie",
			Description: "Dim lights and close blinds in the main room",
			Actions: []Action{
				TurnOnRoomLights{Room: mainRoom, Brightness: 30},
				SetRoomBlinds{Room: mainRoom, Position: 0},
			},
		},
		{
			Name:        "night",
			Description: "Everything off and security armed",
			Actions:     []Action{TurnOffAll{}, ArmSecurity{}},
		},
		{
			Name:        "morning",
			Description: "Open blinds, bright lights, heating on",
			Actions: []Action{
				SetRoomBlinds{Room: mainRoom, Position: 100},
				TurnOnRoomLights{Room: mainRoom, Brightness: 80},
				SetTemperature{Celsius: 22, TurnOn: true},
			},
		},
	}
}
