package automation

import (
	"fmt"
	"strings"

	"github.com/nerrad567/smarthome-core/internal/infrastructure/config"
)

// Declarative type names accepted in configuration.
const (
	triggerAlways      = "always"
	triggerTimeAfter   = "time_after"
	triggerTimeBetween = "time_between"
	triggerCron        = "cron"

	conditionRoomDark   = "room_dark"
	conditionMotion     = "motion"
	conditionArmed      = "security_armed"
	conditionDisarmed   = "security_disarmed"
	conditionDeviceOn   = "device_on"
	conditionExpression = "expr"

	actionRoomLightsOn  = "room_lights_on"
	actionRoomLightsOff = "room_lights_off"
	actionDeviceOn      = "device_on"
	actionDeviceOff     = "device_off"
	actionAllOff        = "all_off"
	actionLockAllDoors  = "lock_all_doors"
	actionCamerasOn     = "cameras_on"
	actionArmSecurity   = "arm_security"
	actionDisarm        = "disarm_security"
	actionTemperature   = "set_temperature"
	actionBlinds        = "set_blinds"

	templateMotionLight = "motion_light"
)

// BuildRule turns a declarative rule into a Rule. The result has passed
// ValidateRule.
func BuildRule(rc config.RuleConfig) (*Rule, error) {
	var r *Rule
	switch strings.ToLower(rc.Template) {
	case "":
		trigger, err := BuildTrigger(rc.Trigger)
		if err != nil {
			return nil, fmt.Errorf("rule %q trigger: %w", rc.Name, err)
		}
		r = NewRule(rc.Name, trigger)
		for i, pc := range rc.Conditions {
			cond, err := BuildCondition(pc)
			if err != nil {
				return nil, fmt.Errorf("rule %q condition %d: %w", rc.Name, i, err)
			}
			r.AddCondition(cond)
		}
		for i, ac := range rc.Actions {
			action, err := BuildAction(ac)
			if err != nil {
				return nil, fmt.Errorf("rule %q action %d: %w", rc.Name, i, err)
			}
			r.AddAction(action)
		}
	case templateMotionLight:
		if rc.Room == "" {
			return nil, fmt.Errorf("%w: rule %q: template %s needs a room", ErrInvalidRule, rc.Name, templateMotionLight)
		}
		r = MotionLightRule(rc.Room)
		if rc.Name != "" {
			r.name = rc.Name
		}
	default:
		return nil, fmt.Errorf("%w: rule %q: unknown template %q", ErrInvalidRule, rc.Name, rc.Template)
	}

	if rc.Enabled != nil && !*rc.Enabled {
		r.Disable()
	}
	if err := ValidateRule(r); err != nil {
		return nil, err
	}
	return r, nil
}

// BuildTrigger builds a trigger from its declarative form. Negate inverts
// any trigger type.
func BuildTrigger(pc config.PredicateConfig) (Trigger, error) {
	t, err := buildTrigger(pc)
	if err != nil {
		return nil, err
	}
	if pc.Negate {
		return Not(t), nil
	}
	return t, nil
}

func buildTrigger(pc config.PredicateConfig) (Trigger, error) {
	switch pc.Type {
	case triggerAlways:
		return Always{}, nil
	case triggerTimeAfter:
		at, err := ParseTimeOfDay(pc.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		return TimeAfter{At: at}, nil
	case triggerTimeBetween:
		from, err := ParseTimeOfDay(pc.From)
		if err != nil {
			return nil, fmt.Errorf("%w: from: %v", ErrInvalidRule, err)
		}
		to, err := ParseTimeOfDay(pc.To)
		if err != nil {
			return nil, fmt.Errorf("%w: to: %v", ErrInvalidRule, err)
		}
		return TimeBetween{From: from, To: to}, nil
	case triggerCron:
		return NewCronTrigger(pc.Cron)
	case "":
		return nil, ErrNilTrigger
	default:
		// Any condition can also gate a rule. Negation is applied by the caller.
		pc.Negate = false
		cond, err := BuildCondition(pc)
		if err != nil {
			return nil, err
		}
		return cond, nil
	}
}

// BuildCondition builds a condition from its declarative form.
func BuildCondition(pc config.PredicateConfig) (Condition, error) {
	var c Condition
	switch pc.Type {
	case conditionRoomDark:
		if pc.Room == "" {
			return nil, fmt.Errorf("%w: %s needs a room", ErrInvalidRule, pc.Type)
		}
		c = RoomDark{Room: pc.Room}
	case conditionMotion:
		if pc.Room == "" {
			return nil, fmt.Errorf("%w: %s needs a room", ErrInvalidRule, pc.Type)
		}
		c = MotionIn{Room: pc.Room}
	case conditionArmed:
		c = SecurityArmed{}
	case conditionDisarmed:
		c = Not(SecurityArmed{})
	case conditionDeviceOn:
		if pc.Device == "" {
			return nil, fmt.Errorf("%w: %s needs a device", ErrInvalidRule, pc.Type)
		}
		c = DeviceOn{Device: pc.Device}
	case conditionExpression:
		ec, err := NewExprCondition(pc.Expr)
		if err != nil {
			return nil, err
		}
		c = ec
	case triggerAlways, triggerTimeAfter, triggerTimeBetween, triggerCron:
		t, err := buildTrigger(pc)
		if err != nil {
			return nil, err
		}
		c = t
	default:
		return nil, fmt.Errorf("%w: unknown condition type %q", ErrInvalidRule, pc.Type)
	}
	if pc.Negate {
		c = Not(c)
	}
	return c, nil
}

// BuildAction builds an action from its declarative form.
func BuildAction(ac config.ActionConfig) (Action, error) {
	needRoom := func() error {
		if ac.Room == "" {
			return fmt.Errorf("%w: %s needs a room", ErrInvalidRule, ac.Type)
		}
		return nil
	}
	needDevice := func() error {
		if ac.Device == "" {
			return fmt.Errorf("%w: %s needs a device", ErrInvalidRule, ac.Type)
		}
		return nil
	}

	switch ac.Type {
	case actionRoomLightsOn:
		if err := needRoom(); err != nil {
			return nil, err
		}
		if err := ValidateBrightness(ac.Brightness); err != nil {
			return nil, err
		}
		return TurnOnRoomLights{Room: ac.Room, Brightness: ac.Brightness}, nil
	case actionRoomLightsOff:
		if err := needRoom(); err != nil {
			return nil, err
		}
		return TurnOffRoomLights{Room: ac.Room}, nil
	case actionDeviceOn:
		if err := needDevice(); err != nil {
			return nil, err
		}
		return TurnOnDevice{Device: ac.Device}, nil
	case actionDeviceOff:
		if err := needDevice(); err != nil {
			return nil, err
		}
		return TurnOffDevice{Device: ac.Device}, nil
	case actionAllOff:
		return TurnOffAll{}, nil
	case actionLockAllDoors:
		return LockAllDoors{}, nil
	case actionCamerasOn:
		return CamerasOn{}, nil
	case actionArmSecurity:
		return ArmSecurity{}, nil
	case actionDisarm:
		return DisarmSecurity{}, nil
	case actionTemperature:
		if err := ValidateTemperature(ac.Temperature); err != nil {
			return nil, err
		}
		return SetTemperature{Device: ac.Device, Celsius: ac.Temperature, TurnOn: true}, nil
	case actionBlinds:
		if err := needRoom(); err != nil {
			return nil, err
		}
		if ac.Position < 0 || ac.Position > 100 {
			return nil, fmt.Errorf("%w: blinds position must be 0-100, got %d", ErrInvalidRule, ac.Position)
		}
		return SetRoomBlinds{Room: ac.Room, Position: ac.Position}, nil
	case "":
		return nil, ErrNilAction
	default:
		return nil, fmt.Errorf("%w: unknown action type %q", ErrInvalidRule, ac.Type)
	}
}

// BuildRules builds every declared rule, stopping at the first error.
func BuildRules(rcs []config.RuleConfig) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(rcs))
	for _, rc := range rcs {
		r, err := BuildRule(rc)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
