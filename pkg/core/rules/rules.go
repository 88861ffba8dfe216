// Package rules converts loosely-typed rule definitions into a validated,
// closed set of hard and soft scheduling constraints, and evaluates them
// against a schedule-in-progress.
package rules

import (
	"fmt"

	"github.com/shiftguard/shiftguard/pkg/core/model"
)

// Kind separates constraints that must hold from constraints that only
// contribute cost.
type Kind string

const (
	KindHard Kind = "hard"
	KindSoft Kind = "soft"
)

// Rule type names accepted by Parse.
const (
	TypeCapability         = "capability"
	TypeNoDoubleBooking    = "no_double_booking"
	TypeMinRest            = "min_rest"
	TypeMaxConsecutiveDays = "max_consecutive_days"
	TypeOffRequest         = "off_request"
	TypeFairness           = "fairness"
	TypePreference         = "preference"
)

// Def is one raw rule definition as it arrives from the rule file or an API
// payload, before validation.
type Def struct {
	Type   string         `yaml:"type" json:"type"`
	Kind   string         `yaml:"kind" json:"kind"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// ConfigError reports a malformed rule definition. Unknown rule types and
// bad parameters fail at load time; nothing is silently skipped.
type ConfigError struct {
	Index  int
	Type   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule %d (%s): %s", e.Index, e.Type, e.Reason)
}

// HardRule is a constraint a valid schedule must never violate. Admissible
// answers whether the candidate placement would keep the schedule valid;
// Violations sweeps a complete schedule state independently of how it was
// built, so the reporter can catch engine defects.
type HardRule interface {
	Name() string
	Admissible(st *State, staff model.StaffMember, slot model.DemandSlot) bool
	Violations(st *State) []model.Warning
}

// SoftRule contributes cost. CandidateCost scores placing the staff member
// into the slot given the current state; ScheduleCost scores a whole state,
// which the swap-improvement phase minimizes.
type SoftRule interface {
	Name() string
	CandidateCost(st *State, staff model.StaffMember, slot model.DemandSlot) float64
	ScheduleCost(st *State) float64
}

// RuleSet is a validated collection of hard and soft rules.
type RuleSet struct {
	hard []HardRule
	soft []SoftRule
}

// Parse validates raw definitions into a RuleSet. Any unknown type, kind
// mismatch, or malformed parameter yields a ConfigError.
func Parse(defs []Def) (*RuleSet, error) {
	rs := &RuleSet{}
	for i, def := range defs {
		kind := Kind(def.Kind)
		switch def.Type {
		case TypeCapability:
			if err := wantKind(i, def, KindHard); err != nil {
				return nil, err
			}
			if err := noParams(i, def); err != nil {
				return nil, err
			}
			rs.hard = append(rs.hard, CapabilityRule{})
		case TypeNoDoubleBooking:
			if err := wantKind(i, def, KindHard); err != nil {
				return nil, err
			}
			if err := noParams(i, def); err != nil {
				return nil, err
			}
			rs.hard = append(rs.hard, NoDoubleBookingRule{})
		case TypeMinRest:
			if err := wantKind(i, def, KindHard); err != nil {
				return nil, err
			}
			hours, err := floatParam(i, def, "hours")
			if err != nil {
				return nil, err
			}
			if hours <= 0 {
				return nil, &ConfigError{Index: i, Type: def.Type, Reason: fmt.Sprintf("hours must be positive, got %v", hours)}
			}
			rs.hard = append(rs.hard, MinRestRule{Hours: hours})
		case TypeMaxConsecutiveDays:
			if err := wantKind(i, def, KindHard); err != nil {
				return nil, err
			}
			days, err := intParam(i, def, "days")
			if err != nil {
				return nil, err
			}
			if days < 1 {
				return nil, &ConfigError{Index: i, Type: def.Type, Reason: fmt.Sprintf("days must be at least 1, got %d", days)}
			}
			rs.hard = append(rs.hard, MaxConsecutiveDaysRule{Days: days})
		case TypeOffRequest:
			if err := wantKind(i, def, KindHard); err != nil {
				return nil, err
			}
			if err := noParams(i, def); err != nil {
				return nil, err
			}
			rs.hard = append(rs.hard, OffRequestRule{})
		case TypeFairness:
			if err := wantKind(i, def, KindSoft); err != nil {
				return nil, err
			}
			weight, err := optionalWeight(i, def)
			if err != nil {
				return nil, err
			}
			rs.soft = append(rs.soft, FairnessRule{Weight: weight})
		case TypePreference:
			if err := wantKind(i, def, KindSoft); err != nil {
				return nil, err
			}
			weight, err := optionalWeight(i, def)
			if err != nil {
				return nil, err
			}
			rs.soft = append(rs.soft, PreferenceRule{Weight: weight})
		default:
			return nil, &ConfigError{Index: i, Type: def.Type, Reason: fmt.Sprintf("unknown rule type (kind %q)", kind)}
		}
	}
	return rs, nil
}

// Default returns the rule set used when no rule file is supplied: all five
// hard rules with the original tool's thresholds plus unit-weight fairness
// and preference costs.
func Default() *RuleSet {
	return &RuleSet{
		hard: []HardRule{
			CapabilityRule{},
			NoDoubleBookingRule{},
			MinRestRule{Hours: 11},
			MaxConsecutiveDaysRule{Days: 6},
			OffRequestRule{},
		},
		soft: []SoftRule{
			FairnessRule{Weight: 1},
			PreferenceRule{Weight: 1},
		},
	}
}

// Admissible reports whether every hard rule accepts the candidate.
func (rs *RuleSet) Admissible(st *State, staff model.StaffMember, slot model.DemandSlot) bool {
	for _, r := range rs.hard {
		if !r.Admissible(st, staff, slot) {
			return false
		}
	}
	return true
}

// CandidateCost sums soft-rule costs for the candidate placement.
func (rs *RuleSet) CandidateCost(st *State, staff model.StaffMember, slot model.DemandSlot) float64 {
	var total float64
	for _, r := range rs.soft {
		total += r.CandidateCost(st, staff, slot)
	}
	return total
}

// ScheduleCost sums soft-rule costs over a whole schedule state.
func (rs *RuleSet) ScheduleCost(st *State) float64 {
	var total float64
	for _, r := range rs.soft {
		total += r.ScheduleCost(st)
	}
	return total
}

// Violations sweeps the state with every hard rule and returns all findings.
func (rs *RuleSet) Violations(st *State) []model.Warning {
	var ws []model.Warning
	for _, r := range rs.hard {
		ws = append(ws, r.Violations(st)...)
	}
	return ws
}

// HardCount and SoftCount expose rule counts for logging.
func (rs *RuleSet) HardCount() int { return len(rs.hard) }
func (rs *RuleSet) SoftCount() int { return len(rs.soft) }

func wantKind(i int, def Def, want Kind) error {
	if Kind(def.Kind) != want {
		return &ConfigError{Index: i, Type: def.Type, Reason: fmt.Sprintf("kind must be %q, got %q", want, def.Kind)}
	}
	return nil
}

func noParams(i int, def Def) error {
	if len(def.Params) != 0 {
		return &ConfigError{Index: i, Type: def.Type, Reason: "takes no parameters"}
	}
	return nil
}

func floatParam(i int, def Def, key string) (float64, error) {
	raw, ok := def.Params[key]
	if !ok {
		return 0, &ConfigError{Index: i, Type: def.Type, Reason: fmt.Sprintf("missing required parameter %q", key)}
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, &ConfigError{Index: i, Type: def.Type, Reason: fmt.Sprintf("parameter %q must be a number, got %T", key, raw)}
	}
}

func intParam(i int, def Def, key string) (int, error) {
	f, err := floatParam(i, def, key)
	if err != nil {
		return 0, err
	}
	n := int(f)
	if float64(n) != f {
		return 0, &ConfigError{Index: i, Type: def.Type, Reason: fmt.Sprintf("parameter %q must be an integer, got %v", key, f)}
	}
	return n, nil
}

func optionalWeight(i int, def Def) (float64, error) {
	if _, ok := def.Params["weight"]; !ok {
		if len(def.Params) != 0 {
			return 0, &ConfigError{Index: i, Type: def.Type, Reason: "only the optional parameter \"weight\" is accepted"}
		}
		return 1, nil
	}
	weight, err := floatParam(i, def, "weight")
	if err != nil {
		return 0, err
	}
	if weight <= 0 {
		return 0, &ConfigError{Index: i, Type: def.Type, Reason: fmt.Sprintf("weight must be positive, got %v", weight)}
	}
	return weight, nil
}
