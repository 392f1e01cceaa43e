package sweep

import "fmt"

// Technique identifies one of the three sweep strategies.
type Technique int

const (
	// TechniqueMGA is the simple alternatives sweep (one-level).
	TechniqueMGA Technique = iota + 1
	// TechniqueMOO is the objective-cap sweep (one-level).
	TechniqueMOO
	// TechniqueMGPA is the nested cap/alternatives sweep (two-level).
	TechniqueMGPA
)

// Techniques lists all techniques in their canonical order.
var Techniques = []Technique{TechniqueMGA, TechniqueMOO, TechniqueMGPA}

// String returns the technique's configuration-language name.
func (t Technique) String() string {
	switch t {
	case TechniqueMGA:
		return "mga"
	case TechniqueMOO:
		return "moo"
	case TechniqueMGPA:
		return "mgpa"
	default:
		return fmt.Sprintf("Technique(%d)", int(t))
	}
}

// Method is the weighting method for alternatives generation.
// The zero value means "not set".
type Method int

const (
	MethodInteger Method = iota + 1
	MethodNormalized
	MethodRandom
)

// ParseMethod maps a configuration word to a Method.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "integer":
		return MethodInteger, true
	case "normalized":
		return MethodNormalized, true
	case "random":
		return MethodRandom, true
	default:
		return 0, false
	}
}

// String returns the configuration-language spelling of the method.
func (m Method) String() string {
	switch m {
	case MethodInteger:
		return "integer"
	case MethodNormalized:
		return "normalized"
	case MethodRandom:
		return "random"
	default:
		return ""
	}
}

// Objective is a named objective function selectable by the cap sweeps.
// The zero value means "not set".
type Objective int

const (
	ObjectiveCost Objective = iota + 1
	ObjectiveEmissions
	ObjectiveEnergySR
	ObjectiveMaterialSR
)

// ParseObjective maps a configuration word to an Objective.
func ParseObjective(s string) (Objective, bool) {
	switch s {
	case "cost":
		return ObjectiveCost, true
	case "emissions":
		return ObjectiveEmissions, true
	case "energySR":
		return ObjectiveEnergySR, true
	case "materialSR":
		return ObjectiveMaterialSR, true
	default:
		return 0, false
	}
}

// String returns the configuration-language spelling of the objective.
func (o Objective) String() string {
	switch o {
	case ObjectiveCost:
		return "cost"
	case ObjectiveEmissions:
		return "emissions"
	case ObjectiveEnergySR:
		return "energySR"
	case ObjectiveMaterialSR:
		return "materialSR"
	default:
		return ""
	}
}

// Spec holds one technique's sweep parameters as parsed from a
// configuration file. Optional numerics are pointers so that "absent"
// and "zero" stay distinguishable; a Spec is either fully unset or has
// the fields its technique needs.
//
// Which fields apply depends on the technique:
//   - MGA uses Slack, Iterations, Method
//   - MOO uses F1, F2, C, NCaps
//   - MGPA uses all MOO fields plus Slack1, Slack2, Iterations, Method
type Spec struct {
	Slack      *float64
	Slack1     *float64
	Slack2     *float64
	Iterations *int
	NCaps      *int
	C          *float64
	Method     Method
	F1         Objective
	F2         Objective
}

// IsZero reports whether no field of the spec has been set.
func (s Spec) IsZero() bool {
	return s.Slack == nil && s.Slack1 == nil && s.Slack2 == nil &&
		s.Iterations == nil && s.NCaps == nil && s.C == nil &&
		s.Method == 0 && s.F1 == 0 && s.F2 == 0
}

// Expand returns the ordered scenario names technique t derives from
// the base name, given the counts present in the spec. A missing count
// yields no names. The ordering is cap-major, iteration-minor for MGPA
// and must stay stable run-to-run: artifact filenames depend on it.
func Expand(t Technique, s Spec, base string) []string {
	switch t {
	case TechniqueMGA:
		if s.Iterations == nil {
			return nil
		}
		return derive(base, "mga", *s.Iterations)
	case TechniqueMOO:
		if s.NCaps == nil {
			return nil
		}
		return derive(base, "moo", *s.NCaps)
	case TechniqueMGPA:
		if s.NCaps == nil {
			return nil
		}
		// Outer entries reuse the _moo_ affix, inner entries the _mga_
		// affix. Inherited naming contract; see the package comment.
		names := make([]string, 0, *s.NCaps)
		for i := 0; i < *s.NCaps; i++ {
			cap := fmt.Sprintf("%s_moo_%d", base, i)
			names = append(names, cap)
			if s.Iterations != nil {
				names = append(names, derive(cap, "mga", *s.Iterations)...)
			}
		}
		return names
	default:
		return nil
	}
}

// derive builds n one-level names of the form <base>_<affix>_<index>.
func derive(base, affix string, n int) []string {
	if n <= 0 {
		return nil
	}
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, fmt.Sprintf("%s_%s_%d", base, affix, i))
	}
	return names
}
