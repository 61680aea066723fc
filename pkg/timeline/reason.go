package timeline

// Reason classifies the outcome of a transition validation. A rejection is a
// normal result, not an error; callers branch on the Reason value.
type Reason string

const (
	ReasonValid               Reason = "valid"
	ReasonNoActions           Reason = "no_actions"
	ReasonUninitializedState  Reason = "uninitialized_state"
	ReasonDisconnected        Reason = "disconnected"
	ReasonPatternInconsistent Reason = "pattern_inconsistent"
	ReasonExceededDivergence  Reason = "exceeded_divergence"
	ReasonInternalError       Reason = "internal_error"
)

// String returns the log-facing description of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonValid:
		return "valid progression"
	case ReasonNoActions:
		return "no actions available"
	case ReasonUninitializedState:
		return "story state not initialized"
	case ReasonDisconnected:
		return "invalid story progression - beats not connected"
	case ReasonPatternInconsistent:
		return "progression breaks archetypal pattern consistency"
	case ReasonExceededDivergence:
		return "story diverged too far from canonical ending"
	case ReasonInternalError:
		return "validation error"
	default:
		return string(r)
	}
}

// Result is the outcome of one transition validation.
type Result struct {
	Allowed bool
	Drift   float64
	Reason  Reason
}
