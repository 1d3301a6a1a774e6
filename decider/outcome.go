package decider

import "github.com/smilemakc/jobtree/swf"

// OutcomeKind is the one terminal shape a decision tick reports
// (spec.md §3 "Decision batch", §4.4 invariant).
type OutcomeKind int

const (
	OutcomeSuspend OutcomeKind = iota
	OutcomeComplete
	OutcomeFail
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuspend:
		return "Suspend"
	case OutcomeComplete:
		return "Complete"
	case OutcomeFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// Outcome is the result of one Decide call: exactly one of Suspend
// (zero or more scheduling decisions), Complete (a result), or Fail (a
// reason/details pair).
type Outcome struct {
	Kind      OutcomeKind
	Decisions []swf.Decision
	Result    string
	Reason    string
	Details   string
}

// ToDecisions renders the outcome as the decision batch to submit via
// RespondDecisionTaskCompleted.
func (o *Outcome) ToDecisions() []swf.Decision {
	switch o.Kind {
	case OutcomeSuspend:
		return o.Decisions
	case OutcomeComplete:
		return []swf.Decision{{
			Kind:                      swf.DecisionCompleteWorkflowExecution,
			CompleteWorkflowExecution: &swf.CompleteWorkflowExecutionAttrs{Result: o.Result},
		}}
	case OutcomeFail:
		return []swf.Decision{{
			Kind:                  swf.DecisionFailWorkflowExecution,
			FailWorkflowExecution: &swf.FailWorkflowExecutionAttrs{Reason: o.Reason, Details: o.Details},
		}}
	default:
		return nil
	}
}
