package monitor

import (
	"time"

	"github.com/hamed0406/webhookmonitor/internal/state"
)

// EndpointOutcome is what one endpoint's handling produced in a cycle. Err is
// set when the probe or the handling itself failed unexpectedly; a plain
// unreachable endpoint is not an error.
type EndpointOutcome struct {
	Name       string
	Reachable  bool
	Transition state.Transition
	Err        error
}

type CycleReport struct {
	Started  time.Time
	Finished time.Time
	Outcomes []EndpointOutcome
}

// Alerts counts the transitions that produced a notification.
func (r CycleReport) Alerts() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Transition != state.NoChange {
			n++
		}
	}
	return n
}

func (r CycleReport) Errors() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
