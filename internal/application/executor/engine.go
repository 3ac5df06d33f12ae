// Package executor implements the plan execution engine: the hierarchical
// scheduler that descends Drive -> Competence/ActionPattern/Action on every
// cycle, plus the timer processor that decays frequency and ramp counters
// between cycles. The engine is single-threaded and cooperative; it has no
// internal goroutines and is not safe for concurrent RunPlan/ProcessTimers
// calls - the host must serialize.
package executor

import (
	"math"

	"github.com/rwortham/instinct/internal/domain"
	"github.com/rwortham/instinct/internal/planstore"
)

// Config controls engine-wide behavior that the reference plan format does
// not itself encode.
type Config struct {
	// GlobalMonitorMask is OR'd with the plan's `M G` mask and a node's own
	// MonitorFlags before deciding whether to notify the Monitor sink for a
	// given dispatch event.
	GlobalMonitorMask domain.MonitorFlag
}

// DefaultConfig returns an Engine configuration with no global monitor bits
// set: unless the plan's `M G` mask is set, only nodes with their own local
// mask bits fire dispatch events. OnSense is not gated by any mask: every
// sense read is reported to the Monitor.
func DefaultConfig() Config {
	return Config{}
}

// Engine owns one plan's tables and drives it forward one cycle at a time.
// Multiple Engines may coexist in one process; there is no package-level
// mutable state.
type Engine struct {
	store   *planstore.Store
	senses  domain.Senses
	actions domain.Actions
	monitor domain.Monitor
	config  Config
}

// NewEngine wires a Store to its Senses/Actions/Monitor collaborators. A nil
// monitor is replaced with domain.NoOpMonitor{}.
func NewEngine(store *planstore.Store, senses domain.Senses, actions domain.Actions, monitor domain.Monitor, config Config) *Engine {
	if monitor == nil {
		monitor = domain.NoOpMonitor{}
	}
	return &Engine{store: store, senses: senses, actions: actions, monitor: monitor, config: config}
}

// Store returns the engine's underlying Plan Store, for hosts that need to
// inspect or mutate it directly (e.g. the command gateway).
func (e *Engine) Store() *planstore.Store { return e.store }

// RunPlan is the Drive Scheduler: on every call it
// selects at most one Drive to run and performs at most one Action
// invocation, returning that Drive's result code, or Fail if no Drive
// qualified this cycle.
func (e *Engine) RunPlan() domain.ReturnCode {
	drives := e.store.Drives()
	for i := range drives {
		drives[i].Checked = false
	}

	for {
		idx := e.nextUncheckedDrive(drives)
		if idx < 0 {
			return domain.Fail
		}
		d := &drives[idx]

		if e.checkFrequency(d) {
			releaserResult := evaluateReleaser(&d.Releaser, parentStatusFor(d), e.senses, e.monitor)
			if releaserResult.Code() == domain.Success {
				e.interruptOtherRunningDrives(drives, d.ElementID)

				result := e.executeDrive(d)
				e.recordAndNotify(d, result)

				if result.Code() == domain.InProgress {
					d.Status = domain.Running
				} else {
					d.Status = domain.NotRunning
					d.Releaser.RuntimeReleased = false
				}
				if result.Code() == domain.Success && d.RampInterval > 0 {
					d.RuntimePriority = d.Priority
				}
				return result
			}
		}

		d.Status = domain.NotRunning
		d.Releaser.RuntimeReleased = false
		d.Checked = true
	}
}

// parentStatusFor returns the Drive's own status: a Drive's releaser is
// evaluated with itself as the "parent" for the NotRunning-reset and
// Interrupted-flex-latch rules.
func parentStatusFor(d *domain.Drive) domain.DriveStatus {
	return d.Status
}

// nextUncheckedDrive returns the index of the unchecked Drive with the
// greatest RuntimePriority, ties broken by table order, or -1 if none
// remain unchecked.
func (e *Engine) nextUncheckedDrive(drives []domain.Drive) int {
	best := -1
	for i := range drives {
		if drives[i].Checked {
			continue
		}
		if best == -1 || drives[i].RuntimePriority > drives[best].RuntimePriority {
			best = i
		}
	}
	return best
}

// checkFrequency implements the frequency gate: an already-Running Drive is
// never re-gated; otherwise the gate opens only once per FrequencyInterval.
func (e *Engine) checkFrequency(d *domain.Drive) bool {
	if d.Status == domain.Running {
		return true
	}
	if d.RuntimeFrequencyCounter == 0 {
		d.RuntimeFrequencyCounter = d.FrequencyInterval
		return true
	}
	return false
}

// interruptOtherRunningDrives marks every Drive other than the chosen one as
// Interrupted if it was Running, recording the preemption so its releaser
// uses the wider flex-latch band when it resumes.
func (e *Engine) interruptOtherRunningDrives(drives []domain.Drive, chosen domain.ElementID) {
	for i := range drives {
		if drives[i].ElementID != chosen && drives[i].Status == domain.Running {
			drives[i].Status = domain.Interrupted
		}
	}
}

// executeDrive dispatches to the Drive's child node.
func (e *Engine) executeDrive(d *domain.Drive) domain.ReturnCode {
	return e.executeChild(d.ChildID, d)
}

// ProcessTimers is the Timer Processor: it advances
// every Drive's frequency and ramp counters by deltaTicks, applying an
// urgency boost to the ramp once a Drive's releaser has fired.
func (e *Engine) ProcessTimers(deltaTicks uint32) {
	if deltaTicks == 0 {
		return
	}
	drives := e.store.Drives()
	for i := range drives {
		d := &drives[i]

		if d.FrequencyInterval > 0 {
			d.RuntimeFrequencyCounter = domain.SaturatingSubUint16(d.RuntimeFrequencyCounter, deltaTicks)
		}

		if d.RampInterval == 0 {
			continue
		}
		d.RuntimeRampCounter = domain.SaturatingSubUint16(d.RuntimeRampCounter, deltaTicks)
		if d.RuntimeRampCounter != 0 {
			continue
		}

		d.RuntimeRampCounter = d.RampInterval
		d.RuntimePriority = domain.SaturatingAddUint16(uint32(d.RuntimePriority), uint32(d.RampIncrement))

		if d.Releaser.RuntimeReleased && d.UrgencyMultiplier > 0 {
			boost := uint64(d.RuntimePriority) * uint64(d.UrgencyMultiplier) / 32
			if boost > math.MaxUint32 {
				boost = math.MaxUint32
			}
			d.RuntimePriority = domain.SaturatingAddUint16(uint32(d.RuntimePriority), uint32(boost))
		}
	}
}
