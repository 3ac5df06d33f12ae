package executor

import "github.com/rwortham/instinct/internal/domain"

// executeChild resolves id to an Action, ActionPattern or Competence child
// and dispatches to it. A dangling id, or one resolving to an inadmissible
// kind, is a structural fault and returns Error.
func (e *Engine) executeChild(id domain.ElementID, parentDrive *domain.Drive) domain.ReturnCode {
	node, ok := e.store.FindChild(id)
	if !ok {
		return domain.Error
	}
	switch n := node.(type) {
	case *domain.Action:
		return e.executeAction(n, parentDrive)
	case *domain.ActionPattern:
		return e.executeActionPattern(n, parentDrive)
	case *domain.Competence:
		return e.executeCompetence(n, parentDrive)
	default:
		return domain.Error
	}
}

// recordAndNotify implements the Node Dispatch & Counters component
// every dispatch increments ExecutionCount, Success
// additionally increments SuccessCount, and the Monitor sink is notified
// per-event when the Config's global mask, the plan's global mask (set by
// `M G`) or the node's own mask has that event's bit set. Mutation happens
// before notification, so the snapshot reflects the post-update state.
func (e *Engine) recordAndNotify(node domain.Node, code domain.ReturnCode) {
	node.RecordDispatch(code)

	mask := e.config.GlobalMonitorMask | e.store.GlobalMonitorMask() | node.MonitorMask()
	if mask&domain.MonitorExecuted != 0 {
		e.monitor.OnExecuted(node.Snapshot())
	}
	switch code.Code() {
	case domain.Success:
		if mask&domain.MonitorSuccess != 0 {
			e.monitor.OnSuccess(node.Snapshot())
		}
	case domain.InProgress:
		if mask&domain.MonitorPending != 0 {
			e.monitor.OnInProgress(node.Snapshot())
		}
	case domain.Fail:
		if mask&domain.MonitorFail != 0 {
			e.monitor.OnFail(node.Snapshot())
		}
	case domain.Error:
		if mask&domain.MonitorError != 0 {
			e.monitor.OnError(node.Snapshot())
		}
	}
}
