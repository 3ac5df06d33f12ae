package executor

import "github.com/rwortham/instinct/internal/domain"

// executeAction is Action Execution: invoke the host's
// Actions collaborator, then update CheckForComplete so the next
// invocation, if any, is told it is a continuation.
func (e *Engine) executeAction(a *domain.Action, parentDrive *domain.Drive) domain.ReturnCode {
	result := e.actions.Execute(a.ActionID, a.ActionValue, a.CheckForComplete)
	a.CheckForComplete = result.Code() == domain.InProgress
	e.recordAndNotify(a, result)
	return result
}
