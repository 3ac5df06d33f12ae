package executor

import "github.com/rwortham/instinct/internal/domain"

// executeActionPattern is the Action Pattern Executor:
// it steps through its owned elements in Order, resuming at CurrentElementID
// if mid-sequence, and reports InProgress until the last element succeeds.
func (e *Engine) executeActionPattern(ap *domain.ActionPattern, parentDrive *domain.Drive) domain.ReturnCode {
	var current *domain.ActionPatternElement
	if ap.CurrentElementID == domain.NoElement {
		e.clearAPEStatuses(ap.ElementID)
		current = e.findNextAPE(ap.ElementID, 0)
		if current == nil {
			result := domain.Fail
			e.recordAndNotify(ap, result)
			return result
		}
	} else {
		current = e.store.ActionPatternElementByID(ap.CurrentElementID)
		if current == nil {
			result := domain.Error
			e.recordAndNotify(ap, result)
			return result
		}
	}

	childResult := e.executeAPE(current, parentDrive)

	switch childResult.Code() {
	case domain.Success:
		current.RuntimeStatus = domain.CESuccess
		if next := e.findNextAPE(ap.ElementID, current.Order); next != nil {
			ap.CurrentElementID = next.ElementID
			result := childResult.WithCode(domain.InProgress)
			e.recordAndNotify(ap, result)
			return result
		}
		ap.CurrentElementID = domain.NoElement
		e.clearAPEStatuses(ap.ElementID)
		e.recordAndNotify(ap, childResult)
		return childResult

	case domain.InProgress:
		current.RuntimeStatus = domain.CEInProgress
		ap.CurrentElementID = current.ElementID
		e.recordAndNotify(ap, childResult)
		return childResult

	default: // Fail or Error
		if childResult.Code() == domain.Fail {
			current.RuntimeStatus = domain.CEFailed
		} else {
			current.RuntimeStatus = domain.CEError
		}
		ap.CurrentElementID = domain.NoElement
		e.clearAPEStatuses(ap.ElementID)
		e.recordAndNotify(ap, childResult)
		return childResult
	}
}

// executeAPE dispatches to the element's child and records/notifies on the
// element itself, exactly as executeCE does for a CompetenceElement.
func (e *Engine) executeAPE(ape *domain.ActionPatternElement, parentDrive *domain.Drive) domain.ReturnCode {
	result := e.executeChild(ape.ChildID, parentDrive)
	e.recordAndNotify(ape, result)
	return result
}

// findNextAPE returns the lowest-Order NotTested element at or after
// fromOrder, or nil if none remain.
func (e *Engine) findNextAPE(parent domain.ElementID, fromOrder uint16) *domain.ActionPatternElement {
	var best *domain.ActionPatternElement
	for _, ape := range e.store.ActionPatternElementsOf(parent) {
		if ape.RuntimeStatus != domain.NotTested {
			continue
		}
		if ape.Order < fromOrder {
			continue
		}
		if best == nil || ape.Order < best.Order {
			best = ape
		}
	}
	return best
}

// clearAPEStatuses resets every owned element to NotTested, run whenever the
// Action Pattern terminates (Success with no successor, Fail, or Error) so
// the next Initial pass starts clean.
func (e *Engine) clearAPEStatuses(parent domain.ElementID) {
	for _, ape := range e.store.ActionPatternElementsOf(parent) {
		ape.RuntimeStatus = domain.NotTested
	}
}
