package executor

import "github.com/rwortham/instinct/internal/domain"

// executeCompetence is the Competence Executor. With no
// resume cursor it runs an Initial pass: a fresh descending-priority search
// for a released element. With a cursor set it runs a Subsequent pass:
// re-checking (or resuming, if mid Action Pattern) the element it last
// chose.
func (e *Engine) executeCompetence(c *domain.Competence, parentDrive *domain.Drive) domain.ReturnCode {
	if c.CurrentElementID == domain.NoElement {
		e.clearCEStatuses(c.ElementID)
		return e.competenceInitial(c, parentDrive)
	}
	return e.competenceSubsequent(c, parentDrive)
}

// competenceInitial searches the owned elements from the top priority band
// down, executing the first one whose releaser evaluates Success.
func (e *Engine) competenceInitial(c *domain.Competence, parentDrive *domain.Drive) domain.ReturnCode {
	var lastPriority uint16
	for {
		candidate := e.findCEForReleaserCheck(c.ElementID, lastPriority)
		if candidate == nil {
			result := domain.Fail
			e.recordAndNotify(c, result)
			return result
		}

		releaserResult := evaluateReleaser(&candidate.Releaser, parentStatusFor(parentDrive), e.senses, e.monitor)
		if releaserResult.Code() == domain.Success {
			ceResult := e.executeCE(candidate, parentDrive)
			return e.processExecutedCE(c, candidate, ceResult)
		}

		candidate.RuntimeStatus = domain.NotReleased
		lastPriority = candidate.Priority
	}
}

// competenceSubsequent re-evaluates (or resumes) the cursor element chosen
// on a prior cycle.
func (e *Engine) competenceSubsequent(c *domain.Competence, parentDrive *domain.Drive) domain.ReturnCode {
	cursor := e.store.CompetenceElementByID(c.CurrentElementID)
	if cursor == nil {
		result := domain.Error
		e.recordAndNotify(c, result)
		return result
	}

	for _, ce := range e.store.CompetenceElementsOf(c.ElementID) {
		if ce.ElementID != cursor.ElementID && ce.Priority == cursor.Priority && ce.RuntimeStatus == domain.NotReleased {
			ce.RuntimeStatus = domain.NotTested
		}
	}

	running := e.cursorHasRunningActionPattern(cursor)
	released := running
	if !running {
		releaserResult := evaluateReleaser(&cursor.Releaser, parentStatusFor(parentDrive), e.senses, e.monitor)
		released = releaserResult.Code() == domain.Success
	}

	if released {
		ceResult := e.executeCE(cursor, parentDrive)
		return e.processExecutedCE(c, cursor, ceResult)
	}

	cursor.RuntimeStatus = domain.NotReleased
	if c.UseORWithinGroup {
		if sibling := e.findSiblingAtPriority(c.ElementID, cursor.Priority, cursor.ElementID); sibling != nil {
			c.CurrentElementID = sibling.ElementID
			result := domain.InProgress
			e.recordAndNotify(c, result)
			return result
		}
	}

	c.CurrentElementID = domain.NoElement
	e.clearCEStatuses(c.ElementID)
	result := domain.Fail
	e.recordAndNotify(c, result)
	return result
}

// executeCE dispatches to the element's child and applies its retry policy:
// a Fail is converted to InProgress and re-attempted next cycle, with no
// delay, until the retry budget is exhausted.
func (e *Engine) executeCE(ce *domain.CompetenceElement, parentDrive *domain.Drive) domain.ReturnCode {
	result := e.executeChild(ce.ChildID, parentDrive)

	switch result.Code() {
	case domain.Success:
		ceResetRetries(ce)
	case domain.Fail:
		if ceUseRetry(ce) {
			result = result.WithCode(domain.InProgress)
		} else {
			ceResetRetries(ce)
		}
	}

	e.recordAndNotify(ce, result)
	return result
}

// processExecutedCE interprets the outcome of executeCE against the owning
// Competence: Success and terminal Fail/Error either advance to a sibling
// element (per the AND/OR search rules) or end the Competence's pass for
// this cycle and clear its cursor and elements' statuses.
func (e *Engine) processExecutedCE(c *domain.Competence, ce *domain.CompetenceElement, result domain.ReturnCode) domain.ReturnCode {
	switch result.Code() {
	case domain.Success:
		ce.RuntimeStatus = domain.CESuccess
		if next := e.findNextCE(c.ElementID, ce.Priority, c.UseORWithinGroup); next != nil {
			c.CurrentElementID = next.ElementID
			out := result.WithCode(domain.InProgress)
			e.recordAndNotify(c, out)
			return out
		}
		c.CurrentElementID = domain.NoElement
		e.clearCEStatuses(c.ElementID)
		e.recordAndNotify(c, result)
		return result

	case domain.InProgress:
		ce.RuntimeStatus = domain.CEInProgress
		c.CurrentElementID = ce.ElementID
		e.recordAndNotify(c, result)
		return result

	default: // Fail or Error
		if result.Code() == domain.Fail {
			ce.RuntimeStatus = domain.CEFailed
		} else {
			ce.RuntimeStatus = domain.CEError
		}
		if c.UseORWithinGroup {
			if sibling := e.findSiblingAtPriority(c.ElementID, ce.Priority, ce.ElementID); sibling != nil {
				c.CurrentElementID = sibling.ElementID
				out := result.WithCode(domain.InProgress)
				e.recordAndNotify(c, out)
				return out
			}
		}
		c.CurrentElementID = domain.NoElement
		e.clearCEStatuses(c.ElementID)
		e.recordAndNotify(c, result)
		return result
	}
}

// findCEForReleaserCheck returns the greatest-priority NotTested element at
// or below lastPriority, ties broken by table order. lastPriority of 0 is
// the Initial-pass sentinel meaning "no bound yet": the search starts at the
// highest priority band present and descends one band at a time as each
// band's candidates are exhausted and marked NotReleased.
func (e *Engine) findCEForReleaserCheck(parent domain.ElementID, lastPriority uint16) *domain.CompetenceElement {
	var best *domain.CompetenceElement
	for _, ce := range e.store.CompetenceElementsOf(parent) {
		if ce.RuntimeStatus != domain.NotTested {
			continue
		}
		if lastPriority != 0 && ce.Priority > lastPriority {
			continue
		}
		if best == nil || ce.Priority > best.Priority {
			best = ce
		}
	}
	return best
}

// findNextCE returns the lowest-priority element still in play (NotTested or
// NotReleased) above fromPriority - strictly above under OR semantics,
// at-or-above under AND semantics - implementing the ascending search that
// follows a CE's Success.
func (e *Engine) findNextCE(parent domain.ElementID, fromPriority uint16, strict bool) *domain.CompetenceElement {
	var best *domain.CompetenceElement
	for _, ce := range e.store.CompetenceElementsOf(parent) {
		if ce.RuntimeStatus != domain.NotTested && ce.RuntimeStatus != domain.NotReleased {
			continue
		}
		if strict {
			if ce.Priority <= fromPriority {
				continue
			}
		} else if ce.Priority < fromPriority {
			continue
		}
		if best == nil || ce.Priority < best.Priority {
			best = ce
		}
	}
	return best
}

// findSiblingAtPriority returns the first element still in play (NotTested
// or NotReleased) at exactly priority, in table order, other than exclude.
// Used for the within-band OR retry: another element at the same priority as
// the one (exclude) that just failed its releaser check or its execution.
func (e *Engine) findSiblingAtPriority(parent domain.ElementID, priority uint16, exclude domain.ElementID) *domain.CompetenceElement {
	for _, ce := range e.store.CompetenceElementsOf(parent) {
		if ce.Priority != priority || ce.ElementID == exclude {
			continue
		}
		if ce.RuntimeStatus == domain.NotTested || ce.RuntimeStatus == domain.NotReleased {
			return ce
		}
	}
	return nil
}

// cursorHasRunningActionPattern reports whether cursor's child is an Action
// Pattern mid-sequence, in which case the Subsequent pass must resume it
// without re-checking the releaser.
func (e *Engine) cursorHasRunningActionPattern(cursor *domain.CompetenceElement) bool {
	child, ok := e.store.FindChild(cursor.ChildID)
	if !ok {
		return false
	}
	ap, isAP := child.(*domain.ActionPattern)
	return isAP && ap.CurrentElementID != domain.NoElement
}

// clearCEStatuses resets every owned element to NotTested, run whenever the
// Competence terminates (Success with no successor, Fail, or Error) so the
// next Initial pass starts clean.
func (e *Engine) clearCEStatuses(parent domain.ElementID) {
	for _, ce := range e.store.CompetenceElementsOf(parent) {
		ce.RuntimeStatus = domain.NotTested
	}
}
