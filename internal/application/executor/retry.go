package executor

import "github.com/rwortham/instinct/internal/domain"

// ceCanRetry reports whether ce has another retry available. Unlike a
// workflow step's time-based backoff retry, a Competence Element retry has
// no delay: a Fail converted to InProgress is simply re-attempted on the
// Competence's next cycle via its resume cursor.
func ceCanRetry(ce *domain.CompetenceElement) bool {
	return ce.RetryLimit > 0 && ce.RuntimeRetryCount < ce.RetryLimit
}

// ceUseRetry consumes one retry from ce's budget, returning false if none
// remained.
func ceUseRetry(ce *domain.CompetenceElement) bool {
	if !ceCanRetry(ce) {
		return false
	}
	ce.RuntimeRetryCount++
	return true
}

// ceResetRetries clears ce's consumed retry count, as happens whenever the
// CE succeeds.
func ceResetRetries(ce *domain.CompetenceElement) {
	ce.RuntimeRetryCount = 0
}
