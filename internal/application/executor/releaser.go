package executor

import "github.com/rwortham/instinct/internal/domain"

// evaluateReleaser implements the Releaser Evaluator:
// TR/FL are unconditional and never read a sense; everything else reads one
// sense value and applies hysteresis (or the wider flex-latch band while
// the owning Drive is Interrupted) around the previous evaluation's result.
func evaluateReleaser(r *domain.Releaser, parentDriveStatus domain.DriveStatus, senses domain.Senses, monitor domain.Monitor) domain.ReturnCode {
	switch r.Comparator {
	case domain.CompTR:
		r.RuntimeReleased = true
		return domain.Success
	case domain.CompFL:
		r.RuntimeReleased = false
		return domain.Fail
	}

	if parentDriveStatus == domain.NotRunning {
		r.RuntimeReleased = false
	}

	senseValue := senses.Read(r.SenseID)
	if monitor != nil {
		monitor.OnSense(*r, senseValue)
	}

	wasReleased := r.RuntimeReleased
	hysteresis := r.Hysteresis
	if parentDriveStatus == domain.Interrupted {
		hysteresis = r.FlexLatchHysteresis
	}

	var result domain.ReturnCode
	switch r.Comparator {
	case domain.CompEQ:
		result = boolToReturnCode(senseValue == r.Trigger)
	case domain.CompNE:
		result = boolToReturnCode(senseValue != r.Trigger)
	case domain.CompGT:
		threshold := r.Trigger
		if wasReleased {
			threshold = r.Trigger - hysteresis
		}
		result = boolToReturnCode(senseValue > threshold)
	case domain.CompLT:
		threshold := r.Trigger
		if wasReleased {
			threshold = r.Trigger + hysteresis
		}
		result = boolToReturnCode(senseValue < threshold)
	default:
		return domain.Error
	}

	r.RuntimeReleased = result == domain.Success
	return result
}

func boolToReturnCode(b bool) domain.ReturnCode {
	if b {
		return domain.Success
	}
	return domain.Fail
}
