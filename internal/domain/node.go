package domain

// MonitorFlag is one bit of the 6-bit monitor_flags mask every node carries,
// controlling which dispatch events are forwarded to the Monitor sink.
type MonitorFlag uint8

const (
	MonitorExecuted   MonitorFlag = 0x01
	MonitorSuccess    MonitorFlag = 0x02
	MonitorPending    MonitorFlag = 0x04
	MonitorFail       MonitorFlag = 0x08
	MonitorError      MonitorFlag = 0x10
	MonitorSense      MonitorFlag = 0x20
	MonitorAllFlags   MonitorFlag = 0x3F
)

// Header holds the fields common to every node kind: its id, the two
// lifetime counters, and the local monitor mask.
type Header struct {
	ElementID      ElementID
	ExecutionCount uint32
	SuccessCount   uint32
	MonitorFlags   MonitorFlag
}

// RecordDispatch increments ExecutionCount on every dispatch and
// SuccessCount only when the outcome was Success.
func (h *Header) RecordDispatch(code ReturnCode) {
	h.ExecutionCount++
	if code.Code() == Success {
		h.SuccessCount++
	}
}

// ID returns the node's element id, satisfying the Node interface.
func (h *Header) ID() ElementID { return h.ElementID }

// MonitorMask returns the node's local monitor mask, satisfying the Node
// interface.
func (h *Header) MonitorMask() MonitorFlag { return h.MonitorFlags }

// SetMonitorMask sets the node's local monitor mask (the `M N` command).
func (h *Header) SetMonitorMask(mask MonitorFlag) { h.MonitorFlags = mask }

// Counts returns the node's lifetime execution and success counters, for
// the `D C` command.
func (h *Header) Counts() (execution, success uint32) { return h.ExecutionCount, h.SuccessCount }

// Node is implemented by every typed node struct (Drive, Competence,
// CompetenceElement, ActionPattern, ActionPatternElement, Action). The Plan
// Store holds them as this interface so it can look nodes up without
// knowing their concrete kind ahead of time; callers type-assert to the
// concrete type once Kind() tells them which one it is.
type Node interface {
	ID() ElementID
	Kind() NodeKind
	MonitorMask() MonitorFlag
	SetMonitorMask(mask MonitorFlag)
	RecordDispatch(code ReturnCode)
	Counts() (execution, success uint32)
	// Snapshot returns an independent value copy of the node, safe to hand
	// to a Monitor sink: the engine must never expose the live node.
	Snapshot() Node
}
