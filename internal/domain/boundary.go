package domain

// Senses is the host's read-only sense interface. Reads are expected to be
// idempotent and side-effect free, though the engine does not enforce it.
type Senses interface {
	Read(id SenseID) int32
}

// Actions is the host's write interface for leaf effectors. checkForComplete
// is true when this call is a continuation of a previous InProgress return.
type Actions interface {
	Execute(id ActionID, value int32, checkForComplete bool) ReturnCode
}

// Monitor is the engine's write-only notification sink. Every method is
// called synchronously from inside RunPlan, after the node's state has
// already been mutated, so a snapshot reflects the post-update state. Node
// arguments are always value copies (Clone()), never the live node.
type Monitor interface {
	OnExecuted(node Node)
	OnSuccess(node Node)
	OnInProgress(node Node)
	OnFail(node Node)
	OnError(node Node)
	OnSense(releaser Releaser, senseValue int32)
}

// NoOpMonitor discards every event. Useful as a default when the host has
// not registered a sink, or as a base for a Monitor that only cares about a
// few of the six callbacks.
type NoOpMonitor struct{}

func (NoOpMonitor) OnExecuted(Node)                   {}
func (NoOpMonitor) OnSuccess(Node)                    {}
func (NoOpMonitor) OnInProgress(Node)                 {}
func (NoOpMonitor) OnFail(Node)                       {}
func (NoOpMonitor) OnError(Node)                      {}
func (NoOpMonitor) OnSense(Releaser, int32)           {}
