// Package instinct is the public facade over the engine: factory
// functions and function-adapter types so a host program never needs to
// import internal packages directly.
package instinct

import "github.com/rwortham/instinct/internal/domain"

// SensesFunc adapts a plain function to domain.Senses, the way
// http.HandlerFunc adapts a function to http.Handler.
type SensesFunc func(id domain.SenseID) int32

func (f SensesFunc) Read(id domain.SenseID) int32 { return f(id) }

// ActionsFunc adapts a plain function to domain.Actions.
type ActionsFunc func(id domain.ActionID, value int32, checkForComplete bool) domain.ReturnCode

func (f ActionsFunc) Execute(id domain.ActionID, value int32, checkForComplete bool) domain.ReturnCode {
	return f(id, value, checkForComplete)
}

var (
	_ domain.Senses  = SensesFunc(nil)
	_ domain.Actions = ActionsFunc(nil)
)
