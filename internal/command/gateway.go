// Package command implements the Command Gateway: the line-based text
// grammar for building, inspecting, and
// resetting a plan. Grounded on the reference implementation's
// CmdPlanner.cpp - the same two-letter command codes, the same per-command
// argument counts, and the same `A *` recreate-line and counter-line render
// formats.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rwortham/instinct/internal/domain"
	"github.com/rwortham/instinct/internal/domain/errors"
	"github.com/rwortham/instinct/internal/planstore"
)

const (
	replyOK   = "OK"
	replyFail = "FAIL"
)

// Gateway parses and dispatches one text command line at a time against a
// Store. It never partially applies a malformed command: argument count and
// integer syntax are validated before anything is mutated. Add commands
// convert each value to its field's width without a range check; only `R I`
// rejects out-of-range values.
type Gateway struct {
	store *planstore.Store
}

// NewGateway wraps store for command dispatch.
func NewGateway(store *planstore.Store) *Gateway {
	return &Gateway{store: store}
}

// Execute parses and runs one line, returning the exact reply text the
// grammar specifies: "OK", "FAIL", or a data line.
func (g *Gateway) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return replyFail
	}
	cmd := fields[0] + fields[1]
	args := fields[2:]

	switch cmd {
	case "AD":
		return g.addDrive(args)
	case "AC":
		return g.addCompetence(args)
	case "AA":
		return g.addAction(args)
	case "AP":
		return g.addActionPattern(args)
	case "AE":
		return g.addCompetenceElement(args)
	case "AL":
		return g.addActionPatternElement(args)
	case "DN":
		return g.displayNode(args)
	case "DC":
		return g.displayNodeCounters(args)
	case "DH":
		return g.displayHighestID(args)
	case "MN":
		return g.setNodeMonitorMask(args)
	case "MG":
		return g.setGlobalMonitorMask(args)
	case "RC":
		return g.resetPlan(args)
	case "RI":
		return g.reinitialisePlan(args)
	case "SC":
		return g.displayCounts(args)
	case "SS":
		return g.displayUsageBytes(args)
	case "IS":
		return g.setPlanID(args)
	case "IR":
		return g.displayPlanID(args)
	default:
		return replyFail
	}
}

// parseInts requires exactly n well-formed integers in args, returning the
// validation error in full; the command handlers discard the detail, so
// Execute (and the REST Gateway, which calls it) only ever surfaces "FAIL".
func parseInts(args []string, n int) ([]int64, error) {
	if len(args) != n {
		return nil, errors.NewValidationError("args", fmt.Sprintf("want %d integers, got %d", n, len(args)))
	}
	out := make([]int64, n)
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, errors.NewValidationError("args", fmt.Sprintf("argument %d is not an integer: %q", i, a))
		}
		out[i] = v
	}
	return out, nil
}

func (g *Gateway) addDrive(args []string) string {
	v, err := parseInts(args, 12)
	if err != nil {
		return replyFail
	}
	d := domain.Drive{
		Header:  domain.Header{ElementID: domain.ElementID(v[0])},
		ChildID: domain.ElementID(v[1]),
		Priority: uint16(v[2]),
		FrequencyInterval: uint16(v[3]),
		Releaser: domain.Releaser{
			SenseID:             domain.SenseID(v[4]),
			Comparator:          domain.Comparator(v[5]),
			Trigger:             int32(v[6]),
			Hysteresis:          int32(v[7]),
			FlexLatchHysteresis: int32(v[8]),
		},
		RampIncrement:     uint16(v[9]),
		UrgencyMultiplier: uint8(v[10]),
		RampInterval:      uint16(v[11]),
	}
	if err := g.store.AddDrive(d); err != nil {
		return replyFail
	}
	return replyOK
}

func (g *Gateway) addCompetence(args []string) string {
	v, err := parseInts(args, 2)
	if err != nil {
		return replyFail
	}
	c := domain.Competence{
		Header:           domain.Header{ElementID: domain.ElementID(v[0])},
		UseORWithinGroup: v[1] != 0,
	}
	if err := g.store.AddCompetence(c); err != nil {
		return replyFail
	}
	return replyOK
}

func (g *Gateway) addAction(args []string) string {
	v, err := parseInts(args, 3)
	if err != nil {
		return replyFail
	}
	a := domain.Action{
		Header:      domain.Header{ElementID: domain.ElementID(v[0])},
		ActionID:    domain.ActionID(v[1]),
		ActionValue: int32(v[2]),
	}
	if err := g.store.AddAction(a); err != nil {
		return replyFail
	}
	return replyOK
}

func (g *Gateway) addActionPattern(args []string) string {
	v, err := parseInts(args, 1)
	if err != nil {
		return replyFail
	}
	ap := domain.ActionPattern{Header: domain.Header{ElementID: domain.ElementID(v[0])}}
	if err := g.store.AddActionPattern(ap); err != nil {
		return replyFail
	}
	return replyOK
}

func (g *Gateway) addCompetenceElement(args []string) string {
	v, err := parseInts(args, 10)
	if err != nil {
		return replyFail
	}
	ce := domain.CompetenceElement{
		Header:     domain.Header{ElementID: domain.ElementID(v[0])},
		ParentID:   domain.ElementID(v[1]),
		ChildID:    domain.ElementID(v[2]),
		Priority:   uint16(v[3]),
		RetryLimit: uint8(v[4]),
		Releaser: domain.Releaser{
			SenseID:             domain.SenseID(v[5]),
			Comparator:          domain.Comparator(v[6]),
			Trigger:             int32(v[7]),
			Hysteresis:          int32(v[8]),
			FlexLatchHysteresis: int32(v[9]),
		},
	}
	if err := g.store.AddCompetenceElement(ce); err != nil {
		return replyFail
	}
	return replyOK
}

func (g *Gateway) addActionPatternElement(args []string) string {
	v, err := parseInts(args, 4)
	if err != nil {
		return replyFail
	}
	ape := domain.ActionPatternElement{
		Header:   domain.Header{ElementID: domain.ElementID(v[0])},
		ParentID: domain.ElementID(v[1]),
		ChildID:  domain.ElementID(v[2]),
		Order:    uint16(v[3]),
	}
	if err := g.store.AddActionPatternElement(ape); err != nil {
		return replyFail
	}
	return replyOK
}

// displayNode is `D N`: emit the `A *` line that would recreate the node.
func (g *Gateway) displayNode(args []string) string {
	v, err := parseInts(args, 1)
	if err != nil {
		return replyFail
	}
	node, ok := g.store.Get(domain.ElementID(v[0]))
	if !ok {
		return replyFail
	}
	switch n := node.(type) {
	case *domain.Drive:
		return fmt.Sprintf("A D %d %d %d %d %d %d %d %d %d %d %d %d",
			n.ElementID, n.ChildID, n.Priority, n.FrequencyInterval,
			n.Releaser.SenseID, n.Releaser.Comparator, n.Releaser.Trigger,
			n.Releaser.Hysteresis, n.Releaser.FlexLatchHysteresis,
			n.RampIncrement, n.UrgencyMultiplier, n.RampInterval)
	case *domain.Competence:
		or := 0
		if n.UseORWithinGroup {
			or = 1
		}
		return fmt.Sprintf("A C %d %d", n.ElementID, or)
	case *domain.CompetenceElement:
		return fmt.Sprintf("A E %d %d %d %d %d %d %d %d %d %d",
			n.ElementID, n.ParentID, n.ChildID, n.Priority, n.RetryLimit,
			n.Releaser.SenseID, n.Releaser.Comparator, n.Releaser.Trigger,
			n.Releaser.Hysteresis, n.Releaser.FlexLatchHysteresis)
	case *domain.ActionPattern:
		return fmt.Sprintf("A P %d", n.ElementID)
	case *domain.ActionPatternElement:
		return fmt.Sprintf("A L %d %d %d %d", n.ElementID, n.ParentID, n.ChildID, n.Order)
	case *domain.Action:
		return fmt.Sprintf("A A %d %d %d", n.ElementID, n.ActionID, n.ActionValue)
	default:
		return replyFail
	}
}

// displayNodeCounters is `D C`: emit `ElementID ExecutionCount SuccessCount`
// plus per-kind runtime fields.
func (g *Gateway) displayNodeCounters(args []string) string {
	v, err := parseInts(args, 1)
	if err != nil {
		return replyFail
	}
	node, ok := g.store.Get(domain.ElementID(v[0]))
	if !ok {
		return replyFail
	}
	execCount, successCount := node.Counts()
	base := fmt.Sprintf("%d %d %d", node.ID(), execCount, successCount)
	switch n := node.(type) {
	case *domain.Drive:
		return fmt.Sprintf("%s %d %d %d %d", base, n.RuntimeRampCounter, n.RuntimeFrequencyCounter, n.RuntimePriority, n.Status)
	case *domain.CompetenceElement:
		return fmt.Sprintf("%s %d", base, n.RuntimeStatus)
	case *domain.ActionPattern:
		return fmt.Sprintf("%s %d", base, n.CurrentElementID)
	case *domain.ActionPatternElement:
		return fmt.Sprintf("%s %d", base, n.RuntimeStatus)
	case *domain.Action:
		complete := 0
		if n.CheckForComplete {
			complete = 1
		}
		return fmt.Sprintf("%s %d", base, complete)
	case *domain.Competence:
		return fmt.Sprintf("%s %d", base, n.CurrentElementID)
	default:
		return replyFail
	}
}

func (g *Gateway) displayHighestID(args []string) string {
	if len(args) != 0 {
		return replyFail
	}
	return fmt.Sprintf("%d", g.store.MaxElementID())
}

// setNodeMonitorMask is `M N`: element id plus 6 per-event bits
// (Executed, Success, Pending, Fail, Error, Sense), combined into one mask.
func (g *Gateway) setNodeMonitorMask(args []string) string {
	v, err := parseInts(args, 7)
	if err != nil {
		return replyFail
	}
	node, ok := g.store.Get(domain.ElementID(v[0]))
	if !ok {
		return replyFail
	}
	node.SetMonitorMask(maskFromBits(v[1:]))
	return replyOK
}

// setGlobalMonitorMask is `M G`: 6 per-event bits, no element id.
func (g *Gateway) setGlobalMonitorMask(args []string) string {
	v, err := parseInts(args, 6)
	if err != nil {
		return replyFail
	}
	g.store.SetGlobalMonitorMask(maskFromBits(v))
	return replyOK
}

func maskFromBits(bits []int64) domain.MonitorFlag {
	flags := [6]domain.MonitorFlag{
		domain.MonitorExecuted, domain.MonitorSuccess, domain.MonitorPending,
		domain.MonitorFail, domain.MonitorError, domain.MonitorSense,
	}
	var mask domain.MonitorFlag
	for i, b := range bits {
		if b != 0 {
			mask |= flags[i]
		}
	}
	return mask
}

func (g *Gateway) resetPlan(args []string) string {
	if len(args) != 0 {
		return replyFail
	}
	sizes := [6]uint16{}
	for _, k := range domain.NodeKinds {
		sizes[k] = g.store.Capacity(k)
	}
	if err := g.store.Initialise(sizes); err != nil {
		return replyFail
	}
	return replyOK
}

// reinitialisePlan is `R I`: 6 capacities in the fixed order ActionPattern,
// ActionPatternElement, Competence, CompetenceElement, Drive, Action.
func (g *Gateway) reinitialisePlan(args []string) string {
	v, err := parseInts(args, 6)
	if err != nil {
		return replyFail
	}
	var sizes [6]uint16
	for i := range sizes {
		if v[i] < 0 || v[i] > 0xFFFF {
			return replyFail
		}
		sizes[i] = uint16(v[i])
	}
	if err := g.store.Initialise(sizes); err != nil {
		return replyFail
	}
	return replyOK
}

// displayCounts is `S C`: per-kind counts, space-separated, in the fixed
// capacity order.
func (g *Gateway) displayCounts(args []string) string {
	if len(args) != 0 {
		return replyFail
	}
	parts := make([]string, len(domain.NodeKinds))
	for i, k := range domain.NodeKinds {
		parts[i] = fmt.Sprintf("%d", g.store.Count(k))
	}
	return strings.Join(parts, " ")
}

func (g *Gateway) displayUsageBytes(args []string) string {
	if len(args) != 0 {
		return replyFail
	}
	return fmt.Sprintf("%d", g.store.UsageBytes())
}

func (g *Gateway) setPlanID(args []string) string {
	v, err := parseInts(args, 1)
	if err != nil {
		return replyFail
	}
	g.store.SetPlanID(int32(v[0]))
	return replyOK
}

func (g *Gateway) displayPlanID(args []string) string {
	if len(args) != 0 {
		return replyFail
	}
	return fmt.Sprintf("%d", g.store.PlanID())
}
