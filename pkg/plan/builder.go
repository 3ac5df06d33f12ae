// Package plan is the public builder API for constructing a plan
// programmatically instead of through the text command grammar: fluent
// per-kind builders collect domain values, and PlanBuilder applies the
// whole set to a Plan Store in one call.
package plan

import (
	"github.com/rwortham/instinct/internal/domain"
	"github.com/rwortham/instinct/internal/planstore"
)

// DriveBuilder builds one domain.Drive.
type DriveBuilder struct {
	d domain.Drive
}

func NewDriveBuilder(id domain.ElementID) *DriveBuilder {
	return &DriveBuilder{d: domain.Drive{Header: domain.Header{ElementID: id}}}
}

func (b *DriveBuilder) Child(id domain.ElementID) *DriveBuilder { b.d.ChildID = id; return b }
func (b *DriveBuilder) Priority(p uint16) *DriveBuilder         { b.d.Priority = p; return b }
func (b *DriveBuilder) FrequencyInterval(n uint16) *DriveBuilder {
	b.d.FrequencyInterval = n
	return b
}
func (b *DriveBuilder) RampIncrement(n uint16) *DriveBuilder { b.d.RampIncrement = n; return b }
func (b *DriveBuilder) UrgencyMultiplier(n uint8) *DriveBuilder {
	b.d.UrgencyMultiplier = n
	return b
}
func (b *DriveBuilder) RampInterval(n uint16) *DriveBuilder { b.d.RampInterval = n; return b }
func (b *DriveBuilder) Releaser(r domain.Releaser) *DriveBuilder {
	b.d.Releaser = r
	return b
}
func (b *DriveBuilder) Build() domain.Drive { return b.d }

// CompetenceBuilder builds one domain.Competence.
type CompetenceBuilder struct {
	c domain.Competence
}

func NewCompetenceBuilder(id domain.ElementID) *CompetenceBuilder {
	return &CompetenceBuilder{c: domain.Competence{Header: domain.Header{ElementID: id}}}
}

func (b *CompetenceBuilder) UseORWithinGroup(or bool) *CompetenceBuilder {
	b.c.UseORWithinGroup = or
	return b
}
func (b *CompetenceBuilder) Build() domain.Competence { return b.c }

// CompetenceElementBuilder builds one domain.CompetenceElement.
type CompetenceElementBuilder struct {
	ce domain.CompetenceElement
}

func NewCompetenceElementBuilder(id domain.ElementID) *CompetenceElementBuilder {
	return &CompetenceElementBuilder{ce: domain.CompetenceElement{Header: domain.Header{ElementID: id}}}
}

func (b *CompetenceElementBuilder) Parent(id domain.ElementID) *CompetenceElementBuilder {
	b.ce.ParentID = id
	return b
}
func (b *CompetenceElementBuilder) Child(id domain.ElementID) *CompetenceElementBuilder {
	b.ce.ChildID = id
	return b
}
func (b *CompetenceElementBuilder) Priority(p uint16) *CompetenceElementBuilder {
	b.ce.Priority = p
	return b
}
func (b *CompetenceElementBuilder) RetryLimit(n uint8) *CompetenceElementBuilder {
	b.ce.RetryLimit = n
	return b
}
func (b *CompetenceElementBuilder) Releaser(r domain.Releaser) *CompetenceElementBuilder {
	b.ce.Releaser = r
	return b
}
func (b *CompetenceElementBuilder) Build() domain.CompetenceElement { return b.ce }

// ActionPatternBuilder builds one domain.ActionPattern.
type ActionPatternBuilder struct {
	ap domain.ActionPattern
}

func NewActionPatternBuilder(id domain.ElementID) *ActionPatternBuilder {
	return &ActionPatternBuilder{ap: domain.ActionPattern{Header: domain.Header{ElementID: id}}}
}

func (b *ActionPatternBuilder) Build() domain.ActionPattern { return b.ap }

// ActionPatternElementBuilder builds one domain.ActionPatternElement.
type ActionPatternElementBuilder struct {
	ape domain.ActionPatternElement
}

func NewActionPatternElementBuilder(id domain.ElementID) *ActionPatternElementBuilder {
	return &ActionPatternElementBuilder{ape: domain.ActionPatternElement{Header: domain.Header{ElementID: id}}}
}

func (b *ActionPatternElementBuilder) Parent(id domain.ElementID) *ActionPatternElementBuilder {
	b.ape.ParentID = id
	return b
}
func (b *ActionPatternElementBuilder) Child(id domain.ElementID) *ActionPatternElementBuilder {
	b.ape.ChildID = id
	return b
}
func (b *ActionPatternElementBuilder) Order(n uint16) *ActionPatternElementBuilder {
	b.ape.Order = n
	return b
}
func (b *ActionPatternElementBuilder) Build() domain.ActionPatternElement { return b.ape }

// ActionBuilder builds one domain.Action.
type ActionBuilder struct {
	a domain.Action
}

func NewActionBuilder(id domain.ElementID) *ActionBuilder {
	return &ActionBuilder{a: domain.Action{Header: domain.Header{ElementID: id}}}
}

func (b *ActionBuilder) ActionID(id domain.ActionID) *ActionBuilder { b.a.ActionID = id; return b }
func (b *ActionBuilder) Value(v int32) *ActionBuilder               { b.a.ActionValue = v; return b }
func (b *ActionBuilder) CheckForComplete(v bool) *ActionBuilder {
	b.a.CheckForComplete = v
	return b
}
func (b *ActionBuilder) Build() domain.Action { return b.a }

// ReleaserBuilder builds one domain.Releaser, shared by Drive and
// CompetenceElement builders.
type ReleaserBuilder struct {
	r domain.Releaser
}

func NewReleaserBuilder(senseID domain.SenseID, cmp domain.Comparator, trigger int32) *ReleaserBuilder {
	return &ReleaserBuilder{r: domain.Releaser{SenseID: senseID, Comparator: cmp, Trigger: trigger}}
}

func (b *ReleaserBuilder) Hysteresis(h int32) *ReleaserBuilder {
	b.r.Hysteresis = h
	return b
}
func (b *ReleaserBuilder) FlexLatchHysteresis(h int32) *ReleaserBuilder {
	b.r.FlexLatchHysteresis = h
	return b
}
func (b *ReleaserBuilder) Build() domain.Releaser { return b.r }

// PlanBuilder collects nodes of every kind and applies them to a Plan
// Store in one call, sizing capacities to exactly what was collected
// unless overridden with Capacities.
type PlanBuilder struct {
	drives                []domain.Drive
	competences           []domain.Competence
	competenceElements    []domain.CompetenceElement
	actionPatterns        []domain.ActionPattern
	actionPatternElements []domain.ActionPatternElement
	actions               []domain.Action
	capacities            *[6]uint16
}

func NewPlanBuilder() *PlanBuilder { return &PlanBuilder{} }

func (b *PlanBuilder) AddDrive(d domain.Drive) *PlanBuilder {
	b.drives = append(b.drives, d)
	return b
}

func (b *PlanBuilder) AddCompetence(c domain.Competence) *PlanBuilder {
	b.competences = append(b.competences, c)
	return b
}

func (b *PlanBuilder) AddCompetenceElement(ce domain.CompetenceElement) *PlanBuilder {
	b.competenceElements = append(b.competenceElements, ce)
	return b
}

func (b *PlanBuilder) AddActionPattern(ap domain.ActionPattern) *PlanBuilder {
	b.actionPatterns = append(b.actionPatterns, ap)
	return b
}

func (b *PlanBuilder) AddActionPatternElement(ape domain.ActionPatternElement) *PlanBuilder {
	b.actionPatternElements = append(b.actionPatternElements, ape)
	return b
}

func (b *PlanBuilder) AddAction(a domain.Action) *PlanBuilder {
	b.actions = append(b.actions, a)
	return b
}

// Capacities overrides the per-kind capacities Apply requests from
// Initialise, in the fixed order {ActionPattern, ActionPatternElement,
// Competence, CompetenceElement, Drive, Action}. Without a call to this,
// Apply sizes each table to exactly the count of nodes collected.
func (b *PlanBuilder) Capacities(sizes [6]uint16) *PlanBuilder {
	b.capacities = &sizes
	return b
}

// Apply initialises store with the builder's capacities (or exact
// collected counts) and inserts every collected node. It stops at the
// first insertion failure.
func (b *PlanBuilder) Apply(store *planstore.Store) error {
	sizes := b.capacities
	if sizes == nil {
		sizes = &[6]uint16{
			domain.KindActionPattern:        uint16(len(b.actionPatterns)),
			domain.KindActionPatternElement: uint16(len(b.actionPatternElements)),
			domain.KindCompetence:           uint16(len(b.competences)),
			domain.KindCompetenceElement:    uint16(len(b.competenceElements)),
			domain.KindDrive:                uint16(len(b.drives)),
			domain.KindAction:               uint16(len(b.actions)),
		}
	}
	if err := store.Initialise(*sizes); err != nil {
		return err
	}
	for _, ap := range b.actionPatterns {
		if err := store.AddActionPattern(ap); err != nil {
			return err
		}
	}
	for _, ape := range b.actionPatternElements {
		if err := store.AddActionPatternElement(ape); err != nil {
			return err
		}
	}
	for _, c := range b.competences {
		if err := store.AddCompetence(c); err != nil {
			return err
		}
	}
	for _, ce := range b.competenceElements {
		if err := store.AddCompetenceElement(ce); err != nil {
			return err
		}
	}
	for _, d := range b.drives {
		if err := store.AddDrive(d); err != nil {
			return err
		}
	}
	for _, a := range b.actions {
		if err := store.AddAction(a); err != nil {
			return err
		}
	}
	return nil
}
