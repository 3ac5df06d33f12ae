// Package planstore holds the six typed node tables that make up a plan:
// bounded-capacity slices of Drive, Competence, CompetenceElement,
// ActionPattern, ActionPatternElement and Action, looked up and mutated
// only by element id. Nothing here runs a plan; that is the executor's job.
package planstore

import (
	"unsafe"

	"github.com/rwortham/instinct/internal/domain"
)

// Store is the Plan Store: typed storage for the six node kinds, linearly
// scanned on lookup since real plans are small.
type Store struct {
	actionPatterns        []domain.ActionPattern
	actionPatternElements  []domain.ActionPatternElement
	competences            []domain.Competence
	competenceElements     []domain.CompetenceElement
	drives                 []domain.Drive
	actions                []domain.Action

	capacities [6]uint16 // indexed by domain.NodeKind, in domain.NodeKinds order

	planID            int32
	globalMonitorMask domain.MonitorFlag

	maxPlanBytes uint32 // 0 = unlimited; a practical stand-in for an embedded allocator ceiling
}

// New returns an empty, uninitialised Store. Call Initialise before use.
func New() *Store {
	return &Store{}
}

// NewWithByteCeiling is like New but rejects an Initialise whose UsageBytes
// would exceed maxBytes, standing in for a real allocator's failure mode.
func NewWithByteCeiling(maxBytes uint32) *Store {
	return &Store{maxPlanBytes: maxBytes}
}

// Initialise discards any existing tables and allocates fresh ones sized by
// sizes, indexed in the fixed capacity order (domain.NodeKinds): ActionPattern,
// ActionPatternElement, Competence, CompetenceElement, Drive, Action. All
// executor state - resume cursors, statuses, counters - disappears. A request
// over the byte ceiling fails and leaves the plan empty.
func (s *Store) Initialise(sizes [6]uint16) error {
	if s.maxPlanBytes > 0 {
		if projected := projectedUsageBytes(sizes); projected > s.maxPlanBytes {
			s.capacities = [6]uint16{}
			s.actionPatterns = nil
			s.actionPatternElements = nil
			s.competences = nil
			s.competenceElements = nil
			s.drives = nil
			s.actions = nil
			return domain.NewDomainError(
				domain.ErrCodeCapacityExceeded,
				"requested plan size exceeds the configured byte ceiling",
				nil,
			)
		}
	}

	s.capacities = sizes
	s.actionPatterns = make([]domain.ActionPattern, 0, sizes[0])
	s.actionPatternElements = make([]domain.ActionPatternElement, 0, sizes[1])
	s.competences = make([]domain.Competence, 0, sizes[2])
	s.competenceElements = make([]domain.CompetenceElement, 0, sizes[3])
	s.drives = make([]domain.Drive, 0, sizes[4])
	s.actions = make([]domain.Action, 0, sizes[5])
	s.globalMonitorMask = 0
	return nil
}

func projectedUsageBytes(sizes [6]uint16) uint32 {
	return uint32(sizes[0])*uint32(unsafe.Sizeof(domain.ActionPattern{})) +
		uint32(sizes[1])*uint32(unsafe.Sizeof(domain.ActionPatternElement{})) +
		uint32(sizes[2])*uint32(unsafe.Sizeof(domain.Competence{})) +
		uint32(sizes[3])*uint32(unsafe.Sizeof(domain.CompetenceElement{})) +
		uint32(sizes[4])*uint32(unsafe.Sizeof(domain.Drive{})) +
		uint32(sizes[5])*uint32(unsafe.Sizeof(domain.Action{}))
}

// PlanID returns the plan's externally-assigned identifier (the `I S`/`I R`
// commands).
func (s *Store) PlanID() int32 { return s.planID }

// SetPlanID sets the plan's externally-assigned identifier.
func (s *Store) SetPlanID(id int32) { s.planID = id }

// exists reports whether id is already present in any of the six tables,
// enforcing invariant 1 (global id uniqueness).
func (s *Store) exists(id domain.ElementID) bool {
	_, ok := s.Get(id)
	return ok
}

// capacityFor returns the configured capacity for kind.
func (s *Store) capacityFor(kind domain.NodeKind) uint16 {
	return s.capacities[kind]
}

var errCapacityExceeded = domain.NewDomainError(domain.ErrCodeCapacityExceeded, "node table at capacity", nil)
var errDuplicateID = domain.NewDomainError(domain.ErrCodeAlreadyExists, "element id already present in plan", nil)

// AddDrive appends a new Drive to the plan. A Drive's RuntimePriority is
// initialised to its base Priority at insert time.
func (s *Store) AddDrive(d domain.Drive) error {
	if err := s.checkInsert(d.ElementID, domain.KindDrive, len(s.drives)); err != nil {
		return err
	}
	d.RuntimePriority = d.Priority
	s.drives = append(s.drives, d)
	return nil
}

// AddCompetence appends a new Competence to the plan.
func (s *Store) AddCompetence(c domain.Competence) error {
	if err := s.checkInsert(c.ElementID, domain.KindCompetence, len(s.competences)); err != nil {
		return err
	}
	s.competences = append(s.competences, c)
	return nil
}

// AddCompetenceElement appends a new Competence Element to the plan.
func (s *Store) AddCompetenceElement(ce domain.CompetenceElement) error {
	if err := s.checkInsert(ce.ElementID, domain.KindCompetenceElement, len(s.competenceElements)); err != nil {
		return err
	}
	s.competenceElements = append(s.competenceElements, ce)
	return nil
}

// AddActionPattern appends a new Action Pattern to the plan.
func (s *Store) AddActionPattern(ap domain.ActionPattern) error {
	if err := s.checkInsert(ap.ElementID, domain.KindActionPattern, len(s.actionPatterns)); err != nil {
		return err
	}
	s.actionPatterns = append(s.actionPatterns, ap)
	return nil
}

// AddActionPatternElement appends a new Action Pattern Element to the plan.
func (s *Store) AddActionPatternElement(ape domain.ActionPatternElement) error {
	if err := s.checkInsert(ape.ElementID, domain.KindActionPatternElement, len(s.actionPatternElements)); err != nil {
		return err
	}
	s.actionPatternElements = append(s.actionPatternElements, ape)
	return nil
}

// AddAction appends a new Action to the plan.
func (s *Store) AddAction(a domain.Action) error {
	if err := s.checkInsert(a.ElementID, domain.KindAction, len(s.actions)); err != nil {
		return err
	}
	s.actions = append(s.actions, a)
	return nil
}

func (s *Store) checkInsert(id domain.ElementID, kind domain.NodeKind, currentCount int) error {
	if id == domain.NoElement {
		return domain.NewDomainError(domain.ErrCodeInvalidInput, "element id 0 is reserved", nil)
	}
	if s.exists(id) {
		return errDuplicateID
	}
	if uint16(currentCount) >= s.capacityFor(kind) {
		return errCapacityExceeded
	}
	return nil
}

// Get scans every table for id and returns the node regardless of kind.
func (s *Store) Get(id domain.ElementID) (domain.Node, bool) {
	for i := range s.drives {
		if s.drives[i].ElementID == id {
			return &s.drives[i], true
		}
	}
	for i := range s.competences {
		if s.competences[i].ElementID == id {
			return &s.competences[i], true
		}
	}
	for i := range s.competenceElements {
		if s.competenceElements[i].ElementID == id {
			return &s.competenceElements[i], true
		}
	}
	for i := range s.actionPatterns {
		if s.actionPatterns[i].ElementID == id {
			return &s.actionPatterns[i], true
		}
	}
	for i := range s.actionPatternElements {
		if s.actionPatternElements[i].ElementID == id {
			return &s.actionPatternElements[i], true
		}
	}
	for i := range s.actions {
		if s.actions[i].ElementID == id {
			return &s.actions[i], true
		}
	}
	return nil, false
}

// Find looks up id restricted to one kind.
func (s *Store) Find(id domain.ElementID, kind domain.NodeKind) (domain.Node, bool) {
	node, ok := s.Get(id)
	if !ok || node.Kind() != kind {
		return nil, false
	}
	return node, true
}

// FindChild looks up id across only the kinds admissible as a Drive/CE/APE
// child, in the order Action, ActionPattern, Competence - not the numeric
// NodeKind order.
func (s *Store) FindChild(id domain.ElementID) (domain.Node, bool) {
	for i := range s.actions {
		if s.actions[i].ElementID == id {
			return &s.actions[i], true
		}
	}
	for i := range s.actionPatterns {
		if s.actionPatterns[i].ElementID == id {
			return &s.actionPatterns[i], true
		}
	}
	for i := range s.competences {
		if s.competences[i].ElementID == id {
			return &s.competences[i], true
		}
	}
	return nil, false
}

// Update overwrites the stored node sharing node's id and kind.
func (s *Store) Update(node domain.Node) error {
	existing, ok := s.Find(node.ID(), node.Kind())
	if !ok {
		return domain.NewDomainError(domain.ErrCodeNotFound, "no such element to update", nil)
	}
	switch v := node.(type) {
	case *domain.Drive:
		*(existing.(*domain.Drive)) = *v
	case *domain.Competence:
		*(existing.(*domain.Competence)) = *v
	case *domain.CompetenceElement:
		*(existing.(*domain.CompetenceElement)) = *v
	case *domain.ActionPattern:
		*(existing.(*domain.ActionPattern)) = *v
	case *domain.ActionPatternElement:
		*(existing.(*domain.ActionPatternElement)) = *v
	case *domain.Action:
		*(existing.(*domain.Action)) = *v
	default:
		return domain.NewDomainError(domain.ErrCodeInvalidType, "unknown node type", nil)
	}
	return nil
}

// MaxElementID scans every table for the greatest element id in the plan.
func (s *Store) MaxElementID() domain.ElementID {
	var max domain.ElementID
	upd := func(id domain.ElementID) {
		if id > max {
			max = id
		}
	}
	for i := range s.drives {
		upd(s.drives[i].ElementID)
	}
	for i := range s.competences {
		upd(s.competences[i].ElementID)
	}
	for i := range s.competenceElements {
		upd(s.competenceElements[i].ElementID)
	}
	for i := range s.actionPatterns {
		upd(s.actionPatterns[i].ElementID)
	}
	for i := range s.actionPatternElements {
		upd(s.actionPatternElements[i].ElementID)
	}
	for i := range s.actions {
		upd(s.actions[i].ElementID)
	}
	return max
}

// Count returns the number of nodes currently stored for kind.
func (s *Store) Count(kind domain.NodeKind) uint16 {
	switch kind {
	case domain.KindActionPattern:
		return uint16(len(s.actionPatterns))
	case domain.KindActionPatternElement:
		return uint16(len(s.actionPatternElements))
	case domain.KindCompetence:
		return uint16(len(s.competences))
	case domain.KindCompetenceElement:
		return uint16(len(s.competenceElements))
	case domain.KindDrive:
		return uint16(len(s.drives))
	case domain.KindAction:
		return uint16(len(s.actions))
	default:
		return 0
	}
}

// TotalCount returns the number of nodes stored across every kind.
func (s *Store) TotalCount() uint16 {
	var total uint16
	for _, k := range domain.NodeKinds {
		total += s.Count(k)
	}
	return total
}

// UsageBytes returns the plan's total memory footprint: the sum, over each
// kind, of its node count times that kind's struct size.
func (s *Store) UsageBytes() uint32 {
	return uint32(len(s.actionPatterns))*uint32(unsafe.Sizeof(domain.ActionPattern{})) +
		uint32(len(s.actionPatternElements))*uint32(unsafe.Sizeof(domain.ActionPatternElement{})) +
		uint32(len(s.competences))*uint32(unsafe.Sizeof(domain.Competence{})) +
		uint32(len(s.competenceElements))*uint32(unsafe.Sizeof(domain.CompetenceElement{})) +
		uint32(len(s.drives))*uint32(unsafe.Sizeof(domain.Drive{})) +
		uint32(len(s.actions))*uint32(unsafe.Sizeof(domain.Action{}))
}

// Capacity returns the configured capacity for kind.
func (s *Store) Capacity(kind domain.NodeKind) uint16 {
	return s.capacities[kind]
}

// Drives returns the live Drive table for the scheduler to range over. The
// executor package is the only caller expected to hold on to these
// pointers across a cycle.
func (s *Store) Drives() []domain.Drive { return s.drives }

// Competences returns the live Competence table.
func (s *Store) Competences() []domain.Competence { return s.competences }

// CompetenceElements returns the live CompetenceElement table.
func (s *Store) CompetenceElements() []domain.CompetenceElement { return s.competenceElements }

// ActionPatterns returns the live ActionPattern table.
func (s *Store) ActionPatterns() []domain.ActionPattern { return s.actionPatterns }

// ActionPatternElements returns the live ActionPatternElement table.
func (s *Store) ActionPatternElements() []domain.ActionPatternElement {
	return s.actionPatternElements
}

// Actions returns the live Action table.
func (s *Store) Actions() []domain.Action { return s.actions }

// DriveByID returns a pointer into the live Drive table, or nil.
func (s *Store) DriveByID(id domain.ElementID) *domain.Drive {
	for i := range s.drives {
		if s.drives[i].ElementID == id {
			return &s.drives[i]
		}
	}
	return nil
}

// CompetenceByID returns a pointer into the live Competence table, or nil.
func (s *Store) CompetenceByID(id domain.ElementID) *domain.Competence {
	for i := range s.competences {
		if s.competences[i].ElementID == id {
			return &s.competences[i]
		}
	}
	return nil
}

// CompetenceElementByID returns a pointer into the live CompetenceElement
// table, or nil.
func (s *Store) CompetenceElementByID(id domain.ElementID) *domain.CompetenceElement {
	for i := range s.competenceElements {
		if s.competenceElements[i].ElementID == id {
			return &s.competenceElements[i]
		}
	}
	return nil
}

// ActionPatternByID returns a pointer into the live ActionPattern table, or nil.
func (s *Store) ActionPatternByID(id domain.ElementID) *domain.ActionPattern {
	for i := range s.actionPatterns {
		if s.actionPatterns[i].ElementID == id {
			return &s.actionPatterns[i]
		}
	}
	return nil
}

// ActionPatternElementByID returns a pointer into the live
// ActionPatternElement table, or nil.
func (s *Store) ActionPatternElementByID(id domain.ElementID) *domain.ActionPatternElement {
	for i := range s.actionPatternElements {
		if s.actionPatternElements[i].ElementID == id {
			return &s.actionPatternElements[i]
		}
	}
	return nil
}

// ActionByID returns a pointer into the live Action table, or nil.
func (s *Store) ActionByID(id domain.ElementID) *domain.Action {
	for i := range s.actions {
		if s.actions[i].ElementID == id {
			return &s.actions[i]
		}
	}
	return nil
}

// CompetenceElementsOf returns pointers to every CompetenceElement whose
// ParentID is parent, in table order.
func (s *Store) CompetenceElementsOf(parent domain.ElementID) []*domain.CompetenceElement {
	var out []*domain.CompetenceElement
	for i := range s.competenceElements {
		if s.competenceElements[i].ParentID == parent {
			out = append(out, &s.competenceElements[i])
		}
	}
	return out
}

// ActionPatternElementsOf returns pointers to every ActionPatternElement
// whose ParentID is parent, in table order.
func (s *Store) ActionPatternElementsOf(parent domain.ElementID) []*domain.ActionPatternElement {
	var out []*domain.ActionPatternElement
	for i := range s.actionPatternElements {
		if s.actionPatternElements[i].ParentID == parent {
			out = append(out, &s.actionPatternElements[i])
		}
	}
	return out
}

// GlobalMonitorMask returns the plan-wide monitor mask set by `M G`.
func (s *Store) GlobalMonitorMask() domain.MonitorFlag { return s.globalMonitorMask }

// SetGlobalMonitorMask sets the plan-wide monitor mask.
func (s *Store) SetGlobalMonitorMask(mask domain.MonitorFlag) { s.globalMonitorMask = mask }
