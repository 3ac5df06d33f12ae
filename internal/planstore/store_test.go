package planstore

import (
	"testing"

	"github.com/rwortham/instinct/internal/domain"
)

func sizes(ap, ape, comp, ce, drive, action uint16) [6]uint16 {
	return [6]uint16{ap, ape, comp, ce, drive, action}
}

func TestInitialiseResetsState(t *testing.T) {
	s := New()
	if err := s.Initialise(sizes(0, 0, 0, 0, 1, 1)); err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if err := s.AddAction(domain.Action{Header: domain.Header{ElementID: 1}}); err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if s.TotalCount() != 1 {
		t.Fatalf("TotalCount = %d, want 1", s.TotalCount())
	}

	if err := s.Initialise(sizes(0, 0, 0, 0, 0, 0)); err != nil {
		t.Fatalf("second Initialise: %v", err)
	}
	if s.TotalCount() != 0 {
		t.Fatalf("TotalCount after reinit = %d, want 0", s.TotalCount())
	}
}

func TestAddDriveCopiesPriorityToRuntimePriority(t *testing.T) {
	s := New()
	_ = s.Initialise(sizes(0, 0, 0, 0, 1, 0))
	if err := s.AddDrive(domain.Drive{Header: domain.Header{ElementID: 2}, Priority: 5}); err != nil {
		t.Fatalf("AddDrive: %v", err)
	}
	d := s.DriveByID(2)
	if d == nil {
		t.Fatal("drive not found")
	}
	if d.RuntimePriority != 5 {
		t.Fatalf("RuntimePriority = %d, want 5", d.RuntimePriority)
	}
}

func TestAddRejectsOverCapacity(t *testing.T) {
	s := New()
	_ = s.Initialise(sizes(0, 0, 0, 0, 0, 1))
	if err := s.AddAction(domain.Action{Header: domain.Header{ElementID: 1}}); err != nil {
		t.Fatalf("first AddAction: %v", err)
	}
	if err := s.AddAction(domain.Action{Header: domain.Header{ElementID: 2}}); err == nil {
		t.Fatal("expected capacity error, got nil")
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	s := New()
	_ = s.Initialise(sizes(0, 0, 1, 0, 1, 0))
	if err := s.AddCompetence(domain.Competence{Header: domain.Header{ElementID: 9}}); err != nil {
		t.Fatalf("AddCompetence: %v", err)
	}
	if err := s.AddDrive(domain.Drive{Header: domain.Header{ElementID: 9}}); err == nil {
		t.Fatal("expected duplicate id error, got nil")
	}
}

func TestFindChildSearchesActionThenAPThenCompetence(t *testing.T) {
	s := New()
	_ = s.Initialise(sizes(1, 0, 1, 0, 0, 1))
	_ = s.AddAction(domain.Action{Header: domain.Header{ElementID: 1}})
	_ = s.AddActionPattern(domain.ActionPattern{Header: domain.Header{ElementID: 2}})
	_ = s.AddCompetence(domain.Competence{Header: domain.Header{ElementID: 3}})

	node, ok := s.FindChild(2)
	if !ok || node.Kind() != domain.KindActionPattern {
		t.Fatalf("FindChild(2) = %v, %v; want ActionPattern", node, ok)
	}
	if _, ok := s.FindChild(100); ok {
		t.Fatal("FindChild(100) should not resolve")
	}
}

func TestMaxElementIDScansAllTables(t *testing.T) {
	s := New()
	_ = s.Initialise(sizes(1, 1, 1, 1, 1, 1))
	_ = s.AddAction(domain.Action{Header: domain.Header{ElementID: 3}})
	_ = s.AddDrive(domain.Drive{Header: domain.Header{ElementID: 40}})
	_ = s.AddCompetence(domain.Competence{Header: domain.Header{ElementID: 7}})

	if got := s.MaxElementID(); got != 40 {
		t.Fatalf("MaxElementID() = %d, want 40", got)
	}
}

func TestUsageBytesGrowsWithNodeCount(t *testing.T) {
	s := New()
	_ = s.Initialise(sizes(0, 0, 0, 0, 0, 2))
	before := s.UsageBytes()
	_ = s.AddAction(domain.Action{Header: domain.Header{ElementID: 1}})
	after := s.UsageBytes()
	if after <= before {
		t.Fatalf("UsageBytes did not grow: before=%d after=%d", before, after)
	}
}

func TestByteCeilingRejectsOversizedInitialise(t *testing.T) {
	s := NewWithByteCeiling(1)
	if err := s.Initialise(sizes(0, 0, 0, 0, 1, 1)); err == nil {
		t.Fatal("expected Initialise to fail the byte ceiling")
	}
}

func TestAddElementZeroRejected(t *testing.T) {
	s := New()
	_ = s.Initialise(sizes(0, 0, 0, 0, 0, 1))
	if err := s.AddAction(domain.Action{Header: domain.Header{ElementID: 0}}); err == nil {
		t.Fatal("expected element id 0 to be rejected")
	}
}
