package system

import (
	"testing"
	"time"
)

type probe struct {
	phase Phase
	log   *[]string
	name  string
}

func (p *probe) Phase() Phase { return p.phase }

func (p *probe) Update(time.Duration) {
	*p.log = append(*p.log, p.name)
}

func TestManagerRunsInPhaseOrder(t *testing.T) {
	var log []string
	m := NewManager()
	m.Register(&probe{phase: PhaseOutput, log: &log, name: "output"})
	m.Register(&probe{phase: PhaseInput, log: &log, name: "input"})
	m.Register(&probe{phase: PhasePostUpdate, log: &log, name: "maintenance"})
	m.Register(&probe{phase: PhasePersist, log: &log, name: "persist"})

	m.Tick(200 * time.Millisecond)

	want := []string{"input", "maintenance", "output", "persist"}
	if len(log) != len(want) {
		t.Fatalf("ran %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("ran %v, want %v", log, want)
		}
	}
}

func TestManagerKeepsRegistrationOrderWithinPhase(t *testing.T) {
	var log []string
	m := NewManager()
	m.Register(&probe{phase: PhaseUpdate, log: &log, name: "first"})
	m.Register(&probe{phase: PhaseUpdate, log: &log, name: "second"})
	m.Register(&probe{phase: PhaseInput, log: &log, name: "input"})

	m.Tick(0)

	want := []string{"input", "first", "second"}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("ran %v, want %v", log, want)
		}
	}
}
