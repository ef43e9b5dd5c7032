package game

import (
	"errors"
	"testing"
)

// recState records every hook call into a shared trace.
type recState struct {
	name  StateName
	next  StateName
	trace *[]string
}

func (s *recState) Name() StateName { return s.name }
func (s *recState) Enter()          { *s.trace = append(*s.trace, "enter "+string(s.name)) }
func (s *recState) Do()             { *s.trace = append(*s.trace, "do "+string(s.name)) }
func (s *recState) Exit()           { *s.trace = append(*s.trace, "exit "+string(s.name)) }
func (s *recState) Check() StateName {
	*s.trace = append(*s.trace, "check "+string(s.name))
	return s.next
}

func TestBrain_ThinkWithoutActiveState(t *testing.T) {
	b := NewBrain()
	if err := b.Think(); !errors.Is(err, ErrNoActiveState) {
		t.Fatalf("Think on empty brain: got %v, want ErrNoActiveState", err)
	}
}

func TestBrain_UnknownState(t *testing.T) {
	var trace []string
	b := NewBrain(&recState{name: StateSeeking, trace: &trace})
	if err := b.SetState(StateFleeing); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("SetState(fleeing): got %v, want ErrUnknownState", err)
	}
	if b.Active() != nil {
		t.Fatal("failed transition must not activate anything")
	}
}

func TestBrain_ExitRunsBeforeEnter(t *testing.T) {
	var trace []string
	var changes []string
	b := NewBrain(
		&recState{name: StateSeeking, next: StateAttacking, trace: &trace},
		&recState{name: StateAttacking, trace: &trace},
	)
	b.OnChange = func(from, to StateName) { changes = append(changes, string(from)+">"+string(to)) }

	if err := b.SetState(StateSeeking); err != nil {
		t.Fatal(err)
	}
	if err := b.Think(); err != nil {
		t.Fatal(err)
	}

	want := []string{"enter seeking", "do seeking", "check seeking", "exit seeking", "enter attacking"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace[%d] = %q, want %q (full %v)", i, trace[i], want[i], trace)
		}
	}
	if b.ActiveName() != StateAttacking {
		t.Fatalf("active = %q, want attacking", b.ActiveName())
	}
	if len(changes) != 2 || changes[0] != ">seeking" || changes[1] != "seeking>attacking" {
		t.Fatalf("OnChange saw %v", changes)
	}
}

func TestBrain_EmptyCheckStays(t *testing.T) {
	var trace []string
	b := NewBrain(&recState{name: StateGuarding, trace: &trace})
	if err := b.SetState(StateGuarding); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := b.Think(); err != nil {
			t.Fatal(err)
		}
	}
	if b.ActiveName() != StateGuarding {
		t.Fatalf("active = %q", b.ActiveName())
	}
	for _, line := range trace {
		if line == "exit guarding" {
			t.Fatal("staying must not run the exit hook")
		}
	}
}

func TestBrain_TransitionToUnknownFailsThink(t *testing.T) {
	var trace []string
	b := NewBrain(&recState{name: StateSeeking, next: "nowhere", trace: &trace})
	if err := b.SetState(StateSeeking); err != nil {
		t.Fatal(err)
	}
	if err := b.Think(); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("Think: got %v, want ErrUnknownState", err)
	}
}
