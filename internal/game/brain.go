package game

import (
	"errors"
	"fmt"
)

// StateName identifies a behaviour state. The empty name means "stay".
type StateName string

const (
	StateSeeking   StateName = "seeking"
	StateAttacking StateName = "attacking"
	StateCombat    StateName = "combat"
	StateSearching StateName = "searching"
	StateFleeing   StateName = "fleeing"
	StateKO        StateName = "ko"
	StateGuarding  StateName = "guarding"
)

var (
	// ErrUnknownState is returned when a transition names a state the
	// brain does not hold.
	ErrUnknownState = errors.New("brain: unknown state")
	// ErrNoActiveState is returned by Think before any state was entered.
	ErrNoActiveState = errors.New("brain: no active state")
)

// State is one node of a unit's behaviour machine. Enter runs once on the
// transition in, Do every tick while active, Check after Do to request a
// transition, Exit once on the transition out.
type State interface {
	Name() StateName
	Enter()
	Do()
	Check() StateName
	Exit()
}

// Brain drives a set of named states, one active at a time.
type Brain struct {
	states map[StateName]State
	active State

	// OnChange observes every transition; from is empty on the first.
	OnChange func(from, to StateName)
}

// NewBrain returns a brain holding the given states.
func NewBrain(states ...State) *Brain {
	b := &Brain{states: make(map[StateName]State, len(states))}
	for _, s := range states {
		b.Add(s)
	}
	return b
}

// Add registers a state, replacing any with the same name.
func (b *Brain) Add(s State) {
	b.states[s.Name()] = s
}

// Active returns the current state, or nil.
func (b *Brain) Active() State { return b.active }

// ActiveName returns the current state's name, or "".
func (b *Brain) ActiveName() StateName {
	if b.active == nil {
		return ""
	}
	return b.active.Name()
}

// SetState leaves the active state and enters the named one.
func (b *Brain) SetState(name StateName) error {
	next, ok := b.states[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	var from StateName
	if b.active != nil {
		from = b.active.Name()
		b.active.Exit()
	}
	b.active = next
	next.Enter()
	if b.OnChange != nil {
		b.OnChange(from, name)
	}
	return nil
}

// Think runs one tick of the active state and applies any transition it asks for.
func (b *Brain) Think() error {
	if b.active == nil {
		return ErrNoActiveState
	}
	b.active.Do()
	if next := b.active.Check(); next != "" {
		return b.SetState(next)
	}
	return nil
}
