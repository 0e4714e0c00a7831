package machine

import (
	"errors"
	"fmt"
	"testing"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m := New("idle")
	m.AddStates("idle", "running", "done", "broken")
	err := m.AddTransitions(
		Transition{Trigger: "start", Sources: []State{"idle"}, Dest: "running"},
		Transition{Trigger: "finish", Sources: []State{"running"}, Dest: "done"},
		Transition{Trigger: "break", Sources: []State{SourceAny}, Dest: "broken"},
	)
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}
	return m
}

func TestMachine_FireMovesState(t *testing.T) {
	m := newTestMachine(t)
	if !m.Is("idle") {
		t.Fatalf("expected initial state idle, got %q", m.Current())
	}
	if err := m.Fire("start"); err != nil {
		t.Fatalf("Fire(start) returned error: %v", err)
	}
	if m.Current() != "running" {
		t.Fatalf("expected running, got %q", m.Current())
	}
	if err := m.Fire("finish"); err != nil {
		t.Fatalf("Fire(finish) returned error: %v", err)
	}
	if m.Current() != "done" {
		t.Fatalf("expected done, got %q", m.Current())
	}
}

func TestMachine_NoMatchingTransition(t *testing.T) {
	m := newTestMachine(t)

	err := m.Fire("finish")
	var noMatch *NoMatchingTransitionError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchingTransitionError, got %v", err)
	}
	if noMatch.Trigger != "finish" || noMatch.State != "idle" {
		t.Fatalf("error carries wrong details: %+v", noMatch)
	}
	if m.Current() != "idle" {
		t.Fatalf("state must be unchanged after failed fire, got %q", m.Current())
	}

	err = m.Fire("unknown")
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchingTransitionError for unknown trigger, got %v", err)
	}
}

func TestMachine_WildcardFiresFromEveryState(t *testing.T) {
	for _, from := range []State{"idle", "running", "done", "broken"} {
		m := newTestMachine(t)
		m.current = from
		if err := m.Fire("break"); err != nil {
			t.Fatalf("Fire(break) from %q returned error: %v", from, err)
		}
		if m.Current() != "broken" {
			t.Fatalf("expected broken from %q, got %q", from, m.Current())
		}
	}
}

func TestMachine_WildcardExpandsAtConfigurationTime(t *testing.T) {
	m := New("a")
	m.AddStates("a", "b")
	if err := m.AddTransitions(Transition{Trigger: "reset", Sources: []State{SourceAny}, Dest: "a"}); err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}

	// States declared after the wildcard transition are not part of it.
	m.AddStates("late")
	m.current = "late"
	err := m.Fire("reset")
	var noMatch *NoMatchingTransitionError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchingTransitionError from late state, got %v", err)
	}
}

func TestMachine_GuardRejected(t *testing.T) {
	m := New("idle")
	m.AddStates("idle", "running")
	err := m.AddTransitions(Transition{
		Trigger: "start",
		Sources: []State{"idle"},
		Dest:    "running",
		Guards: []Guard{func(ec *EventContext) error {
			return fmt.Errorf("not ready")
		}},
	})
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}

	fireErr := m.Fire("start")
	var rejected *GuardRejectedError
	if !errors.As(fireErr, &rejected) {
		t.Fatalf("expected GuardRejectedError, got %v", fireErr)
	}
	if len(rejected.Unmet) != 1 || rejected.Unmet[0].Error() != "not ready" {
		t.Fatalf("unmet guards not reported: %+v", rejected)
	}
	if m.Current() != "idle" {
		t.Fatalf("state must be unchanged after guard rejection, got %q", m.Current())
	}
}

func TestMachine_GuardSelectionInDeclarationOrder(t *testing.T) {
	m := New("idle")
	m.AddStates("idle", "fast", "slow")
	allow := false
	err := m.AddTransitions(
		Transition{
			Trigger: "go",
			Sources: []State{"idle"},
			Dest:    "fast",
			Guards:  []Guard{func(ec *EventContext) error {
				if allow {
					return nil
				}
				return fmt.Errorf("fast lane closed")
			}},
		},
		Transition{Trigger: "go", Sources: []State{"idle"}, Dest: "slow"},
	)
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}

	// First declared candidate is rejected, second is unguarded.
	if err := m.Fire("go"); err != nil {
		t.Fatalf("Fire(go) returned error: %v", err)
	}
	if m.Current() != "slow" {
		t.Fatalf("expected slow, got %q", m.Current())
	}

	m.current = "idle"
	allow = true
	if err := m.Fire("go"); err != nil {
		t.Fatalf("Fire(go) returned error: %v", err)
	}
	if m.Current() != "fast" {
		t.Fatalf("guarded transition declared first must win when its guard passes, got %q", m.Current())
	}
}

func TestMachine_CallbackPhaseOrder(t *testing.T) {
	m := New("idle")
	m.AddStates("idle", "running")

	var order []string
	record := func(phase string) Callback {
		return func(ec *EventContext) error {
			order = append(order, phase)
			return nil
		}
	}

	m.OnLeave(record("leave"))
	m.OnEnter("running", record("enter"))
	m.OnFinalize(record("finalize"))
	err := m.AddTransitions(Transition{
		Trigger: "start",
		Sources: []State{"idle"},
		Dest:    "running",
		Prepare: []Callback{record("prepare")},
		Guards: []Guard{func(ec *EventContext) error {
			order = append(order, "guard")
			return nil
		}},
		Before: []Callback{record("before")},
		After:  []Callback{record("after")},
	})
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}

	if err := m.Fire("start"); err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}

	want := []string{"prepare", "guard", "before", "leave", "enter", "after", "finalize"}
	if len(order) != len(want) {
		t.Fatalf("phase order %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("phase order %v, want %v", order, want)
		}
	}
}

func TestMachine_LeaveHookSeesSourceState(t *testing.T) {
	m := newTestMachine(t)
	var from, to State
	m.OnLeave(func(ec *EventContext) error {
		from, to = ec.Source, ec.Dest
		if ec.Machine.Current() != "idle" {
			t.Errorf("leave hook must run before the state changes, current=%q", ec.Machine.Current())
		}
		return nil
	})
	if err := m.Fire("start"); err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}
	if from != "idle" || to != "running" {
		t.Fatalf("leave hook saw %q -> %q", from, to)
	}
}

func TestMachine_ExceptionHandlerContainsFault(t *testing.T) {
	m := New("idle")
	m.AddStates("idle", "running", "error")
	err := m.AddTransitions(
		Transition{
			Trigger: "start",
			Sources: []State{"idle"},
			Dest:    "running",
			Before:  []Callback{func(ec *EventContext) error { return fmt.Errorf("boom") }},
		},
		Transition{Trigger: "error", Sources: []State{SourceAny}, Dest: "error"},
	)
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}

	var seen error
	m.OnException(func(ec *EventContext) {
		seen = ec.Err
		_ = ec.Machine.Fire("error")
	})

	if err := m.Fire("start"); err != nil {
		t.Fatalf("contained fault must not propagate, got %v", err)
	}
	if seen == nil || seen.Error() != "boom" {
		t.Fatalf("exception handler did not receive fault: %v", seen)
	}
	if m.Current() != "error" {
		t.Fatalf("expected error state, got %q", m.Current())
	}
}

func TestMachine_FaultWithoutHandlerPropagates(t *testing.T) {
	m := New("idle")
	m.AddStates("idle", "running")
	err := m.AddTransitions(Transition{
		Trigger: "start",
		Sources: []State{"idle"},
		Dest:    "running",
		Before:  []Callback{func(ec *EventContext) error { return fmt.Errorf("boom") }},
	})
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}

	fireErr := m.Fire("start")
	if fireErr == nil || fireErr.Error() != "boom" {
		t.Fatalf("expected fault to propagate, got %v", fireErr)
	}
	// Before-phase fault: state not yet mutated.
	if m.Current() != "idle" {
		t.Fatalf("state must stay at the point of failure, got %q", m.Current())
	}
}

func TestMachine_FaultAfterMutationLeavesDestination(t *testing.T) {
	m := New("idle")
	m.AddStates("idle", "running")
	err := m.AddTransitions(Transition{
		Trigger: "start",
		Sources: []State{"idle"},
		Dest:    "running",
		After:   []Callback{func(ec *EventContext) error { return fmt.Errorf("late boom") }},
	})
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}

	if fireErr := m.Fire("start"); fireErr == nil {
		t.Fatal("expected fault to propagate")
	}
	// After-phase fault: the state change already happened.
	if m.Current() != "running" {
		t.Fatalf("state must stay at the point of failure, got %q", m.Current())
	}
}

func TestMachine_PrepareFaultIsFunnelled(t *testing.T) {
	m := New("idle")
	m.AddStates("idle", "running", "error")
	err := m.AddTransitions(
		Transition{
			Trigger: "start",
			Sources: []State{"idle"},
			Dest:    "running",
			Prepare: []Callback{func(ec *EventContext) error { return fmt.Errorf("prepare boom") }},
		},
		Transition{Trigger: "error", Sources: []State{SourceAny}, Dest: "error"},
	)
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}
	m.OnException(func(ec *EventContext) { _ = ec.Machine.Fire("error") })

	if err := m.Fire("start"); err != nil {
		t.Fatalf("contained prepare fault must not propagate, got %v", err)
	}
	if m.Current() != "error" {
		t.Fatalf("expected error state, got %q", m.Current())
	}
}

func TestMachine_ChainedTriggerFromEnterHook(t *testing.T) {
	m := New("hanging_out")
	m.AddStates("hanging_out", "hunting", "eating")
	err := m.AddTransitions(
		Transition{Trigger: "hunt", Sources: []State{"hanging_out"}, Dest: "hunting"},
		Transition{Trigger: "eat", Sources: []State{"hunting"}, Dest: "eating"},
		Transition{Trigger: "hang_out", Sources: []State{"hunting", "eating"}, Dest: "hanging_out"},
	)
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}

	m.OnEnter("hunting", func(ec *EventContext) error {
		return ec.Machine.Fire("eat")
	})
	m.OnEnter("eating", func(ec *EventContext) error {
		return ec.Machine.Fire("hang_out")
	})

	if err := m.Fire("hunt"); err != nil {
		t.Fatalf("Fire(hunt) returned error: %v", err)
	}
	if m.Current() != "hanging_out" {
		t.Fatalf("chained transitions should land back in hanging_out, got %q", m.Current())
	}
}

func TestMachine_ArgsReachCallbacks(t *testing.T) {
	m := New("idle")
	m.AddStates("idle", "running")
	var got []any
	err := m.AddTransitions(Transition{
		Trigger: "start",
		Sources: []State{"idle"},
		Dest:    "running",
		Before: []Callback{func(ec *EventContext) error {
			got = ec.Args
			return nil
		}},
	})
	if err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}

	if err := m.Fire("start", 42, "payload"); err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}
	if len(got) != 2 || got[0] != 42 || got[1] != "payload" {
		t.Fatalf("args not passed through: %v", got)
	}
}

func TestMachine_PermittedTriggers(t *testing.T) {
	m := newTestMachine(t)
	got := m.PermittedTriggers()
	want := []string{"start", "break"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("PermittedTriggers() = %v, want %v", got, want)
	}

	if err := m.Fire("start"); err != nil {
		t.Fatalf("Fire returned error: %v", err)
	}
	got = m.PermittedTriggers()
	want = []string{"finish", "break"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("PermittedTriggers() = %v, want %v", got, want)
	}
}

func TestMachine_AddTransitionsConfigErrors(t *testing.T) {
	var cfgErr *MachineConfigError

	m := New("idle")
	m.AddStates("idle")
	if err := m.AddTransitions(Transition{Trigger: "go", Sources: []State{"idle"}, Dest: "nowhere"}); !errors.As(err, &cfgErr) {
		t.Fatalf("expected MachineConfigError for undeclared destination, got %v", err)
	}
	if err := m.AddTransitions(Transition{Trigger: "go", Sources: []State{"ghost"}, Dest: "idle"}); !errors.As(err, &cfgErr) {
		t.Fatalf("expected MachineConfigError for undeclared source, got %v", err)
	}
	if err := m.AddTransitions(Transition{Sources: []State{"idle"}, Dest: "idle"}); !errors.As(err, &cfgErr) {
		t.Fatalf("expected MachineConfigError for missing trigger, got %v", err)
	}
	if err := m.AddTransitions(Transition{Trigger: "go", Dest: "idle"}); !errors.As(err, &cfgErr) {
		t.Fatalf("expected MachineConfigError for empty source set, got %v", err)
	}
}

func TestMachine_Validate(t *testing.T) {
	var cfgErr *MachineConfigError

	m := New("ghost")
	m.AddStates("idle")
	if err := m.Validate(); !errors.As(err, &cfgErr) {
		t.Fatalf("expected MachineConfigError for undeclared initial state, got %v", err)
	}

	stuck := New("idle")
	stuck.AddStates("idle", "running")
	if err := stuck.AddTransitions(Transition{Trigger: "noop", Sources: []State{"running"}, Dest: "running"}); err != nil {
		t.Fatalf("AddTransitions returned error: %v", err)
	}
	if err := stuck.Validate(); !errors.As(err, &cfgErr) {
		t.Fatalf("expected MachineConfigError for stuck initial state, got %v", err)
	}

	ok := newTestMachine(t)
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid machine must validate, got %v", err)
	}
}
