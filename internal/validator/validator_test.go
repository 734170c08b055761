package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/dsl"
)

func TestValidate(t *testing.T) {
	// Scenario A: start -> 3 -> accept
	b := dsl.New("increment")
	b.State(dsl.Start).On('0').Right().Go(3)
	b.State(3).
		On('0').Right().Go(3).
		On('_').Write('1').Stay().Go(dsl.Accept)

	rep, err := Validate(b.MustBuild())
	if err != nil {
		t.Errorf("Scenario A (Valid) failed: %v", err)
	}
	if len(rep.Reachable) != 3 {
		t.Errorf("expected 3 reachable states, got %d", len(rep.Reachable))
	}
	if w := rep.Warnings(); len(w) != 0 {
		t.Errorf("expected no warnings, got %v", w)
	}

	// Scenario B: start loops on itself, accept is declared but never targeted
	loop := dsl.New("loop")
	loop.State(dsl.Start).On('_').Right().Go(dsl.Start)

	_, err = Validate(loop.MustBuild())
	if err == nil {
		t.Fatal("Scenario B (Unreachable accept) should have failed, but got nil")
	}
	if !errors.Is(err, ErrAcceptUnreachable) {
		t.Errorf("Expected ErrAcceptUnreachable, got: %v", err)
	}
}

func TestAnalyze_Warnings(t *testing.T) {
	// 4 is only entered from 5, which nothing enters; 3 has no way out.
	b := dsl.New("islands")
	b.State(dsl.Start).
		On('0').Right().Go(dsl.Accept).
		On('1').Right().Go(3)
	b.State(5).On('0').Left().Go(4)
	b.State(4).On('0').Left().Go(dsl.Accept)

	rep := Analyze(b.MustBuild())
	if !rep.AcceptReachable {
		t.Error("accept should be reachable")
	}
	if len(rep.Unreachable) != 2 || rep.Unreachable[0].ID != 4 || rep.Unreachable[1].ID != 5 {
		t.Errorf("unexpected unreachable states: %v", rep.Unreachable)
	}
	if len(rep.Dead) != 1 || rep.Dead[0].ID != 3 {
		t.Errorf("unexpected dead states: %v", rep.Dead)
	}

	warnings := strings.Join(rep.Warnings(), "\n")
	if !strings.Contains(warnings, "unreachable states") || !strings.Contains(warnings, "without transitions") {
		t.Errorf("unexpected warnings: %s", warnings)
	}
}
