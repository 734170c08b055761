package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// ErrAcceptUnreachable reports a machine that can never accept, whatever its input.
var ErrAcceptUnreachable = errors.New("accept state is unreachable from start")

// Report is the outcome of crawling a machine's transition graph.
type Report struct {
	// Reachable lists the states reachable from START, in BFS order.
	Reachable []domain.State
	// Unreachable lists declared states never reached from START, by id.
	Unreachable []domain.State
	// Dead lists reachable non-accepting states with no outgoing transition.
	Dead []domain.State
	// AcceptReachable is true when some path from START leads to ACCEPT.
	AcceptReachable bool
}

// Analyze walks the transition graph of m breadth-first from its start state.
// Tape contents are ignored: an edge exists for every defined transition.
func Analyze(m *domain.Machine) Report {
	edges := make(map[int][]domain.State)
	for _, t := range m.Transitions() {
		edges[t.From.ID] = append(edges[t.From.ID], t.To)
	}

	var rep Report
	visited := make(map[int]bool)
	queue := []domain.State{m.Start()}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.ID] {
			continue
		}
		visited[current.ID] = true
		rep.Reachable = append(rep.Reachable, current)

		if m.IsAccepting(current) {
			rep.AcceptReachable = true
			continue
		}
		if len(edges[current.ID]) == 0 {
			rep.Dead = append(rep.Dead, current)
			continue
		}
		for _, next := range edges[current.ID] {
			if !visited[next.ID] {
				queue = append(queue, next)
			}
		}
	}

	for _, s := range m.States() {
		if !visited[s.ID] {
			rep.Unreachable = append(rep.Unreachable, s)
		}
	}
	sort.Slice(rep.Unreachable, func(i, j int) bool { return rep.Unreachable[i].ID < rep.Unreachable[j].ID })
	return rep
}

// Validate returns ErrAcceptUnreachable when no run of m can accept.
// Unreachable and dead states are tolerated; they are listed in Warnings.
func Validate(m *domain.Machine) (Report, error) {
	rep := Analyze(m)
	if !rep.AcceptReachable {
		return rep, fmt.Errorf("%w (reached %s)", ErrAcceptUnreachable, joinStates(rep.Reachable))
	}
	return rep, nil
}

// Warnings describes states that never contribute to an accepting run.
func (r Report) Warnings() []string {
	var out []string
	if len(r.Unreachable) > 0 {
		out = append(out, fmt.Sprintf("unreachable states: %s", joinStates(r.Unreachable)))
	}
	if len(r.Dead) > 0 {
		out = append(out, fmt.Sprintf("states without transitions: %s", joinStates(r.Dead)))
	}
	return out
}

func joinStates(states []domain.State) string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
