package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []int
	CurrentState  int // 0 = none
}

// OverlayFromEvents marks every state seen in events and the last one as current.
func OverlayFromEvents(events []domain.StepEvent) *GraphOverlay {
	overlay := &GraphOverlay{}
	for _, e := range events {
		overlay.VisitedStates = append(overlay.VisitedStates, e.State.ID)
		overlay.CurrentState = e.State.ID
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of the machine's transition graph.
// It applies semantic styling:
// - Start: ((Circle))
// - Accept: (((Double circle)))
// - Default: [Rectangle]
// Rules sharing an edge are stacked on one label as "read/write,move".
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(m *domain.Machine, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range m.States() {
		opener, closer := "[", "]"
		switch {
		case s.Equal(m.Start()):
			opener, closer = "((", "))"
		case m.IsAccepting(s):
			opener, closer = "(((", ")))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", nodeID(s.ID), opener, escape(s.String()), closer))
	}

	type edge struct{ from, to int }
	labels := map[edge][]string{}
	var edges []edge
	for _, t := range m.Transitions() {
		e := edge{t.From.ID, t.To.ID}
		if _, seen := labels[e]; !seen {
			edges = append(edges, e)
		}
		labels[e] = append(labels[e], ruleLabel(t))
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})

	for _, e := range edges {
		rules := labels[e]
		sort.Strings(rules)
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", nodeID(e.from), strings.Join(rules, "<br/>"), nodeID(e.to)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[int]bool)
		for _, id := range overlay.VisitedStates {
			if _, ok := m.State(id); ok && !visited[id] {
				visited[id] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(id)))
			}
		}
		if overlay.CurrentState != 0 {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func ruleLabel(t domain.Transition) string {
	return fmt.Sprintf("%s/%s,%s", escape(t.Read.String()), escape(t.Write.String()), t.Move.String()[:1])
}

func nodeID(id int) string {
	return fmt.Sprintf("q%d", id)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
