package dsl

import "github.com/aretw0/turing/pkg/domain"

type rule struct {
	read  domain.Symbol
	write domain.Symbol
	move  domain.Direction
	to    int
}

// StateBuilder collects the rules leaving one state.
type StateBuilder struct {
	id      int
	rules   []rule
	builder *Builder
}

// On starts a rule for reading sym in this state.
func (s *StateBuilder) On(sym domain.Symbol) *RuleBuilder {
	return &RuleBuilder{
		state: s,
		rule:  rule{read: sym, write: sym, move: domain.None},
	}
}

// Named sets the display name of this state.
func (s *StateBuilder) Named(name string) *StateBuilder {
	s.builder.Name(s.id, name)
	return s
}

// RuleBuilder provides a fluent API for configuring one transition.
// Unless Write is called the rule writes back the symbol it read.
type RuleBuilder struct {
	state *StateBuilder
	rule  rule
}

// Write sets the symbol written under the head.
func (r *RuleBuilder) Write(sym domain.Symbol) *RuleBuilder {
	r.rule.write = sym
	return r
}

// Left moves the head left after writing.
func (r *RuleBuilder) Left() *RuleBuilder { return r.Move(domain.Left) }

// Right moves the head right after writing.
func (r *RuleBuilder) Right() *RuleBuilder { return r.Move(domain.Right) }

// Stay keeps the head in place after writing.
func (r *RuleBuilder) Stay() *RuleBuilder { return r.Move(domain.None) }

// Move sets the head movement.
func (r *RuleBuilder) Move(d domain.Direction) *RuleBuilder {
	r.rule.move = d
	return r
}

// Go completes the rule with its target state and returns the state builder for chaining.
func (r *RuleBuilder) Go(to int) *StateBuilder {
	r.rule.to = to
	r.state.rules = append(r.state.rules, r.rule)
	return r.state
}
