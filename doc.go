/*
Package turing is a universal Turing machine: it decodes single-tape deterministic
machines from their binary Gödel encoding and runs them against an input tape.

It separates the machine description (Definition, Machine) from the execution state
(Runner, Tape) and from observation (LifecycleHooks, step streams). The same engine
can be embedded in a CLI, an HTTP server or an MCP agent.

# Concept

A machine is a finite set of transitions δ(q, a) = (p, b, D). A run starts in
state 1 (START) with the head on the first input symbol and halts when it reaches
state 2 (ACCEPT) or when no transition applies (rejection). A step budget bounds
every run; exhausting it is reported as a distinct outcome, never as rejection.

# Encoding

Every transition is written as 0^i 1 0^j 1 0^k 1 0^l 1 0^m, records are joined with
"11", and a program is combined with its input as "<encoding>111<input>". See
package godel for the symbol table.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/turing"
	)

	func main() {
		utm := turing.New(turing.WithMaxSteps(1000))

		res, err := utm.RunCombined(context.Background(), "101001010101111010")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Outcome, res.Steps, res.Content)
	}

Observers are attached per execution and never change the result:

	x, _ := utm.Prepare(encoding, "0011")
	x.OnStep(func(ctx context.Context, e domain.StepEvent) {
		fmt.Println(e.Step, e.State, e.View)
	})
	res, err := x.Execute(ctx, 0)
*/
package turing
