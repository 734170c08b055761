/*
Package domain contains the core models of a single-tape deterministic Turing machine.

It defines the fundamental entities of the simulation, such as States, Symbols,
Transitions and the immutable Machine aggregate. This package is kept pure and free
of external dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - State: A machine state identified by a positive integer (1 = START, 2 = ACCEPT).
  - Transition: One entry of the transition function δ(state, symbol).
  - Machine: The validated transition table with an O(1) lookup index.
  - Result: The terminal snapshot of a run (accepted, rejected or step limit).
  - StepEvent: The observable record emitted for every micro-step.
*/
package domain
