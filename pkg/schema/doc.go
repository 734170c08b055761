// Package schema reads and writes machine definition files.
//
// A definition file is YAML or JSON:
//
//	name: unary-increment
//	tape_alphabet: "01_"
//	states:
//	  - {id: 3, name: scan}
//	transitions:
//	  - {from: 1, read: 0, to: 3, move: R}
//	  - {from: 3, read: 0, to: 3, move: R}
//	  - {from: 3, read: _, to: 2, write: 1}
//
// State 1 is START and state 2 is ACCEPT. States referenced by transitions are
// declared implicitly; the states list only assigns names. Omitted writes keep
// the read symbol and omitted moves leave the head in place. The input alphabet
// defaults to the tape alphabet without the blank.
//
// Raw documents are checked against a field Schema before they are decoded, so
// every structural problem is reported at once in an AggregateError.
package schema
