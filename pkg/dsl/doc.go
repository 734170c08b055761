/*
Package dsl provides a Go DSL for programmatically constructing Turing machines.

It lets developers declare a transition table with a type-safe, fluent builder
instead of relying on external YAML files or binary encodings. This is
particularly useful for unit testing and for generating machines in code.

Example usage:

	b := dsl.New("unary-increment")

	b.State(dsl.Start).
		On('0').Write('0').Right().Go(3)

	b.State(3).
		On('0').Write('0').Right().Go(3).
		On('_').Write('1').Stay().Go(dsl.Accept)

	machine, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
*/
package dsl
