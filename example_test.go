package turing_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/godel"
)

// ExampleEngine_RunMachine builds a unary incrementer with the DSL and runs it.
func ExampleEngine_RunMachine() {
	b := dsl.New("unary-increment")
	b.State(dsl.Start).On('0').Right().Go(3)
	b.State(3).
		On('0').Right().Go(3).
		On('_').Write('1').Go(dsl.Accept)

	res, err := turing.New().RunMachine(context.Background(), b.MustBuild(), "000")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Outcome, res.Steps, res.Content)
	// Output:
	// accepted 4 0001
}

// ExampleEngine_RunCombined decodes a program and its input from a single string.
func ExampleEngine_RunCombined() {
	res, err := turing.New().RunCombined(context.Background(), "101001010101111010")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Outcome, res.Steps)
	// Output:
	// rejected 1
}

// Example_godelNumber prints the Gödel number of a one-rule machine.
func Example_godelNumber() {
	b := dsl.New("single").TapeAlphabet("01_")
	b.State(dsl.Start).On('0').Left().Go(dsl.Accept)

	enc, err := godel.NewEncoder(b.MustBuild())
	if err != nil {
		log.Fatal(err)
	}
	g, _ := enc.GodelNumber()
	fmt.Println(g)
	// Output:
	// 10101001010
}
