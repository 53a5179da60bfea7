package main

import (
	"fmt"
	"io"

	"github.com/tp971/strix/internal/aiger"
	"github.com/tp971/strix/internal/kiss"
	"github.com/tp971/strix/internal/mealy"
)

// writeMachine serializes an extracted controller in the requested
// --format: "aiger" compiles it to an AND-inverter-graph circuit
// (internal/aiger), "kiss" emits its transition table (internal/kiss).
func writeMachine(w io.Writer, m *mealy.Machine, format string) error {
	switch format {
	case "", "aiger":
		circuit := aiger.Build(m)
		return aiger.WriteASCII(w, circuit)
	case "kiss":
		return kiss.Write(w, m)
	default:
		return fmt.Errorf("--format: unknown format %q (want aiger or kiss)", format)
	}
}
