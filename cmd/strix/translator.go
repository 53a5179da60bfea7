package main

import "github.com/tp971/strix/internal/ltl"

// newTranslator returns the LTL-to-DPA collaborator a synthesis run parses
// and decomposes formulas with. Strix (the original) resolves this at
// startup through a JNI bridge into Owl's Java library, located by
// --owl-jar; this port carries the same seam as an injectable
// ltl.Translator instead of binding a JVM. No in-repo implementation exists
// (translating LTL to deterministic parity automata is the external
// collaborator internal/ltl.go documents as out of scope), so the default
// here always fails closed with ltl.ErrNoTranslator. Integration tests and
// any future real translator bind by replacing this variable.
var newTranslator = func(owlJar string) (ltl.Translator, error) {
	return nil, ltl.ErrNoTranslator
}
