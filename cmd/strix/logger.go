package main

import "github.com/tp971/strix/internal/obslog"

// newLogger builds the development logger under --verbose (human-
// readable, debug level, matching OptionParser.cc's repeatable -v/
// --verbose counter) or the production JSON logger otherwise.
func newLogger(verbose bool) (obslog.Logger, error) {
	if verbose {
		return obslog.NewDevelopment()
	}
	return obslog.NewProduction()
}
