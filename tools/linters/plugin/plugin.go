package main

import (
	"golang.org/x/tools/go/analysis"

	"callnote.app/server/tools/linters/enumvalidator"
)

// New is the golangci-lint module plugin entrypoint.
func New(conf any) ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{enumvalidator.Analyzer}, nil
}

// main is unused; the package is built with -buildmode=plugin.
func main() {}
