package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/Raphi52/OnlyVIP-sub000/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
