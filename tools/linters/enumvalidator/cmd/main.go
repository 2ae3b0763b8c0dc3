package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"tenantkit.dev/api/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
