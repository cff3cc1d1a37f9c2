// Command throwslint reports misuse of throws directives and markers.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/sirkon/throws/internal/lint"
)

func main() {
	singlechecker.Main(lint.Analyzer)
}
