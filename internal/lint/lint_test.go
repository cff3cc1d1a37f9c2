package lint

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), Analyzer, "a")
}

func TestSplitList(t *testing.T) {
	got := splitList(" github.com/acme/throws, ,example.com/x ")
	if len(got) != 2 || got[0] != "github.com/acme/throws" || got[1] != "example.com/x" {
		t.Errorf("unexpected list %q", got)
	}
}
