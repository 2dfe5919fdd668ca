package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/typechef-go/vcfgcore/diagnostic"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDiagnosticsSortedBySeverityThenMessage(t *testing.T) {
	t.Parallel()

	e := diagnostic.NewEngine()
	e.Reportf(diagnostic.Info, nil, "zzz info")
	e.Reportf(diagnostic.Error, nil, "bbb error")
	e.Reportf(diagnostic.Warning, nil, "aaa warning")
	e.Reportf(diagnostic.Error, nil, "aaa error")

	got := e.Diagnostics()
	require.Equal(t, 4, e.Len())
	require.Equal(t, []string{"aaa error", "bbb error", "aaa warning", "zzz info"}, messages(got))
}

func TestDiagnosticStringFormatsWithoutNode(t *testing.T) {
	t.Parallel()

	withoutNode := diagnostic.Diagnostic{Severity: diagnostic.Warning, Message: "m"}
	require.Equal(t, "[warning] m", withoutNode.String())
}

func TestSeverityString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "info", diagnostic.Info.String())
	require.Equal(t, "warning", diagnostic.Warning.String())
	require.Equal(t, "error", diagnostic.Error.String())
	require.Equal(t, "unknown", diagnostic.Severity(99).String())
}

func messages(ds []diagnostic.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Message
	}
	return out
}
