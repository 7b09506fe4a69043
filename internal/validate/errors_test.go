package validate

import (
	"bytes"
	"os"
	"testing"

	"bookkit/internal/config"
	"bookkit/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindExceptions(t *testing.T) {
	tr := newTree(t)
	tr.example("basics/Fine.java", "", "ok\n", "")
	tr.example("basics/Expected.java", "", "", "java.lang.RuntimeException\n"+config.ExpectedExceptionMarker+"\n")
	tr.example("basics/Logging.java", "", "", "java.util.logging.LoggingException: nope\n")
	tr.example("basics/Broken.java", "", "", "java.lang.NullPointerException\n")

	var buf bytes.Buffer
	require.NoError(t, FindExceptions(tr.cfg, &buf))

	data, err := os.ReadFile(tr.cfg.ErrorsReportPath())
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(data, []byte(errorChunkSeparator)))

	out := buf.String()
	assert.Contains(t, out, "3 error files collected")
	assert.Contains(t, out, "NullPointerException")
	assert.NotContains(t, out, "RuntimeException")
	assert.NotContains(t, out, "LoggingException")
}

func TestShowProblemErrors(t *testing.T) {
	tr := newTree(t)
	report := "\n== a ==\nboom\n<-:->\n== b ==\nLoggingException\n<-:->"
	require.NoError(t, os.WriteFile(tr.cfg.ErrorsReportPath(), []byte(report), 0644))

	var buf bytes.Buffer
	problems, err := ShowProblemErrors(tr.cfg, &buf)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "boom")
}

func TestShowProblemErrors_NeedsReport(t *testing.T) {
	tr := newTree(t)
	var buf bytes.Buffer
	_, err := ShowProblemErrors(tr.cfg, &buf)
	assert.ErrorIs(t, err, types.ErrMissingPrerequisite)
}
