package testutil

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertStepRan checks the log output within a HarnessResult to confirm that
// the step at the given 1-based position of a job was initiated by the
// module of the given type.
func AssertStepRan(t *testing.T, result *HarnessResult, moduleType string, step int) {
	t.Helper()

	pattern := fmt.Sprintf(`msg="Initiating step\."[^\n]* module=%s [^\n]*step=%d `, regexp.QuoteMeta(moduleType), step)

	require.Regexp(t, pattern, result.LogOutput,
		"expected step %d (%s) to be initiated, but it was not found in logs", step, moduleType,
	)
}

// AssertStepNotRan is the inverse of AssertStepRan.
func AssertStepNotRan(t *testing.T, result *HarnessResult, moduleType string, step int) {
	t.Helper()

	pattern := fmt.Sprintf(`msg="Initiating step\."[^\n]* module=%s [^\n]*step=%d `, regexp.QuoteMeta(moduleType), step)

	require.NotRegexp(t, pattern, result.LogOutput,
		"expected step %d (%s) not to be initiated", step, moduleType,
	)
}
