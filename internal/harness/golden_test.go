package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_CanonicalizeBasic(t *testing.T) {
	result, err := RunWithGolden(t, loadTestdataScenario(t, "canonicalize_basic.yaml"))
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestTraceSnapshot_OmitsHashes(t *testing.T) {
	result, err := Run(loadTestdataScenario(t, "canonicalize_basic.yaml"))
	require.NoError(t, err)

	snapshot := TraceSnapshot{ScenarioName: "s", Trace: result.Trace, Nodes: result.Nodes}
	data, err := snapshot.MarshalCanonical()
	require.NoError(t, err)
	assert.NotContains(t, string(data), result.TableDigest)
	assert.Contains(t, string(data), `"scenario_name":"s"`)
}

func TestTraceSnapshot_Empty(t *testing.T) {
	snapshot := TraceSnapshot{ScenarioName: "empty"}
	data, err := snapshot.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, `{"nodes":[],"scenario_name":"empty","trace":[]}`, string(data))
}
