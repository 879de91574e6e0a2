package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertNodeCount,
		Expected: "2 nodes",
		Actual:   "3 nodes",
		Trace: []TraceEvent{
			{Step: 0, Color: "number", NodeColor: "number_object", Index: 1, Created: true},
		},
	}

	want := "Assertion failed: node_count\n" +
		"  Expected: 2 nodes\n" +
		"  Actual: 3 nodes\n" +
		"\nFull trace:\n" +
		"  [0] number -> #1 number_object\n"
	assert.Equal(t, want, err.Error())
}

func TestAssertNodeOrder(t *testing.T) {
	result := NewResult()
	result.Nodes = []NodeSnapshot{{Index: 0, Color: "unknown"}, {Index: 1, Color: "Foo"}}

	assert.NoError(t, assertNodeOrder(result, Assertion{Order: []string{"unknown", "Foo"}}))
	assert.Error(t, assertNodeOrder(result, Assertion{Order: []string{"unknown"}}))
}

func TestAssertNodeCount(t *testing.T) {
	result := NewResult()
	result.Nodes = []NodeSnapshot{{Index: 0, Color: "unknown"}}

	assert.NoError(t, assertNodeCount(result, Assertion{Count: 1}))
	assert.Error(t, assertNodeCount(result, Assertion{Count: 2}))
}

func TestResult_AddError(t *testing.T) {
	result := NewResult()
	assert.True(t, result.Pass)
	result.AddError("boom")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"boom"}, result.Errors)
}
