package harness

// TraceEvent records one CreateNode request.
type TraceEvent struct {
	Step      int    `json:"step"`
	Color     string `json:"color"`      // requested color, "<absent>" for nil
	NodeColor string `json:"node_color"` // canonical color of the returned node
	Index     int    `json:"index"`
	Created   bool   `json:"created"` // false when the node already existed
}

// NodeSnapshot describes one node the factory knows.
type NodeSnapshot struct {
	Index int    `json:"index"`
	Color string `json:"color"`
	Kind  string `json:"kind"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect_index and assertion held.
	Pass bool `json:"pass"`

	// Trace has one event per step, in step order.
	Trace []TraceEvent `json:"trace"`

	// Nodes are the factory's known nodes after all steps, by index.
	Nodes []NodeSnapshot `json:"nodes"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// TableDigest identifies the color table the scenario ran against.
	TableDigest string `json:"table_digest"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Nodes:  []NodeSnapshot{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
