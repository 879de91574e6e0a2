// Package harness runs canonicalization scenarios against a fresh
// disambiguate.ColorGraphNodeFactory.
//
// A scenario compiles a CUE color table, requests nodes for a sequence of
// colors, and checks the nodes it got back. Each run uses its own factory
// and a sequential identity generator, so traces are reproducible and can
// be compared against golden files.
//
// # Scenario Format
//
//	name: nullable_number
//	description: "number? and number share the boxed node"
//	specs:
//	  - ../specs/basic.cue
//	steps:
//	  - color: Num            # table entry or native id
//	    expect_index: 1
//	  - color: MaybeNum
//	  - color: null           # absent color
//	    expect_index: 0
//	  - union: [Foo, null_or_void]
//	assertions:
//	  - type: same_node
//	    steps: [0, 1]
//	  - type: node_count
//	    count: 3
//
// # Assertion Types
//
//   - node_count: the factory knows exactly count nodes
//   - same_node: the listed steps returned one node
//   - distinct_nodes: the listed steps returned pairwise different nodes
//   - node_order: the known nodes, by index, print as order
package harness
