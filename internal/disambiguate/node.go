package disambiguate

import (
	"fmt"

	"github.com/roach88/colorgraph/internal/colors"
)

// ColorGraphNode is the ambiguation-graph vertex for one canonical color.
//
// Nodes are only created by a ColorGraphNodeFactory and are immutable.
// Within one factory, node identity is pointer identity.
type ColorGraphNode struct {
	color *colors.Color
	index int
}

// Color returns the canonical color this node stands for.
func (n *ColorGraphNode) Color() *colors.Color {
	return n.color
}

// Index returns the dense, first-observed-order index of this node.
func (n *ColorGraphNode) Index() int {
	return n.index
}

func (n *ColorGraphNode) String() string {
	return fmt.Sprintf("ColorGraphNode{%d, %s}", n.index, n.color)
}
