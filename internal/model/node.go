package model

import "fmt"

// NodeKind classifies a GroupNode as a branch, a leaf, or malformed.
type NodeKind int

const (
	// KindMalformed marks a node that is neither a valid branch nor a
	// valid leaf. Malformed nodes are rejected before flattening.
	KindMalformed NodeKind = iota

	// KindBranch marks a non-terminal node: it has children and carries
	// no KPI or ungrouped-dimension values of its own.
	KindBranch

	// KindLeaf marks a terminal node: it carries KPI values (possibly an
	// empty set) and has no children.
	KindLeaf
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindBranch:
		return "branch"
	case KindLeaf:
		return "leaf"
	default:
		return "malformed"
	}
}

// GroupNode is one node in a report's grouping hierarchy.
//
// Design decision: The service's JSON uses dictionaries of varying shape at
// each depth. We model every node with the same struct and make the
// branch/leaf distinction an explicit, validated classification (Kind)
// rather than an implicit convention. This prevents silently treating a
// malformed node as either.
type GroupNode struct {
	// DimensionValues maps grouped-dimension name to scalar value and is
	// the grouping key at this level, e.g. {"country": "US"}.
	// Values are kept as decoded JSON scalars (string, float64, bool).
	DimensionValues map[string]any `json:"dimensionValues,omitempty"`

	// KPIs maps KPI name to numeric value. Present only on leaves.
	// A nil map means "absent"; an empty map is a leaf with no KPIs.
	KPIs map[string]float64 `json:"kpis,omitempty"`

	// UngroupedDimensionValues maps ungrouped-dimension name to scalar
	// value. Present only on leaves; nil is treated as empty.
	UngroupedDimensionValues map[string]any `json:"ungroupedDimensionValues,omitempty"`

	// Children holds nested groups for multi-level grouping.
	// Empty on a leaf.
	Children []*GroupNode `json:"children,omitempty"`
}

// Kind classifies the node. A branch has children and no leaf payload; a
// leaf has a KPI map (the JSON key must be present, even if empty) and no
// children. Anything else is malformed: a node mixing children with KPI or
// ungrouped-dimension values, and a childless node without a KPI map.
func (n *GroupNode) Kind() NodeKind {
	hasChildren := len(n.Children) > 0
	hasLeafPayload := n.KPIs != nil || n.UngroupedDimensionValues != nil

	switch {
	case hasChildren && hasLeafPayload:
		return KindMalformed
	case hasChildren:
		return KindBranch
	case n.KPIs != nil:
		return KindLeaf
	default:
		return KindMalformed
	}
}

// Validate walks the subtree rooted at n and returns an error naming the
// first malformed node, using the same path notation as flattening
// errors (e.g. "groups[0].children[2]").
func (n *GroupNode) Validate(path string) error {
	if n.Kind() == KindMalformed {
		return fmt.Errorf("malformed report node at %s: neither branch nor leaf", path)
	}
	for i, c := range n.Children {
		if err := c.Validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}
