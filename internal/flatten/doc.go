// Package flatten converts a hierarchical, dimensionally-grouped analytics
// report into a flat table suitable for CSV output.
//
// The transformation honors a caller-specified list of ungrouped dimensions
// that appear as repeated columns on every output row regardless of the
// grouping hierarchy, handles variable-depth grouping and heterogeneous
// per-group KPI sets, and produces a deterministic header.
//
// Design decision: Flattening runs in two passes over the tree. The first
// pass validates the branch/leaf invariant and discovers the full column
// set (the union of grouped-dimension and KPI names across all leaves);
// the second emits one row per leaf against that fixed header. A single
// pass would have to rewrite already-emitted rows whenever a later leaf
// introduced a new column.
package flatten
