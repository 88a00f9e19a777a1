package flatten

import (
	"fmt"
	"maps"
	"sort"
	"strconv"

	"github.com/mobiusgate/netreport/internal/model"
)

// Column-name collision markers. When a KPI (or an ungrouped dimension)
// shares a name with an earlier column, the later column is suffixed so
// header names stay pairwise distinct.
const (
	kpiMarker       = "(kpi)"
	ungroupedMarker = "(ungrouped)"
)

// column binds a source name (the key looked up in leaf maps) to the
// header label it is emitted under. The two differ only after collision
// disambiguation.
type column struct {
	name  string
	label string
}

// Flatten converts a grouped analytics report into a flat table.
//
// ungroupedDimensions determines which ungrouped-dimension columns are
// requested and their left-to-right order in the header. It does not
// filter leaves: a leaf missing a requested dimension yields an empty
// cell, and a leaf carrying an unrequested dimension omits it.
//
// The header is [grouped dimensions, first-seen depth-major order] +
// [ungrouped dimensions, caller order] + [KPIs, first-seen order]. Row
// order is leaf visitation order: depth-first, left-to-right, preserving
// the input's own ordering verbatim.
//
// A report that violates the branch/leaf invariant yields a
// *MalformedReportError. A report with zero leaves is not an error; the
// result is a table with a valid header and no rows.
func Flatten(report *model.AnalyticsReport, ungroupedDimensions []string) (*model.Table, error) {
	s := &schema{groupedSeen: map[string]bool{}, kpiSeen: map[string]bool{}}

	var groups []*model.GroupNode
	if report != nil {
		groups = report.Groups
	}
	for i, g := range groups {
		if err := s.discover(g, fmt.Sprintf("groups[%d]", i), 0); err != nil {
			return nil, err
		}
	}

	grouped, ungrouped, kpis := s.assemble(ungroupedDimensions)

	header := make([]string, 0, len(grouped)+len(ungrouped)+len(kpis))
	for _, c := range grouped {
		header = append(header, c.label)
	}
	for _, c := range ungrouped {
		header = append(header, c.label)
	}
	for _, c := range kpis {
		header = append(header, c.label)
	}

	table := &model.Table{Header: header, Rows: [][]string{}}
	for _, g := range groups {
		emit(g, nil, grouped, ungrouped, kpis, table)
	}
	return table, nil
}

// schema accumulates the column set during the discovery pass.
type schema struct {
	// groupedByDepth holds grouped-dimension names in first-seen order,
	// bucketed by the depth at which each name first appeared. The final
	// grouped column order is depth-major: all depth-0 names, then all
	// depth-1 names, and so on.
	groupedByDepth [][]string
	groupedSeen    map[string]bool

	// kpiOrder holds KPI names in first-seen order across all leaves.
	kpiOrder []string
	kpiSeen  map[string]bool
}

// discover walks the tree depth-first, validating each node and recording
// grouped-dimension and KPI names. Map keys within a single node are
// visited in lexicographic order so the first-seen column order is
// deterministic despite Go's randomized map iteration.
func (s *schema) discover(n *model.GroupNode, path string, depth int) error {
	switch n.Kind() {
	case model.KindBranch, model.KindLeaf:
	default:
		return &MalformedReportError{Path: path, Reason: malformedReason(n)}
	}

	for len(s.groupedByDepth) <= depth {
		s.groupedByDepth = append(s.groupedByDepth, nil)
	}
	for _, name := range sortedKeys(n.DimensionValues) {
		if !s.groupedSeen[name] {
			s.groupedSeen[name] = true
			s.groupedByDepth[depth] = append(s.groupedByDepth[depth], name)
		}
	}

	if n.Kind() == model.KindLeaf {
		names := make([]string, 0, len(n.KPIs))
		for name := range n.KPIs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !s.kpiSeen[name] {
				s.kpiSeen[name] = true
				s.kpiOrder = append(s.kpiOrder, name)
			}
		}
		return nil
	}

	for i, c := range n.Children {
		if err := s.discover(c, fmt.Sprintf("%s.children[%d]", path, i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// malformedReason describes which part of the branch/leaf invariant a
// malformed node violates.
func malformedReason(n *model.GroupNode) string {
	if len(n.Children) > 0 {
		return "node mixes children with KPI or ungrouped-dimension values"
	}
	return "node has neither children nor a KPI set"
}

// assemble fixes the final column layout: grouped dimensions keep their
// discovered names; requested ungrouped dimensions follow in caller order
// (duplicates dropped after the first occurrence); KPIs come last in
// first-seen order. Later columns colliding with an earlier header name
// are suffixed with a marker until unique.
func (s *schema) assemble(ungroupedDimensions []string) (grouped, ungrouped, kpis []column) {
	used := make(map[string]bool, len(s.groupedSeen))

	for _, names := range s.groupedByDepth {
		for _, name := range names {
			used[name] = true
			grouped = append(grouped, column{name: name, label: name})
		}
	}

	requested := make(map[string]bool, len(ungroupedDimensions))
	for _, name := range ungroupedDimensions {
		if requested[name] {
			continue
		}
		requested[name] = true
		label := disambiguate(name, ungroupedMarker, used)
		used[label] = true
		ungrouped = append(ungrouped, column{name: name, label: label})
	}

	for _, name := range s.kpiOrder {
		label := disambiguate(name, kpiMarker, used)
		used[label] = true
		kpis = append(kpis, column{name: name, label: label})
	}
	return grouped, ungrouped, kpis
}

// disambiguate appends marker to name until the result is not already a
// header label. A single marker suffices unless the input itself contains
// pre-suffixed names.
func disambiguate(name, marker string, used map[string]bool) string {
	label := name
	for used[label] {
		label += marker
	}
	return label
}

// emit walks the tree depth-first, accumulating grouped-dimension values
// along the path and appending one row per leaf.
func emit(n *model.GroupNode, pathValues map[string]any, grouped, ungrouped, kpis []column, table *model.Table) {
	if len(n.DimensionValues) > 0 {
		merged := make(map[string]any, len(pathValues)+len(n.DimensionValues))
		maps.Copy(merged, pathValues)
		maps.Copy(merged, n.DimensionValues)
		pathValues = merged
	}

	if len(n.Children) == 0 {
		row := make([]string, 0, len(table.Header))
		for _, c := range grouped {
			row = append(row, formatScalar(pathValues[c.name]))
		}
		for _, c := range ungrouped {
			row = append(row, formatScalar(n.UngroupedDimensionValues[c.name]))
		}
		for _, c := range kpis {
			if v, ok := n.KPIs[c.name]; ok {
				row = append(row, formatKPI(v))
			} else {
				row = append(row, "")
			}
		}
		table.Rows = append(table.Rows, row)
		return
	}

	for _, c := range n.Children {
		emit(c, pathValues, grouped, ungrouped, kpis, table)
	}
}

// formatKPI renders a KPI value in stable decimal form: no scientific
// notation, no locale-dependent separators, shortest representation that
// round-trips.
func formatKPI(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatScalar renders a decoded JSON scalar as a cell value. Absent
// values (nil) render as the empty string, never as "null" or "0".
func formatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// sortedKeys returns the map's keys in lexicographic order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
