package model

import (
	"fmt"
	"time"
)

// Metadata echoes the query that produced a report. It is informational
// only and is never flattened into output rows.
type Metadata struct {
	// StartTime is the inclusive start of the reported time window.
	StartTime time.Time `json:"startTime"`

	// EndTime is the exclusive end of the reported time window.
	EndTime time.Time `json:"endTime"`

	// OperatorID identifies the operator the report was generated for.
	OperatorID string `json:"operatorId"`

	// GranularitySeconds is the aggregation bucket size used by the service.
	GranularitySeconds int `json:"granularitySeconds"`
}

// AnalyticsReport is the root value returned by the reporting service for
// one query: query metadata plus an ordered sequence of top-level groups.
//
// The order of Groups (and of every Children slice below it) is the order
// the service returned, typically its own sort order. That order is
// preserved verbatim through flattening; nothing in this repository
// reorders groups or rows.
type AnalyticsReport struct {
	// Metadata echoes the query parameters. Informational only.
	Metadata Metadata `json:"metadata"`

	// Groups is the grouping hierarchy. May be empty when the queried
	// window contains no data; that is a valid report, not an error.
	Groups []*GroupNode `json:"groups"`
}

// Validate checks the branch/leaf invariant for every node in the
// report and returns an error naming the first violation.
func (r *AnalyticsReport) Validate() error {
	for i, g := range r.Groups {
		if err := g.Validate(fmt.Sprintf("groups[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

// LeafCount returns the number of leaf nodes reachable from the report.
// Each leaf produces exactly one row when the report is flattened.
func (r *AnalyticsReport) LeafCount() int {
	total := 0
	for _, g := range r.Groups {
		total += g.leafCount()
	}
	return total
}

func (n *GroupNode) leafCount() int {
	if len(n.Children) == 0 {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.leafCount()
	}
	return total
}
