package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query describes one report request: the time window, the reporting
// entity, and the KPI and dimension selection.
type Query struct {
	// Start is the inclusive start of the reporting window.
	Start time.Time

	// End is the exclusive end of the reporting window.
	End time.Time

	// OperatorID identifies the operator to report on.
	OperatorID string

	// GroupID optionally narrows the report to one delivery group.
	GroupID string

	// GranularitySeconds is the aggregation bucket size.
	GranularitySeconds int

	// KPIs is the list of metrics to report.
	KPIs []string

	// UngroupedDimensions lists dimensions to report per leaf without
	// grouping by them.
	UngroupedDimensions []string

	// GroupedDimensions lists dimensions to partition the report by,
	// outermost first.
	GroupedDimensions []string
}

// Values encodes the query as URL parameters the service expects.
// Times are sent as Unix epoch seconds; list parameters are comma-joined.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("startTime", strconv.FormatInt(q.Start.Unix(), 10))
	v.Set("endTime", strconv.FormatInt(q.End.Unix(), 10))
	v.Set("operatorId", q.OperatorID)
	if q.GroupID != "" {
		v.Set("groupId", q.GroupID)
	}
	v.Set("granularity", strconv.Itoa(q.GranularitySeconds))
	v.Set("kpis", strings.Join(q.KPIs, ","))
	if len(q.GroupedDimensions) > 0 {
		v.Set("groupedDimensions", strings.Join(q.GroupedDimensions, ","))
	}
	if len(q.UngroupedDimensions) > 0 {
		v.Set("ungroupedDimensions", strings.Join(q.UngroupedDimensions, ","))
	}
	return v
}

// Client is the reporting-service collaborator. Both methods return the
// service's raw JSON response; callers decide whether to pass it through
// or decode it with ParseReport.
type Client interface {
	// GetReport fetches one analytics report for the given query.
	GetReport(ctx context.Context, query Query) ([]byte, error)

	// GetServiceVersion fetches the reporting service's version document.
	GetServiceVersion(ctx context.Context) ([]byte, error)
}
