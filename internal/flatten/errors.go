package flatten

import "fmt"

// MalformedReportError is returned when a report node violates the
// branch/leaf invariant: every node must either have children and no KPI
// payload (a branch) or carry a KPI map and no children (a leaf).
//
// Design decision: We use a structured error type rather than a sentinel
// because the offending node's location is essential for diagnosing bad
// service responses. Callers can still match with errors.As.
type MalformedReportError struct {
	// Path locates the offending node, e.g. "groups[0].children[2]".
	Path string

	// Reason describes which part of the invariant was violated.
	Reason string
}

// Error implements the error interface.
func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("malformed report: node %s: %s", e.Path, e.Reason)
}
