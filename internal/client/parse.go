package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mobiusgate/netreport/internal/flatten"
	"github.com/mobiusgate/netreport/internal/model"
)

// ParseReport decodes a raw service response into the report model and
// checks the branch/leaf invariant on every node.
//
// Structural violations - a kpis value that is not a JSON object, or a
// node that is neither branch nor leaf - are reported as
// *flatten.MalformedReportError so callers see one error type for all
// malformed input, whether the violation is caught during decoding or
// during flattening.
func ParseReport(raw []byte) (*model.AnalyticsReport, error) {
	var report model.AnalyticsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &flatten.MalformedReportError{
				Path:   typeErr.Field,
				Reason: fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value),
			}
		}
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	for i, g := range report.Groups {
		if err := validateNode(g, fmt.Sprintf("groups[%d]", i)); err != nil {
			return nil, err
		}
	}
	return &report, nil
}

// validateNode walks the decoded subtree and rejects the first node that
// is neither a valid branch nor a valid leaf, so malformed reports fail
// at the parse boundary rather than mid-flatten.
func validateNode(n *model.GroupNode, path string) error {
	switch n.Kind() {
	case model.KindBranch, model.KindLeaf:
	default:
		return &flatten.MalformedReportError{
			Path:   path,
			Reason: "node is neither a valid branch nor a valid leaf",
		}
	}
	for i, c := range n.Children {
		if err := validateNode(c, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}
