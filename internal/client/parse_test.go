package client

import (
	"errors"
	"testing"

	"github.com/mobiusgate/netreport/internal/flatten"
)

// TestParseReport tests decoding of service responses.
func TestParseReport(t *testing.T) {
	t.Parallel()

	t.Run("decodes a nested report", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{
			"metadata": {
				"startTime": "2026-08-01T00:00:00Z",
				"endTime": "2026-08-02T00:00:00Z",
				"operatorId": "1234",
				"granularitySeconds": 300
			},
			"groups": [
				{
					"dimensionValues": {"country": "US"},
					"children": [
						{
							"dimensionValues": {"city": "Boston"},
							"kpis": {"requests": 100},
							"ungroupedDimensionValues": {"network": "fixed"}
						}
					]
				}
			]
		}`)

		report, err := ParseReport(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Metadata.OperatorID != "1234" {
			t.Errorf("got operator %q, expected 1234", report.Metadata.OperatorID)
		}
		if len(report.Groups) != 1 {
			t.Fatalf("got %d groups, expected 1", len(report.Groups))
		}
		leafNode := report.Groups[0].Children[0]
		if leafNode.KPIs["requests"] != 100 {
			t.Errorf("got requests %v, expected 100", leafNode.KPIs["requests"])
		}
		if leafNode.UngroupedDimensionValues["network"] != "fixed" {
			t.Errorf("got network %v, expected fixed", leafNode.UngroupedDimensionValues["network"])
		}
	})

	t.Run("decodes an empty report", func(t *testing.T) {
		t.Parallel()

		report, err := ParseReport([]byte(`{"metadata":{},"groups":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.LeafCount() != 0 {
			t.Errorf("got %d leaves, expected 0", report.LeafCount())
		}
	})

	t.Run("rejects kpis that are not a mapping", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{"groups":[{"dimensionValues":{"country":"US"},"kpis":[1,2,3]}]}`)
		_, err := ParseReport(raw)
		if err == nil {
			t.Fatal("expected error")
		}
		var malformed *flatten.MalformedReportError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected *MalformedReportError, got %T", err)
		}
	})

	t.Run("rejects non-numeric kpi values", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{"groups":[{"kpis":{"requests":"many"}}]}`)
		_, err := ParseReport(raw)
		var malformed *flatten.MalformedReportError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected *MalformedReportError, got %v", err)
		}
	})

	t.Run("rejects a node that is neither branch nor leaf", func(t *testing.T) {
		t.Parallel()

		// Decodes cleanly, but the nested node has neither children nor
		// a kpis key.
		raw := []byte(`{"groups":[
			{
				"dimensionValues": {"country": "US"},
				"children": [
					{"dimensionValues": {"city": "Boston"}, "kpis": {"requests": 1}},
					{"dimensionValues": {"city": "Chicago"}}
				]
			}
		]}`)
		_, err := ParseReport(raw)
		if err == nil {
			t.Fatal("expected error")
		}
		var malformed *flatten.MalformedReportError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected *MalformedReportError, got %T", err)
		}
		if malformed.Path != "groups[0].children[1]" {
			t.Errorf("got path %q, expected groups[0].children[1]", malformed.Path)
		}
	})

	t.Run("rejects invalid json without claiming malformed shape", func(t *testing.T) {
		t.Parallel()

		_, err := ParseReport([]byte(`{"groups":`))
		if err == nil {
			t.Fatal("expected error")
		}
		var malformed *flatten.MalformedReportError
		if errors.As(err, &malformed) {
			t.Errorf("expected a plain decode error, got %v", err)
		}
	})
}
