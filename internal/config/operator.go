package config

// OperatorDefaults holds query defaults for a single operator.
// This lets frequent queries omit most flags.
type OperatorDefaults struct {
	// GroupID narrows reports to one delivery group.
	GroupID string `yaml:"groupId,omitempty"`

	// GranularitySeconds overrides the global aggregation bucket size.
	// If zero, the global granularity is used.
	GranularitySeconds int `yaml:"granularitySeconds,omitempty"`

	// KPIs is the default metric selection for this operator.
	KPIs []string `yaml:"kpis,omitempty"`

	// GroupedDimensions is the default grouping, outermost first.
	GroupedDimensions []string `yaml:"groupedDimensions,omitempty"`

	// UngroupedDimensions is the default per-leaf dimension selection.
	UngroupedDimensions []string `yaml:"ungroupedDimensions,omitempty"`
}

// File represents the structure of the .netreport configuration file.
type File struct {
	// Endpoint is the reporting service base URL.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Operators maps operator IDs to their query defaults.
	Operators map[string]OperatorDefaults `yaml:"operators,omitempty"`

	// Defaults contains query defaults applied to all operators unless
	// overridden in the operator-specific section.
	Defaults OperatorDefaults `yaml:"defaults,omitempty"`
}

// GetOperatorDefaults returns the query defaults for a specific operator.
// It merges the operator-specific configuration with the file's defaults:
// list-valued fields are replaced, not concatenated, because a partial
// merge of KPI lists would produce queries nobody wrote down.
func (cf *File) GetOperatorDefaults(operatorID string) OperatorDefaults {
	result := cf.Defaults

	if od, ok := cf.Operators[operatorID]; ok {
		if od.GroupID != "" {
			result.GroupID = od.GroupID
		}
		if od.GranularitySeconds != 0 {
			result.GranularitySeconds = od.GranularitySeconds
		}
		if len(od.KPIs) > 0 {
			result.KPIs = od.KPIs
		}
		if len(od.GroupedDimensions) > 0 {
			result.GroupedDimensions = od.GroupedDimensions
		}
		if len(od.UngroupedDimensions) > 0 {
			result.UngroupedDimensions = od.UngroupedDimensions
		}
	}

	return result
}
