package enums

import "fmt"

// TraceEventType classifies traceability events recorded against a lot.
type TraceEventType string

const (
	TraceEventTypeHarvest   TraceEventType = "HARVEST"
	TraceEventTypeCuring    TraceEventType = "CURING"
	TraceEventTypeSorting   TraceEventType = "SORTING"
	TraceEventTypePackaging TraceEventType = "PACKAGING"
	TraceEventTypeExport    TraceEventType = "EXPORT"
	TraceEventTypeCustom    TraceEventType = "CUSTOM"
)

var validTraceEventTypes = []TraceEventType{
	TraceEventTypeHarvest,
	TraceEventTypeCuring,
	TraceEventTypeSorting,
	TraceEventTypePackaging,
	TraceEventTypeExport,
	TraceEventTypeCustom,
}

// String implements fmt.Stringer.
func (t TraceEventType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TraceEventType.
func (t TraceEventType) IsValid() bool {
	for _, candidate := range validTraceEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTraceEventType converts raw input into a TraceEventType.
func ParseTraceEventType(value string) (TraceEventType, error) {
	for _, candidate := range validTraceEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trace event type %q", value)
}
