package protocol

import (
	"fmt"
	"strings"
	"time"
)

// Metric is one named value of a report line
type Metric struct {
	Name  string
	Value string
}

// IntMetric formats an integer metric
func IntMetric(name string, v int) Metric {
	return Metric{Name: name, Value: fmt.Sprintf("%d", v)}
}

// FloatMetric formats a floating point metric
func FloatMetric(name string, v float64) Metric {
	return Metric{Name: name, Value: fmt.Sprintf("%.6g", v)}
}

// Report is the coordinator's summary of one workload size
type Report struct {
	Label   string // name of the size, e.g. N or Grid
	Size    int
	Metrics []Metric
	Elapsed time.Duration // end of Distribute to end of Collect

	// Details are printed before the report line
	Details []string

	// Result is the merged result: int for reductions, []float64 for
	// stencils, *mat.Dense for products, []string for greetings
	Result any
}

// String renders `<label>=<size> <metric>=<value> ... Time=<seconds>s`
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s=%d", r.Label, r.Size)
	for _, m := range r.Metrics {
		fmt.Fprintf(&sb, " %s=%s", m.Name, m.Value)
	}
	fmt.Fprintf(&sb, " Time=%.6fs", r.Elapsed.Seconds())
	return sb.String()
}
