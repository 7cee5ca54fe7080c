package measure

import (
	"sort"
	"time"
)

// StepLoad is the time one step took across every run recorded by a measure.
type StepLoad struct {
	Name    string
	Average time.Duration
	Count   int64
	Total   time.Duration
	// Share is the fraction of the summed step time spent in this step.
	Share float64
}

// Bottlenecks returns the measured steps, the one taking the most time first.
// Steps that never produced an output are left out.
func Bottlenecks(msr Measure) []StepLoad {
	loads := []StepLoad{}
	var sum time.Duration
	for name, metric := range msr.AllMetrics() {
		count := metric.Count()
		if count == 0 {
			continue
		}
		avg := metric.AVGDuration()
		load := StepLoad{
			Name:    name,
			Average: avg,
			Count:   count,
			Total:   avg * time.Duration(count),
		}
		sum += load.Total
		loads = append(loads, load)
	}

	for i := range loads {
		if sum > 0 {
			loads[i].Share = float64(loads[i].Total) / float64(sum)
		}
	}

	sort.Slice(loads, func(i, j int) bool {
		if loads[i].Total != loads[j].Total {
			return loads[i].Total > loads[j].Total
		}

		return loads[i].Name < loads[j].Name
	})

	return loads
}
