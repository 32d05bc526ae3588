// Package viz renders trajectories and run summaries for the CLI.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// PlotSeries renders one component of a trajectory as an ASCII graph.
func PlotSeries(states [][]float64, idx int, caption string) string {
	data := make([]float64, len(states))
	for i := range states {
		if idx < len(states[i]) {
			data[i] = states[i][idx]
		}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// PlotAll renders every state component up to a sanity cap.
func PlotAll(states [][]float64, labels []string) string {
	if len(states) == 0 {
		return "no data to plot"
	}
	n := len(states[0])
	if n > 6 {
		n = 6
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		caption := fmt.Sprintf("y%d vs time", i)
		if i < len(labels) && labels[i] != "" {
			caption = labels[i]
		}
		b.WriteString(PlotSeries(states, i, caption))
		b.WriteString("\n\n")
	}
	return b.String()
}
