// Package export renders reported trajectories as standalone SVG
// documents, for inspection outside the terminal.
package export

import (
	"fmt"
	"os"
	"strings"
)

// TrajectorySVG draws the polyline through (xs[i], ys[i]) scaled to
// fit the given pixel size, with the y axis pointing up. Fewer than
// two points yield an empty document body.
func TrajectorySVG(xs, ys []float64, width, height int, stroke string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(xs) >= 2 && len(xs) == len(ys) {
		minX, maxX := bounds(xs)
		minY, maxY := bounds(ys)
		spanX := maxX - minX
		spanY := maxY - minY
		if spanX == 0 {
			spanX = 1
		}
		if spanY == 0 {
			spanY = 1
		}

		const margin = 10.0
		w := float64(width) - 2*margin
		h := float64(height) - 2*margin

		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, stroke))
		for i := range xs {
			px := margin + (xs[i]-minX)/spanX*w
			py := margin + (maxY-ys[i])/spanY*h
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.2f,%.2f", px, py))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteTrajectorySVG renders the polyline to a file.
func WriteTrajectorySVG(path string, xs, ys []float64, width, height int, stroke string) error {
	doc := TrajectorySVG(xs, ys, width, height, stroke)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func bounds(v []float64) (min, max float64) {
	min, max = v[0], v[0]
	for _, x := range v[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max
}
