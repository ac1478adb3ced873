package export

import (
	"fmt"

	"github.com/yofu/dxf"
)

// ExportDXF writes a 2D sketch of the linkage to a DXF file. The
// sketch projects the frame origins onto the XY plane, draws a line
// per link and a small circle at every joint. Origins come from
// Worksheet.Origins, so the chain must be fully numeric.
func ExportDXF(path string, origins [][3]float64) error {
	if len(origins) < 2 {
		return fmt.Errorf("linkage sketch needs a numeric chain with at least one joint")
	}

	d := dxf.NewDrawing()
	d.AddLayer("Links", dxf.DefaultColor, dxf.DefaultLineType, true)
	for i := 0; i < len(origins)-1; i++ {
		p, q := origins[i], origins[i+1]
		d.Line(p[0], p[1], 0, q[0], q[1], 0)
	}

	d.AddLayer("Joints", dxf.DefaultColor, dxf.DefaultLineType, true)
	r := jointMarkerRadius(origins)
	for _, p := range origins {
		d.Circle(p[0], p[1], 0, r)
	}

	return d.SaveAs(path)
}

// jointMarkerRadius scales the joint circles to the sketch so markers
// stay visible on both millimetre and metre sized tables.
func jointMarkerRadius(origins [][3]float64) float64 {
	minX, maxX := origins[0][0], origins[0][0]
	minY, maxY := origins[0][1], origins[0][1]
	for _, p := range origins[1:] {
		if p[0] < minX {
			minX = p[0]
		}
		if p[0] > maxX {
			maxX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
	}
	span := maxX - minX
	if dy := maxY - minY; dy > span {
		span = dy
	}
	if span <= 0 {
		return 1
	}
	return span / 50
}
