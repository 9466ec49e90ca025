// Package export renders packing results to shareable file formats: a PDF
// layout report, QR-coded retrieval labels, and a JSON dump.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StowPack/internal/model"
)

// boxColor represents an RGB color for a packed box.
type boxColor struct {
	R, G, B int
}

var boxColors = []boxColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 16.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF report for a packing run: a floor-plan page with
// the committed layout and every travel path, followed by a summary page.
func ExportPDF(path string, result model.PackingResult, cfg model.WarehouseConfig) error {
	if len(result.Boxes) == 0 {
		return fmt.Errorf("no boxes to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, result, cfg)

	pdf.AddPage()
	renderSummaryPage(pdf, result, cfg)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the storage arena with boxes, clearance zones, and
// travel paths on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.PackingResult, cfg model.WarehouseConfig) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Warehouse Layout (%d x %d units)", cfg.StorageWidth, cfg.StorageLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Boxes: %d placed / %d total | Density: %.1f%% | Fallback paths: %d",
		result.PackedCount(), len(result.Boxes), model.Density(result.Boxes, cfg), result.FallbackCount())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/float64(cfg.StorageWidth), drawHeight/float64(cfg.StorageLength))
	canvasW := float64(cfg.StorageWidth) * scale
	canvasH := float64(cfg.StorageLength) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Arena background
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Clearance zones first so boxes draw on top of them.
	if cfg.Clearance > 0 {
		pdf.SetFillColor(255, 228, 225)
		pdf.SetDrawColor(220, 160, 160)
		pdf.SetLineWidth(0.1)
		for _, b := range result.Boxes {
			if !b.Packed {
				continue
			}
			z := b.Bounds().Inflate(cfg.Clearance)
			pdf.Rect(offsetX+float64(z.X)*scale, offsetY+float64(z.Y)*scale,
				float64(z.Width)*scale, float64(z.Height)*scale, "FD")
		}
	}

	for i, b := range result.Boxes {
		if !b.Packed {
			continue
		}
		col := boxColors[i%len(boxColors)]
		bx := offsetX + float64(b.X)*scale
		by := offsetY + float64(b.Y)*scale
		bw := float64(b.Width) * scale
		bh := float64(b.Height) * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(bx, by, bw, bh, "FD")

		if bw > 8 && bh > 5 {
			pdf.SetFont("Helvetica", "B", labelFontSize(bw, bh))
			pdf.SetTextColor(0, 0, 0)
			label := fmt.Sprintf("#%d", b.ID)
			labelW := pdf.GetStringWidth(label)
			pdf.SetXY(bx+(bw-labelW)/2, by+bh/2-2)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
		}
	}

	// Packing paths (solid blue, dashed red for fallbacks) and retrieval
	// paths (solid green), drawn from box centers.
	for _, b := range result.Boxes {
		if !b.Packed {
			continue
		}
		halfW := float64(b.Width) * scale / 2
		halfH := float64(b.Height) * scale / 2

		if path, ok := result.PackingPaths[b.ID]; ok && len(path.Points) > 1 {
			if path.Kind == model.PathFallback {
				pdf.SetDrawColor(220, 40, 40)
				pdf.SetDashPattern([]float64{1.5, 1.5}, 0)
			} else {
				pdf.SetDrawColor(40, 80, 220)
				pdf.SetDashPattern([]float64{}, 0)
			}
			pdf.SetLineWidth(0.4)
			drawPolyline(pdf, path.Points, scale, offsetX+halfW, offsetY+halfH)
		}

		if points, ok := result.RetrievalPaths[b.ID]; ok && len(points) > 1 {
			pdf.SetDrawColor(40, 160, 60)
			pdf.SetDashPattern([]float64{}, 0)
			pdf.SetLineWidth(0.4)
			drawPolyline(pdf, points, scale, offsetX+halfW, offsetY+halfH)
		}
	}
	pdf.SetDashPattern([]float64{}, 0)

	drawDimensionAnnotations(pdf, cfg, scale, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, offsetY+canvasH+5)
}

// drawPolyline draws connected segments through the waypoints, offset so the
// line tracks the box center rather than its corner.
func drawPolyline(pdf *fpdf.Fpdf, points []model.Position, scale, offsetX, offsetY float64) {
	for i := 0; i < len(points)-1; i++ {
		pdf.Line(
			offsetX+float64(points[i].X)*scale, offsetY+float64(points[i].Y)*scale,
			offsetX+float64(points[i+1].X)*scale, offsetY+float64(points[i+1].Y)*scale,
		)
	}
}

// drawDimensionAnnotations adds width and length labels outside the arena.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, cfg model.WarehouseConfig, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d units", cfg.StorageWidth)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%d units", cfg.StorageLength)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX-3-lLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders the path color legend below the arena.
func drawLegend(pdf *fpdf.Fpdf, startY float64) {
	entries := []struct {
		label   string
		r, g, b int
	}{
		{"Packing path", 40, 80, 220},
		{"Fallback path (unchecked)", 220, 40, 40},
		{"Retrieval path", 40, 160, 60},
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)
	xPos := marginLeft
	for _, e := range entries {
		pdf.SetDrawColor(e.r, e.g, e.b)
		pdf.SetLineWidth(0.6)
		pdf.Line(xPos, startY+2, xPos+8, startY+2)
		pdf.SetXY(xPos+10, startY)
		labelW := pdf.GetStringWidth(e.label)
		pdf.CellFormat(labelW, 4, e.label, "", 0, "L", false, 0, "")
		xPos += labelW + 20
	}
}

// renderSummaryPage draws run statistics, the retrieval schedule, and any
// warnings.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackingResult, cfg model.WarehouseConfig) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Run Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Run ID", result.RunID},
		{"Boxes Placed", fmt.Sprintf("%d of %d", result.PackedCount(), len(result.Boxes))},
		{"Storage Density", fmt.Sprintf("%.1f%%", model.Density(result.Boxes, cfg))},
		{"Fallback Paths", fmt.Sprintf("%d", result.FallbackCount())},
		{"Clearance", fmt.Sprintf("%d units", cfg.Clearance)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(45, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(100, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Retrieval schedule table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Retrieval Schedule", "", 0, "L", false, 0, "")
	y += 9

	byID := make(map[int]model.Box, len(result.Boxes))
	for _, b := range result.Boxes {
		byID[b.ID] = b
	}

	colWidths := []float64{20, 20, 40, 35, 30, 45}
	headers := []string{"Order", "Box", "Size", "Slot", "Rotated", "Retrieval Waypoints"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for rank, id := range result.RetrievalOrder {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		b := byID[id]

		slot := "unplaced"
		rotated := "-"
		waypoints := "-"
		if b.Packed {
			slot = fmt.Sprintf("(%d, %d)", b.X, b.Y)
			rotated = "no"
			if b.Rotated {
				rotated = "yes"
			}
			if points, ok := result.RetrievalPaths[id]; ok {
				waypoints = fmt.Sprintf("%d", len(points))
			} else {
				waypoints = "none"
			}
		}
		rowData := []string{
			fmt.Sprintf("%d", rank+1),
			fmt.Sprintf("#%d", id),
			fmt.Sprintf("%d x %d", b.Width, b.Height),
			slot,
			rotated,
			waypoints,
		}

		if rank%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(result.Warnings) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNINGS", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, w := range result.Warnings {
			if y > pageHeight-marginBottom-5 {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, "- "+w, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StowPack - Warehouse Packing Planner", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
