package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/dh-calculator/internal/importer"
)

// ─── DH Table Panel ────────────────────────────────────────

func (a *App) buildTablePanel() fyne.CanvasObject {
	a.tableContainer = container.NewVBox()
	a.tableOut = newMonoOutput("No results yet. Fill in the table and click Calculate All.")
	a.setTableRows(a.settings.ExampleRows)

	addBtn := widget.NewButtonWithIcon("Add Row", theme.ContentAddIcon(), func() {
		a.tableRows = append(a.tableRows,
			newParamRow(importer.Row{Link: fmt.Sprintf("%d", len(a.tableRows)+1)}))
		a.refreshTableGrid()
	})
	calcBtn := widget.NewButtonWithIcon("Calculate All", theme.MediaPlayIcon(), func() {
		a.calculateAll()
	})

	top := container.NewHBox(
		widget.NewLabelWithStyle("DH Parameter Table", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		addBtn,
		calcBtn,
	)

	split := container.NewVSplit(
		container.NewVScroll(a.tableContainer),
		container.NewVScroll(a.tableOut),
	)
	split.SetOffset(0.35)

	return container.NewBorder(top, nil, nil, nil, split)
}

// setTableRows replaces the editable grid with the given rows.
func (a *App) setTableRows(rows []importer.Row) {
	a.tableRows = nil
	for _, row := range rows {
		a.tableRows = append(a.tableRows, newParamRow(row))
	}
	a.refreshTableGrid()
}

// collectTableRows reads the current grid contents, skipping rows that
// are entirely blank.
func (a *App) collectTableRows() []importer.Row {
	var rows []importer.Row
	for _, r := range a.tableRows {
		row := r.toRow()
		p := row.Params
		if p.Alpha == "" && p.A == "" && p.D == "" && p.Theta == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func (a *App) refreshTableGrid() {
	a.tableContainer.RemoveAll()

	if len(a.tableRows) == 0 {
		a.tableContainer.Add(widget.NewLabel("No rows yet. Click 'Add Row' or import a table."))
		a.tableContainer.Refresh()
		return
	}

	a.tableContainer.Add(container.NewGridWithColumns(6, paramHeader()...))
	a.tableContainer.Add(widget.NewSeparator())

	for i := range a.tableRows {
		idx := i // capture
		r := a.tableRows[idx]
		del := newIconButtonWithTooltip(theme.DeleteIcon(), "Delete this row", func() {
			a.tableRows = append(a.tableRows[:idx], a.tableRows[idx+1:]...)
			a.refreshTableGrid()
		})
		a.tableContainer.Add(container.NewGridWithColumns(6,
			r.link, r.alpha, r.a, r.d, r.theta, del))
	}
	a.tableContainer.Refresh()
}

// calculateAll runs the full worksheet over the current table and
// renders every block into the output pane.
func (a *App) calculateAll() {
	ws, err := a.buildWorksheet()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	var b strings.Builder
	for i, name := range ws.JointNames {
		fmt.Fprintf(&b, "%s =\n%s\n\n", name, ws.JointDisplays[i])
	}
	fmt.Fprintf(&b, "T0%d (forward kinematics) =\n%s\n\n", len(ws.JointNames), ws.ForwardDisplay)
	fmt.Fprintf(&b, "Position =\n%s\n\n", ws.PositionDisplay)
	fmt.Fprintf(&b, "Rotation =\n%s\n", ws.RotationDisplay)

	a.tableOut.SetText(b.String())
}
