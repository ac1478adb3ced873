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
	"github.com/piwi3910/dh-calculator/internal/kinematics"
	"github.com/piwi3910/dh-calculator/internal/render"
)

// ─── Inverse Kinematics Panel ──────────────────────────────

func (a *App) buildIKPanel() fyne.CanvasObject {
	a.ikContainer = container.NewVBox()
	a.ikOut = newMonoOutput("Enter DH rows with free θ symbols (t1, t2, ...), a target position, then Solve.")

	pxEntry := widget.NewEntry()
	pxEntry.SetPlaceHolder("px")
	pyEntry := widget.NewEntry()
	pyEntry.SetPlaceHolder("py")
	pzEntry := widget.NewEntry()
	pzEntry.SetPlaceHolder("pz")

	rotEntry := widget.NewEntry()
	rotEntry.SetPlaceHolder("optional rotation: 9 comma-separated values, row-major")

	addBtn := widget.NewButtonWithIcon("Add Row", theme.ContentAddIcon(), func() {
		a.ikRows = append(a.ikRows,
			newParamRow(importer.Row{Link: fmt.Sprintf("%d", len(a.ikRows)+1)}))
		a.refreshIKGrid()
	})
	solveBtn := widget.NewButtonWithIcon("Solve", theme.MediaPlayIcon(), func() {
		a.runSolve(pxEntry.Text, pyEntry.Text, pzEntry.Text, rotEntry.Text)
	})

	a.ikRows = []*paramRow{
		newParamRow(importer.Row{Link: "1", Params: kinematics.JointParams{Alpha: "0", A: "0", D: "0", Theta: "t1"}}),
		newParamRow(importer.Row{Link: "2", Params: kinematics.JointParams{Alpha: "0", A: "1", D: "0", Theta: "0"}}),
	}
	a.refreshIKGrid()

	top := container.NewHBox(
		widget.NewLabelWithStyle("Inverse Kinematics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		addBtn,
		solveBtn,
	)
	targetBar := container.NewVBox(
		container.NewGridWithColumns(4,
			widget.NewLabel("Target position"), pxEntry, pyEntry, pzEntry),
		rotEntry,
	)

	split := container.NewVSplit(
		container.NewVScroll(a.ikContainer),
		container.NewBorder(targetBar, nil, nil, nil, container.NewVScroll(a.ikOut)),
	)
	split.SetOffset(0.35)

	return container.NewBorder(top, nil, nil, nil, split)
}

func (a *App) refreshIKGrid() {
	a.ikContainer.RemoveAll()

	a.ikContainer.Add(container.NewGridWithColumns(6, paramHeader()...))
	a.ikContainer.Add(widget.NewSeparator())

	for i := range a.ikRows {
		idx := i // capture
		r := a.ikRows[idx]
		del := newIconButtonWithTooltip(theme.DeleteIcon(), "Delete this row", func() {
			a.ikRows = append(a.ikRows[:idx], a.ikRows[idx+1:]...)
			a.refreshIKGrid()
		})
		a.ikContainer.Add(container.NewGridWithColumns(6,
			r.link, r.alpha, r.a, r.d, r.theta, del))
	}
	a.ikContainer.Refresh()
}

func (a *App) runSolve(px, py, pz, rotText string) {
	var rows []kinematics.JointParams
	for _, r := range a.ikRows {
		p := r.params()
		if p.Alpha == "" && p.A == "" && p.D == "" && p.Theta == "" {
			continue
		}
		rows = append(rows, p)
	}
	if len(rows) == 0 {
		dialog.ShowInformation("No rows", "Add at least one DH row first.", a.window)
		return
	}

	target, err := kinematics.ParseTarget(px, py, pz)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	rot, defaulted := kinematics.ParseRotation(rotText)

	result, err := kinematics.SolveIK(rows, target, rot)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	result.RotationDefaulted = defaulted

	a.ikOut.SetText(formatIKResult(result))
}

func formatIKResult(result *kinematics.IKResult) string {
	var b strings.Builder

	if result.RotationDefaulted {
		b.WriteString("Note: rotation input was malformed; using the identity orientation.\n\n")
	}

	b.WriteString("Equations:\n")
	for _, line := range render.DisplayEquations(result.Equations) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	if len(result.Unknowns) == 0 {
		b.WriteString("No free joint variables found in the θ column.\n")
		return b.String()
	}

	if len(result.Solutions) == 0 {
		b.WriteString("No solutions found.\n")
	} else {
		fmt.Fprintf(&b, "%d solution branch(es):\n", len(result.Solutions))
		for i, sol := range result.Solutions {
			fmt.Fprintf(&b, "  [%d] %s\n", i+1, render.DisplaySolution(sol, result.Unknowns))
		}
	}
	if result.Diagnostic != "" {
		fmt.Fprintf(&b, "\nSolver note: %s\n", result.Diagnostic)
	}
	return b.String()
}
