package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/dh-calculator/internal/kinematics"
	"github.com/piwi3910/dh-calculator/internal/render"
	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

// ─── Matrix Calculator Panel ───────────────────────────────

func (a *App) buildCalcPanel() fyne.CanvasObject {
	a.freeContainer = container.NewVBox()
	a.calcOut = newMonoOutput("Add matrices (M0, M1, ...), then evaluate an expression like M0*M1^T.")
	a.refreshFreeList()

	addBtn := widget.NewButtonWithIcon("Add Matrix", theme.ContentAddIcon(), func() {
		a.showAddMatrixDialog()
	})

	exprEntry := widget.NewEntry()
	exprEntry.SetPlaceHolder("M0*M1^-1 ...")
	evalBtn := widget.NewButton("Evaluate", func() {
		a.runCalcExpression(exprEntry.Text)
	})
	exprEntry.OnSubmitted = func(text string) { a.runCalcExpression(text) }

	top := container.NewHBox(
		widget.NewLabelWithStyle("Matrices", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		addBtn,
	)
	exprBar := container.NewBorder(nil, nil, nil, evalBtn, exprEntry)

	split := container.NewVSplit(
		container.NewVScroll(a.freeContainer),
		container.NewBorder(exprBar, nil, nil, nil, container.NewVScroll(a.calcOut)),
	)
	split.SetOffset(0.35)

	return container.NewBorder(top, nil, nil, nil, split)
}

func (a *App) refreshFreeList() {
	a.freeContainer.RemoveAll()

	if a.free.Len() == 0 {
		a.freeContainer.Add(widget.NewLabel("No matrices yet. Click 'Add Matrix' to begin."))
		a.freeContainer.Refresh()
		return
	}

	for i := 0; i < a.free.Len(); i++ {
		// Keyed by entry ID, same as the joint list: indices shift on
		// delete while stale row buttons are still on screen.
		id, _ := a.free.ID(i)
		name, _ := a.free.Name(i)
		m, _ := a.free.Get(i)
		dims := ""
		if m != nil {
			dims = fmt.Sprintf("%dx%d", m.Rows(), m.Cols())
		}
		row := container.NewHBox(
			widget.NewLabelWithStyle(name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabel(dims),
			layout.NewSpacer(),
			newIconButtonWithTooltip(theme.VisibilityIcon(), "Show this matrix", func() {
				if idx := a.free.IndexOf(id); idx >= 0 {
					a.showFreeMatrix(idx)
				}
			}),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Delete this matrix", func() {
				idx := a.free.IndexOf(id)
				if idx < 0 {
					return
				}
				if err := a.free.Delete(idx); err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				a.refreshFreeList()
			}),
		)
		a.freeContainer.Add(row)
	}
	a.freeContainer.Refresh()
}

func (a *App) showFreeMatrix(idx int) {
	m, err := a.free.Get(idx)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	name, _ := a.free.Name(idx)
	a.calcOut.SetText(fmt.Sprintf("%s =\n%s", name, render.DisplayMatrix(m)))
}

func (a *App) showAddMatrixDialog() {
	rowsEntry := widget.NewEntry()
	rowsEntry.SetText("4")
	colsEntry := widget.NewEntry()
	colsEntry.SetText("4")

	entriesEntry := widget.NewMultiLineEntry()
	entriesEntry.SetPlaceHolder("One row per line, entries separated by spaces:\n1 0 t1\n0 1 0\n0 0 1")
	entriesEntry.SetMinRowsVisible(6)

	form := dialog.NewForm("Add Matrix", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Rows", rowsEntry),
			widget.NewFormItem("Columns", colsEntry),
			widget.NewFormItem("Entries", entriesEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			nr, err1 := strconv.Atoi(strings.TrimSpace(rowsEntry.Text))
			nc, err2 := strconv.Atoi(strings.TrimSpace(colsEntry.Text))
			if err1 != nil || err2 != nil || nr <= 0 || nc <= 0 {
				dialog.ShowError(fmt.Errorf("rows and columns must be positive integers"), a.window)
				return
			}
			m, err := parseMatrixEntries(nr, nc, entriesEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.free.AddMatrix(m)
			a.refreshFreeList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 400))
	form.Show()
}

// parseMatrixEntries reads a whitespace grid of expressions into an
// nr x nc matrix. Missing entries default to zero.
func parseMatrixEntries(nr, nc int, text string) (*symbolic.Matrix, error) {
	m := symbolic.NewMatrix(nr, nc)
	env := symbolic.NewEnv()

	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		if i >= nr {
			return nil, fmt.Errorf("too many rows: expected %d", nr)
		}
		fields := strings.Fields(line)
		if len(fields) > nc {
			return nil, fmt.Errorf("row %d has %d entries, expected at most %d", i+1, len(fields), nc)
		}
		for j, field := range fields {
			e, err := symbolic.Parse(field, env)
			if err != nil {
				return nil, err
			}
			m.Set(i, j, e)
		}
	}
	return m, nil
}

func (a *App) runCalcExpression(input string) {
	result, err := kinematics.Evaluate(input, kinematics.RegistryLookup(a.free))
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.calcOut.SetText(fmt.Sprintf("%s =\n%s", strings.TrimSpace(input), render.DisplayMatrix(result)))
}
