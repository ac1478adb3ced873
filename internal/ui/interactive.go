package ui

import (
	"errors"
	"fmt"
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

// ─── Interactive Panel ─────────────────────────────────────

func (a *App) buildInteractivePanel() fyne.CanvasObject {
	a.jointsContainer = container.NewVBox()
	a.interactiveOut = newMonoOutput("Add joints, then evaluate an expression like T01*T12 or press Forward Kinematics.")
	a.refreshJointList()

	addBtn := widget.NewButtonWithIcon("Add Joint", theme.ContentAddIcon(), func() {
		a.showJointDialog(-1)
	})

	exprEntry := widget.NewEntry()
	exprEntry.SetPlaceHolder("T01*T12^-1 ...")
	evalBtn := widget.NewButton("Evaluate", func() {
		a.runChainExpression(exprEntry.Text)
	})
	exprEntry.OnSubmitted = func(text string) { a.runChainExpression(text) }

	fkBtn := widget.NewButton("Forward Kinematics", func() { a.runForward() })

	top := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Joint Transforms", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		addBtn,
	)
	exprBar := container.NewBorder(nil, nil, nil,
		container.NewHBox(evalBtn, fkBtn),
		exprEntry,
	)

	split := container.NewVSplit(
		container.NewVScroll(a.jointsContainer),
		container.NewBorder(exprBar, nil, nil, nil, container.NewVScroll(a.interactiveOut)),
	)
	split.SetOffset(0.35)

	return container.NewBorder(top, nil, nil, nil, split)
}

func (a *App) refreshJointList() {
	a.jointsContainer.RemoveAll()

	if a.joints.Len() == 0 {
		a.jointsContainer.Add(widget.NewLabel("No joints yet. Click 'Add Joint' to begin."))
		a.jointsContainer.Refresh()
		return
	}

	for i := 0; i < a.joints.Len(); i++ {
		// Rows are keyed by entry ID, not position: a delete shifts the
		// indices of everything after it while the old buttons are still
		// on screen.
		id, _ := a.joints.ID(i)
		name, _ := a.joints.Name(i)
		params, _ := a.joints.Params(i)
		summary := ""
		if params != nil {
			summary = fmt.Sprintf("α=%s  a=%s  d=%s  θ=%s", params.Alpha, params.A, params.D, params.Theta)
		}
		row := container.NewHBox(
			widget.NewLabelWithStyle(name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabel(summary),
			layout.NewSpacer(),
			newIconButtonWithTooltip(theme.VisibilityIcon(), "Show this matrix", func() {
				if idx := a.joints.IndexOf(id); idx >= 0 {
					a.showJoint(idx)
				}
			}),
			newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit joint parameters", func() {
				if idx := a.joints.IndexOf(id); idx >= 0 {
					a.showJointDialog(idx)
				}
			}),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Delete this joint", func() {
				idx := a.joints.IndexOf(id)
				if idx < 0 {
					return
				}
				if err := a.joints.Delete(idx); err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				a.refreshJointList()
			}),
		)
		a.jointsContainer.Add(row)
	}
	a.jointsContainer.Refresh()
}

// showJointDialog adds a new joint when idx is negative, otherwise it
// edits the joint at idx.
func (a *App) showJointDialog(idx int) {
	params := kinematics.JointParams{Alpha: "0", A: "0", D: "0", Theta: "0"}
	title, confirm := "Add Joint", "Add"
	if idx >= 0 {
		if p, err := a.joints.Params(idx); err == nil && p != nil {
			params = *p
		}
		title, confirm = "Edit Joint", "Save"
	}

	alphaEntry := widget.NewEntry()
	alphaEntry.SetText(params.Alpha)
	aEntry := widget.NewEntry()
	aEntry.SetText(params.A)
	dEntry := widget.NewEntry()
	dEntry.SetText(params.D)
	thetaEntry := widget.NewEntry()
	thetaEntry.SetText(params.Theta)

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("α (deg)", alphaEntry),
			widget.NewFormItem("a", aEntry),
			widget.NewFormItem("d", dEntry),
			widget.NewFormItem("θ (deg)", thetaEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			p := kinematics.JointParams{
				Alpha: alphaEntry.Text,
				A:     aEntry.Text,
				D:     dEntry.Text,
				Theta: thetaEntry.Text,
			}
			m, err := kinematics.BuildFromParams(p, symbolic.NewEnv())
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			target := idx
			if target < 0 {
				target = a.joints.Add()
			}
			if err := a.joints.Set(target, m, &p); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.refreshJointList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

func (a *App) showJoint(idx int) {
	m, err := a.joints.Get(idx)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	name, _ := a.joints.Name(idx)
	a.interactiveOut.SetText(fmt.Sprintf("%s =\n%s", name, render.DisplayMatrix(m)))
}

func (a *App) runChainExpression(input string) {
	result, err := kinematics.Evaluate(input, kinematics.RegistryLookup(a.joints))
	if err != nil {
		var evalErr *kinematics.EvalError
		if errors.As(err, &evalErr) {
			dialog.ShowError(evalErr, a.window)
		} else {
			dialog.ShowError(err, a.window)
		}
		return
	}
	a.interactiveOut.SetText(fmt.Sprintf("%s =\n%s", strings.TrimSpace(input), render.DisplayMatrix(result)))
}

func (a *App) runForward() {
	if a.joints.Len() == 0 {
		dialog.ShowInformation("No joints", "Add at least one joint first.", a.window)
		return
	}
	fk, err := kinematics.ChainForward(a.joints.Matrices())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "T0%d =\n%s\n\n", a.joints.Len(), render.DisplayMatrix(fk))
	fmt.Fprintf(&b, "Position =\n%s\n\n", render.DisplayMatrix(kinematics.Position(fk)))
	fmt.Fprintf(&b, "Rotation =\n%s\n", render.DisplayMatrix(kinematics.Rotation(fk)))
	a.interactiveOut.SetText(b.String())
}
