package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/dh-calculator/internal/importer"
	"github.com/piwi3910/dh-calculator/internal/kinematics"
)

// paramRow is one editable DH table row: five entry widgets holding the
// raw parameter text exactly as the user typed it.
type paramRow struct {
	link  *widget.Entry
	alpha *widget.Entry
	a     *widget.Entry
	d     *widget.Entry
	theta *widget.Entry
}

func newParamRow(row importer.Row) *paramRow {
	r := &paramRow{
		link:  widget.NewEntry(),
		alpha: widget.NewEntry(),
		a:     widget.NewEntry(),
		d:     widget.NewEntry(),
		theta: widget.NewEntry(),
	}
	r.link.SetText(row.Link)
	r.alpha.SetText(row.Params.Alpha)
	r.a.SetText(row.Params.A)
	r.d.SetText(row.Params.D)
	r.theta.SetText(row.Params.Theta)
	r.alpha.SetPlaceHolder("alpha (deg)")
	r.a.SetPlaceHolder("a")
	r.d.SetPlaceHolder("d")
	r.theta.SetPlaceHolder("theta (deg)")
	return r
}

func (r *paramRow) toRow() importer.Row {
	return importer.Row{Link: r.link.Text, Params: r.params()}
}

func (r *paramRow) params() kinematics.JointParams {
	return kinematics.JointParams{
		Alpha: r.alpha.Text,
		A:     r.a.Text,
		D:     r.d.Text,
		Theta: r.theta.Text,
	}
}

// paramHeader returns the bold column labels shared by the DH table
// and inverse-kinematics grids. cols must match the row grid width.
func paramHeader() []fyne.CanvasObject {
	return []fyne.CanvasObject{
		widget.NewLabelWithStyle("Link", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("α (deg)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("a", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("d", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("θ (deg)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	}
}

// newMonoOutput returns a monospace label for matrix grids so the
// column alignment from the renderer survives.
func newMonoOutput(placeholder string) *widget.Label {
	l := widget.NewLabel(placeholder)
	l.TextStyle = fyne.TextStyle{Monospace: true}
	return l
}
