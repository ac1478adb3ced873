package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/dh-calculator/internal/export"
	"github.com/piwi3910/dh-calculator/internal/importer"
	"github.com/piwi3910/dh-calculator/internal/kinematics"
)

// App holds all application state and UI references.
type App struct {
	window   fyne.Window
	settings Settings
	tabs     *container.AppTabs

	// Two independent matrix stores: the joint chain (T01, T12, ...)
	// driven by the Interactive tab, and the free store (M0, M1, ...)
	// driven by the Matrix Calculator tab.
	joints *kinematics.Registry
	free   *kinematics.Registry

	// UI references for dynamic updates
	jointsContainer *fyne.Container
	interactiveOut  *widget.Label

	tableContainer *fyne.Container
	tableRows      []*paramRow
	tableOut       *widget.Label

	ikContainer *fyne.Container
	ikRows      []*paramRow
	ikOut       *widget.Label

	freeContainer *fyne.Container
	calcOut       *widget.Label
}

func NewApp(window fyne.Window, settings Settings) *App {
	return &App{
		window:   window,
		settings: settings,
		joints:   kinematics.NewRegistry(kinematics.ChainNaming),
		free:     kinematics.NewRegistry(kinematics.FreeNaming),
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	// File Menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Session", func() {
			a.joints.Reset()
			a.free.Reset()
			a.setTableRows(a.settings.ExampleRows)
			a.refreshJointList()
			a.refreshFreeList()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import DH Table from CSV...", func() {
			a.importCSV()
		}),
		fyne.NewMenuItem("Import DH Table from Excel...", func() {
			a.importExcel()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Worksheet PDF...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItem("Export Linkage DXF...", func() {
			a.exportDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About DH Calculator",
		"DH Calculator — Symbolic Robot Kinematics\n\n"+
			"A cross-platform desktop application for building\n"+
			"Denavit-Hartenberg transforms, forward kinematics and\n"+
			"symbolic inverse-kinematics solutions with exact algebra.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	interactiveTab := container.NewTabItem("Interactive", a.buildInteractivePanel())
	tableTab := container.NewTabItem("DH Table", a.buildTablePanel())
	ikTab := container.NewTabItem("Inverse Kinematics", a.buildIKPanel())
	calcTab := container.NewTabItem("Matrix Calculator", a.buildCalcPanel())

	a.tabs = container.NewAppTabs(interactiveTab, tableTab, ikTab, calcTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	return a.tabs
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importCSV() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importer.ImportCSV(reader.URI().Path())
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) importExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importer.ImportExcel(reader.URI().Path())
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}
	if len(result.Warnings) > 0 {
		fmt.Printf("Import warnings: %v\n", result.Warnings)
	}

	if len(result.Rows) > 0 {
		a.setTableRows(result.Rows)
		a.tabs.SelectIndex(1) // Switch to DH Table tab

		msg := fmt.Sprintf("Successfully imported %d DH rows.", len(result.Rows))
		if len(result.Errors) > 0 {
			msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}
}

// ─── Export Functions ───────────────────────────────────────

func (a *App) buildWorksheet() (*export.Worksheet, error) {
	rows := a.collectTableRows()
	if len(rows) == 0 {
		return nil, fmt.Errorf("the DH table is empty; add at least one row first")
	}
	return export.BuildWorksheet("DH Kinematics Worksheet", rows)
}

func (a *App) exportPDF() {
	ws, err := a.buildWorksheet()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := export.ExportPDF(writer.URI().Path(), ws); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Worksheet saved to %s", writer.URI().Path()), a.window)
		}
	}, a.window)
	d.SetFileName("dh-worksheet.pdf")
	d.Show()
}

func (a *App) exportDXF() {
	ws, err := a.buildWorksheet()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if ws.Origins == nil {
		dialog.ShowInformation("Symbolic chain",
			"The linkage sketch needs a fully numeric DH table.\nReplace the symbolic parameters with numbers first.", a.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := export.ExportDXF(writer.URI().Path(), ws.Origins); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Linkage sketch saved to %s", writer.URI().Path()), a.window)
		}
	}, a.window)
	d.SetFileName("linkage.dxf")
	d.Show()
}
