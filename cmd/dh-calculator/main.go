// DH Calculator — Symbolic Robot Kinematics
//
// A cross-platform desktop application for building Denavit-Hartenberg
// transforms, forward kinematics and symbolic inverse-kinematics
// solutions with exact algebra.
//
// Build:
//   go build -o dh-calculator ./cmd/dh-calculator
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o dh-calculator.exe ./cmd/dh-calculator
//   GOOS=darwin  GOARCH=amd64 go build -o dh-calculator-darwin ./cmd/dh-calculator
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/dh-calculator/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.dh-calculator")
	application.Settings().SetTheme(ui.NewCalcTheme())

	window := application.NewWindow("DH Calculator — Symbolic Robot Kinematics")

	settings := ui.DefaultSettings()
	appUI := ui.NewApp(window, settings)
	appUI.SetupMenus() // Setup the native menu bar
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(settings.WindowWidth, settings.WindowHeight))
	window.CenterOnScreen()
	window.ShowAndRun()
}
