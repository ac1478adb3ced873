package ui

import (
	"github.com/piwi3910/dh-calculator/internal/importer"
	"github.com/piwi3910/dh-calculator/internal/kinematics"
)

// Settings holds session defaults for the UI.
type Settings struct {
	WindowWidth  float32
	WindowHeight float32

	// ExampleRows seed the DH table tab so a new session has something
	// to calculate.
	ExampleRows []importer.Row
}

// DefaultSettings returns the defaults for a new session: a two-joint
// planar arm with symbolic joint angles.
func DefaultSettings() Settings {
	return Settings{
		WindowWidth:  1100,
		WindowHeight: 750,
		ExampleRows: []importer.Row{
			{Link: "1", Params: kinematics.JointParams{Alpha: "0", A: "0", D: "0", Theta: "t1"}},
			{Link: "2", Params: kinematics.JointParams{Alpha: "0", A: "1", D: "0", Theta: "t2"}},
		},
	}
}
