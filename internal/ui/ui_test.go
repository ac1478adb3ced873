package ui

import (
	"strings"
	"testing"

	"github.com/piwi3910/dh-calculator/internal/kinematics"
	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

func TestParseMatrixEntries_Full(t *testing.T) {
	m, err := parseMatrixEntries(2, 2, "1 t1\n0 2")
	if err != nil {
		t.Fatalf("parseMatrixEntries returned error: %v", err)
	}
	if m.Rows() != 2 || m.Cols() != 2 {
		t.Fatalf("expected 2x2, got %dx%d", m.Rows(), m.Cols())
	}
	if got := m.Get(0, 1).String(); got != "theta1" {
		t.Errorf("shorthand entry: got %q, want %q", got, "theta1")
	}
	if got := m.Get(1, 1).String(); got != "2" {
		t.Errorf("numeric entry: got %q, want %q", got, "2")
	}
}

func TestParseMatrixEntries_MissingEntriesAreZero(t *testing.T) {
	m, err := parseMatrixEntries(2, 3, "1")
	if err != nil {
		t.Fatalf("parseMatrixEntries returned error: %v", err)
	}
	if got := m.Get(0, 2).String(); got != "0" {
		t.Errorf("missing entry: got %q, want %q", got, "0")
	}
	if got := m.Get(1, 0).String(); got != "0" {
		t.Errorf("missing row: got %q, want %q", got, "0")
	}
}

func TestParseMatrixEntries_TooManyRows(t *testing.T) {
	if _, err := parseMatrixEntries(1, 1, "1\n2"); err == nil {
		t.Fatal("expected error for too many rows, got nil")
	}
}

func TestParseMatrixEntries_BadExpression(t *testing.T) {
	if _, err := parseMatrixEntries(1, 1, "1++"); err == nil {
		t.Fatal("expected error for malformed entry, got nil")
	}
}

func TestFormatIKResult_Solutions(t *testing.T) {
	rows := []kinematics.JointParams{
		{Alpha: "0", A: "0", D: "0", Theta: "t1"},
		{Alpha: "0", A: "1", D: "0", Theta: "0"},
	}
	rot, _ := kinematics.ParseRotation("")
	result, err := kinematics.SolveIK(rows, [3]float64{0, 1, 0}, rot)
	if err != nil {
		t.Fatalf("SolveIK returned error: %v", err)
	}

	text := formatIKResult(result)
	if !strings.Contains(text, "Equations:") {
		t.Errorf("missing equations block in %q", text)
	}
	if !strings.Contains(text, "solution branch") {
		t.Errorf("missing solutions block in %q", text)
	}
	if !strings.Contains(text, "90") {
		t.Errorf("expected the 90 degree branch in %q", text)
	}
}

func TestFormatIKResult_NoUnknowns(t *testing.T) {
	result := &kinematics.IKResult{
		Equations: []symbolic.Equation{symbolic.Eq(symbolic.N(1), symbolic.N(1))},
	}
	text := formatIKResult(result)
	if !strings.Contains(text, "No free joint variables") {
		t.Errorf("expected no-unknowns note in %q", text)
	}
}

func TestFormatIKResult_RotationDefaulted(t *testing.T) {
	result := &kinematics.IKResult{
		Unknowns:   []string{"theta1"},
		Diagnostic: "gave up",
	}
	result.RotationDefaulted = true
	text := formatIKResult(result)
	if !strings.Contains(text, "identity orientation") {
		t.Errorf("expected rotation-default note in %q", text)
	}
	if !strings.Contains(text, "gave up") {
		t.Errorf("expected solver note in %q", text)
	}
}
