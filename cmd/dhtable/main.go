// dhtable — headless DH table converter.
//
// Reads a DH parameter table from a CSV or Excel file, prints every
// joint transform, the forward-kinematics result and the position and
// rotation blocks. With -target it also solves the inverse kinematics
// for the free joint symbols.
//
// Usage:
//   dhtable table.csv
//   dhtable -target 0,1,0 arm.xlsx
//   dhtable -pdf worksheet.pdf -dxf linkage.dxf table.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/dh-calculator/internal/export"
	"github.com/piwi3910/dh-calculator/internal/importer"
	"github.com/piwi3910/dh-calculator/internal/kinematics"
	"github.com/piwi3910/dh-calculator/internal/render"
)

func main() {
	target := flag.String("target", "", "target position x,y,z: solve inverse kinematics for the free joint symbols")
	rotation := flag.String("rotation", "", "target rotation, 9 comma-separated values row-major (default identity)")
	pdfOut := flag.String("pdf", "", "also write a PDF worksheet to this path")
	dxfOut := flag.String("dxf", "", "also write a DXF linkage sketch to this path (numeric chains only)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dhtable [flags] <table.csv|table.xlsx>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path)
	default:
		result = importer.ImportCSV(path)
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "error:", e)
	}
	if len(result.Rows) == 0 {
		fmt.Fprintln(os.Stderr, "no usable DH rows in", path)
		os.Exit(1)
	}

	ws, err := export.BuildWorksheet(filepath.Base(path), result.Rows)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	for i, name := range ws.JointNames {
		fmt.Printf("%s =\n%s\n\n", name, ws.JointDisplays[i])
	}
	fmt.Printf("T0%d (forward kinematics) =\n%s\n\n", len(ws.JointNames), ws.ForwardDisplay)
	fmt.Printf("Position =\n%s\n\n", ws.PositionDisplay)
	fmt.Printf("Rotation =\n%s\n", ws.RotationDisplay)

	if *target != "" {
		ikLines, err := solveTarget(result.Rows, *target, *rotation)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		ws.IKLines = ikLines
	}

	if *pdfOut != "" {
		if err := export.ExportPDF(*pdfOut, ws); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "wrote", *pdfOut)
	}
	if *dxfOut != "" {
		if err := export.ExportDXF(*dxfOut, ws.Origins); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "wrote", *dxfOut)
	}
}

func solveTarget(rows []importer.Row, targetText, rotText string) ([]string, error) {
	coords := strings.Split(targetText, ",")
	if len(coords) != 3 {
		return nil, fmt.Errorf("-target wants x,y,z, got %q", targetText)
	}
	target, err := kinematics.ParseTarget(coords[0], coords[1], coords[2])
	if err != nil {
		return nil, err
	}
	rot, defaulted := kinematics.ParseRotation(rotText)
	if defaulted {
		fmt.Fprintln(os.Stderr, "warning: malformed -rotation, using identity")
	}

	params := make([]kinematics.JointParams, len(rows))
	for i, row := range rows {
		params[i] = row.Params
	}
	result, err := kinematics.SolveIK(params, target, rot)
	if err != nil {
		return nil, err
	}

	var lines []string
	lines = append(lines, "equations:")
	for _, line := range render.DisplayEquations(result.Equations) {
		lines = append(lines, "  "+line)
	}
	switch {
	case len(result.Unknowns) == 0:
		lines = append(lines, "no free joint variables in the theta column")
	case len(result.Solutions) == 0:
		lines = append(lines, "no solutions found")
	default:
		for i, sol := range result.Solutions {
			lines = append(lines, fmt.Sprintf("solution %s: %s",
				strconv.Itoa(i+1), render.DisplaySolution(sol, result.Unknowns)))
		}
	}

	fmt.Println("\nInverse kinematics:")
	for _, line := range lines {
		fmt.Println(line)
	}
	if result.Diagnostic != "" {
		fmt.Fprintln(os.Stderr, "solver note:", result.Diagnostic)
	}
	return lines, nil
}
