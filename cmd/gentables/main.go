// Package main regenerates internal/codec/grids_data.go: the fixed
// enumeration of all 288 valid 4x4 Sudoku grids the codec's per-key
// tables are derived from. It is a development tool, not something the
// tunnel binary runs; the generated file is committed.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

const header = `// Code generated by cmd/gentables. DO NOT EDIT.
//
// This file holds the 288 valid 4x4 Sudoku grids the codec tables in
// tables.go are built from. Regenerate with:
//
//	go run ./cmd/gentables -out internal/codec/grids_data.go
package codec

// grids is the fixed, canonical enumeration of all 288 distinct valid
// 4x4 Sudoku grids (rows, columns, and each 2x2 box hold 1..4 exactly
// once), flattened row-major. Both tunnel peers must ship the exact
// same enumeration and order: the codec tables derived from it are
// keyed off grid index, not grid content, so two builds with different
// orderings would silently disagree on every byte.
var grids = [288][16]uint8{
`

func main() {
	out := flag.String("out", "internal/codec/grids_data.go", "output path")
	flag.Parse()

	grids := enumerateGrids()
	if len(grids) != 288 {
		fmt.Fprintf(os.Stderr, "gentables: expected 288 grids, got %d\n", len(grids))
		os.Exit(1)
	}

	var b strings.Builder
	b.WriteString(header)
	for _, g := range grids {
		b.WriteByte('\t')
		b.WriteByte('{')
		for i, v := range g {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d", v)
		}
		b.WriteString("},\n")
	}
	b.WriteString("}\n")

	if err := os.WriteFile(*out, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "gentables: %v\n", err)
		os.Exit(1)
	}
}

// enumerateGrids backtracks over all 4x4 Latin squares additionally
// constrained to the four 2x2 boxes, in row-major cell order. The
// search order fixes the enumeration order deterministically.
func enumerateGrids() [][16]uint8 {
	var out [][16]uint8
	var grid [16]uint8

	var place func(pos int)
	place = func(pos int) {
		if pos == 16 {
			out = append(out, grid)
			return
		}
		for v := uint8(1); v <= 4; v++ {
			if validAt(&grid, pos, v) {
				grid[pos] = v
				place(pos + 1)
				grid[pos] = 0
			}
		}
	}
	place(0)
	return out
}

func validAt(grid *[16]uint8, pos int, v uint8) bool {
	row, col := pos/4, pos%4
	for i := 0; i < 4; i++ {
		if grid[row*4+i] == v {
			return false
		}
		if grid[i*4+col] == v {
			return false
		}
	}
	boxRow, boxCol := (row/2)*2, (col/2)*2
	for dr := 0; dr < 2; dr++ {
		for dc := 0; dc < 2; dc++ {
			if grid[(boxRow+dr)*4+(boxCol+dc)] == v {
				return false
			}
		}
	}
	return true
}
