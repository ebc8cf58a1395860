// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package termio

import (
	"fmt"
	"io"
	"strings"
)

// TablePrinter is useful for printing tables to the terminal.  Rows are added
// one at a time, and columns grow to fit their widest cell unless a maximum
// width is set.
type TablePrinter struct {
	widths        []uint
	maxWidths     []uint
	rows          [][]string
	escapes       [][]string
	enableEscapes bool
}

// NewTablePrinter constructs a new table with a given number of columns.
func NewTablePrinter(width uint) *TablePrinter {
	return &TablePrinter{
		widths:        make([]uint, width),
		maxWidths:     make([]uint, width),
		enableEscapes: true,
	}
}

// AddRow appends a row to this table, returning its index.
func (p *TablePrinter) AddRow(vals ...string) uint {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i, val := range vals {
		p.widths[i] = max(p.widths[i], uint(len(val)))
	}
	//
	p.rows = append(p.rows, vals)
	p.escapes = append(p.escapes, make([]string, len(vals)))
	//
	return uint(len(p.rows) - 1)
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Height returns the height of this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetEscape set the colour to use when printing the contents of a given cell
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape.Build()
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for showing
// colour).  Disabling escapes is useful in environments that don't support
// escapes as, otherwise, you get a lot of visible escape characters being
// printed.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetMaxWidth puts an upper bound on the width of a column, where zero means
// unbounded.
func (p *TablePrinter) SetMaxWidth(col uint, width uint) {
	p.maxWidths[col] = width
}

// FitWidth bounds the width of the last column such that each row fits within
// a given total width, if possible.
func (p *TablePrinter) FitWidth(total uint) {
	var (
		last = uint(len(p.widths) - 1)
		used uint
	)
	// Account for " | " separators
	for i := uint(0); i < last; i++ {
		used += p.width(i) + 3
	}
	//
	if used+4 < total {
		p.SetMaxWidth(last, total-used-2)
	}
}

// Print the table to a given writer.
func (p *TablePrinter) Print(out io.Writer) error {
	var builder strings.Builder
	//
	for i, row := range p.rows {
		for j, col := range row {
			var (
				width  = p.width(uint(j))
				escape = p.escapes[i][j]
			)
			//
			if j != 0 {
				builder.WriteString(" | ")
			}
			// Print colour (if applicable)
			if p.enableEscapes && escape != "" {
				builder.WriteString(escape)
			}
			// Print data
			if uint(len(col)) > width {
				builder.WriteString(fmt.Sprintf("%-*s..", width-2, col[0:width-2]))
			} else if j == len(row)-1 {
				builder.WriteString(col)
			} else {
				builder.WriteString(fmt.Sprintf("%-*s", width, col))
			}
			// Cancel colour (if applicable)
			if p.enableEscapes && escape != "" {
				builder.WriteString(ResetAnsiEscape().Build())
			}
		}
		//
		builder.WriteString("\n")
	}
	//
	_, err := io.WriteString(out, builder.String())
	//
	return err
}

func (p *TablePrinter) width(col uint) uint {
	if p.maxWidths[col] > 2 {
		return min(p.widths[col], p.maxWidths[col])
	}
	//
	return p.widths[col]
}
