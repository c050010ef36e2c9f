// Package ratesheet loads lender rate sheets from XLSX workbooks and
// validates them before they reach the resolution path.
package ratesheet

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/investor-cli/internal/model"
)

// Options configures the XLSX parser.
type Options struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // header rows to skip; default 1
}

// tierColumns is the expected column order:
// ltv_min, ltv_max, fico_min, fico_max, standard_rate, io_adjustment.
const tierColumns = 6

// ImportXLSX reads rate tiers from a workbook and returns a validated
// sheet. Blank rows are skipped; a malformed cell aborts the import with
// the row number in the error.
func ImportXLSX(path, name string, opts Options) (*model.RateSheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ratesheet: open file")
	}

	sheet, err := pickSheet(f, opts)
	if err != nil {
		return nil, err
	}

	skip := opts.SkipRows
	if skip == 0 {
		skip = 1
	}

	rs := &model.RateSheet{Name: name}
	for i, row := range sheet.Rows {
		if i < skip {
			continue
		}
		cells := rowToStrings(row)
		if blank(cells) {
			continue
		}

		tier, err := parseTier(cells)
		if err != nil {
			return nil, eris.Wrapf(err, "ratesheet: row %d", i+1)
		}
		rs.Rates = append(rs.Rates, tier)
	}

	if err := Validate(rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func pickSheet(f *xlsx.File, opts Options) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("ratesheet: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("ratesheet: sheet index %d out of range (%d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = strings.TrimSpace(c.String())
	}
	return cells
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func parseTier(cells []string) (model.RateTier, error) {
	if len(cells) < tierColumns {
		return model.RateTier{}, eris.Errorf("expected %d columns, got %d", tierColumns, len(cells))
	}

	nums := make([]float64, tierColumns)
	for i := 0; i < tierColumns; i++ {
		v, err := strconv.ParseFloat(cells[i], 64)
		if err != nil {
			return model.RateTier{}, eris.Wrapf(err, "column %d value %q", i+1, cells[i])
		}
		nums[i] = v
	}

	return model.RateTier{
		LTVMin:       nums[0],
		LTVMax:       nums[1],
		FicoMin:      int(nums[2]),
		FicoMax:      int(nums[3]),
		StandardRate: nums[4],
		IOAdjustment: nums[5],
	}, nil
}
