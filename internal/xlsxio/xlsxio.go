// Package xlsxio moves datasets in and out of xlsx workbooks. The first row
// of every sheet is the title row; cells load as strings, with empty cells
// represented as nil.
package xlsxio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vk/sheetshift/internal/dataset"
)

// Read parses a workbook into a dataset. Each sheet's first row names the
// columns; untitled trailing cells in the title row are ignored.
func Read(r io.Reader) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f)
}

// ReadFile is Read over a file on disk.
func ReadFile(path string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) (*dataset.Dataset, error) {
	ds := dataset.New()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		sheet, err := ds.AddSheet(name)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		titles := rows[0]
		for i, title := range titles {
			if title == "" {
				continue
			}
			col := &dataset.Column{Title: title, Data: make([]any, len(rows)-1)}
			for j, row := range rows[1:] {
				if i < len(row) && row[i] != "" {
					col.Data[j] = row[i]
				}
			}
			if err := sheet.AppendColumn(col); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", name, err)
			}
		}
	}
	return ds, nil
}

// Write renders the dataset as a workbook. When any column of a sheet
// carries a comment, a comment row is inserted between the title row and
// the data.
func Write(w io.Writer, ds *dataset.Dataset) error {
	f, err := render(ds)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile is Write to a file on disk.
func WriteFile(path string, ds *dataset.Dataset) error {
	f, err := render(ds)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	return nil
}

func render(ds *dataset.Dataset) (*excelize.File, error) {
	f := excelize.NewFile()
	for si, sheet := range ds.Sheets() {
		if si == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, err
		}
		if err := renderSheet(f, sheet); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}
	return f, nil
}

func renderSheet(f *excelize.File, sheet *dataset.Sheet) error {
	hasComments := false
	for _, col := range sheet.Columns() {
		if col.Comment != "" {
			hasComments = true
			break
		}
	}
	dataRow := 2
	if hasComments {
		dataRow = 3
	}

	for ci, col := range sheet.Columns() {
		addr, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, addr, col.Title); err != nil {
			return err
		}
		if hasComments {
			addr, err = excelize.CoordinatesToCellName(ci+1, 2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, addr, col.Comment); err != nil {
				return err
			}
		}
		for ri, cell := range col.Data {
			if cell == nil {
				continue
			}
			addr, err = excelize.CoordinatesToCellName(ci+1, dataRow+ri)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, addr, cell); err != nil {
				return err
			}
		}
	}
	return nil
}
