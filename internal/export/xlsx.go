package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// EncodeXLSX сериализует строки в книгу XLSX с одним листом.
func EncodeXLSX(sheetName string, rows [][]string) ([]byte, error) {
	const op = "export.EncodeXLSX"

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
