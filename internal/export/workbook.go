// Package export serializes registrations into an xlsx workbook for the
// admin download. Output is a pure function of the input sequence: same
// records in, same sheet content out (container metadata aside).
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/novinsoft/signup-system/internal/core/domain"
)

// Column labels and sheet name in the deployment's display language.
const (
	SheetName   = "ثبت‌نام‌ها"
	headerFirst = "نام"
	headerLast  = "نام‌خانوادگی"
	headerPhone = "موبایل"
)

// Workbook renders records into a single-sheet workbook: one header row,
// then one row per record in the given order. The input is neither sorted
// nor filtered here; ordering is the store's contract. An empty input yields
// a header-only workbook.
//
// Phone numbers are written as string cells so leading zeros and "+"
// prefixes survive a round-trip through spreadsheet software.
func Workbook(records []domain.Registration) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: create sheet: %v", domain.ErrSerialization, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("%w: drop default sheet: %v", domain.ErrSerialization, err)
	}

	header := []interface{}{headerFirst, headerLast, headerPhone}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("%w: write header: %v", domain.ErrSerialization, err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrSerialization, i, err)
		}
		row := []interface{}{r.FirstName, r.LastName, r.Phone}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrSerialization, i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: encode workbook: %v", domain.ErrSerialization, err)
	}
	return buf.Bytes(), nil
}
