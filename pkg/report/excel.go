package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Attendance Report"

var headers = []string{
	"Full Name", "Date", "Check-In", "Check-Out",
	"Worked Hours (Net)", "Late", "Day Salary", "Per-Minute Salary",
}

// RenderExcel renders an aggregated report as an .xlsx workbook: one row per
// attendance record in store order, then a monthly totals block, one line per
// worker.
func RenderExcel(result Result) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	border := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return nil, fmt.Errorf("failed to create cell style: %w", err)
	}

	lateStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FF0000"},
		Border: border,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create late style: %w", err)
	}

	onTimeStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Color: "008000"},
		Border: border,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create on-time style: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create bold style: %w", err)
	}

	if err := f.SetColWidth(sheetName, "A", "H", 18); err != nil {
		return nil, fmt.Errorf("failed to set column widths: %w", err)
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, row := range result.Rows {
		rowNum := i + 2

		lateText := "No"
		if row.IsLate {
			lateText = "Yes"
		}

		values := []interface{}{
			row.WorkerName,
			row.Date,
			row.CheckIn,
			row.CheckOut,
			row.NetHours,
			lateText,
			fmt.Sprintf("%.0f", row.DaySalary),
			fmt.Sprintf("%.2f", row.PerMinuteRate),
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(sheetName, cell, value)
			style := cellStyle
			if col == 5 {
				if row.IsLate {
					style = lateStyle
				} else {
					style = onTimeStyle
				}
			}
			f.SetCellStyle(sheetName, cell, cell, style)
		}
	}

	// Totals block, separated from the rows by one blank line.
	totalsHeader := len(result.Rows) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsHeader), "MONTHLY SALARY TOTALS:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalsHeader), fmt.Sprintf("A%d", totalsHeader), boldStyle)

	for i, total := range result.Totals {
		rowNum := totalsHeader + 1 + i
		nameCell := fmt.Sprintf("A%d", rowNum)
		totalCell := fmt.Sprintf("G%d", rowNum)
		f.SetCellValue(sheetName, nameCell, total.WorkerName)
		f.SetCellValue(sheetName, totalCell, fmt.Sprintf("Total: %.0f", total.Total))
		f.SetCellStyle(sheetName, nameCell, nameCell, boldStyle)
		f.SetCellStyle(sheetName, totalCell, totalCell, boldStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
