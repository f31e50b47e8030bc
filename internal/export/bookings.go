package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"sharehub/internal/models"
)

const sheetName = "Bookings"

// BookingsWorkbook builds an xlsx report with one row per booking.
// The caller owns the returned file and must Close it.
func BookingsWorkbook(bookings []models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.ItemName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), b.BookerName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), b.Start.String())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), b.End.String())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), string(b.Status))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 22)
	_ = f.SetColWidth(sheetName, "F", "F", 12)

	_ = f.DeleteSheet("Sheet1")
	return f, nil
}
