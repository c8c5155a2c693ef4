package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// Reporter writes the bookings report as an xlsx file.
type Reporter struct {
	store  domain.Store
	logger *zerolog.Logger
	dir    string
}

func NewReporter(store domain.Store, logger *zerolog.Logger, dir string) *Reporter {
	return &Reporter{store: store, logger: logger, dir: dir}
}

// WriteBookingsReport renders every booking with its item and booker into
// exports/bookings.xlsx, overwriting the previous report.
func (r *Reporter) WriteBookingsReport(ctx context.Context) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	bookings, err := r.store.ListAllBookings(ctx)
	if err != nil {
		return "", fmt.Errorf("list bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.itemName(ctx, booking.ItemID))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.bookerName(ctx, booking.BookerID))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.Start.Format(time.RFC3339))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.End.Format(time.RFC3339))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), string(booking.Status))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 22)
	_ = f.SetColWidth(sheetName, "F", "F", 12)

	_ = f.DeleteSheet("Sheet1")

	filePath := filepath.Join(r.dir, "bookings.xlsx")
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	r.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("bookings report written")
	return filePath, nil
}

func (r *Reporter) itemName(ctx context.Context, itemID int64) string {
	item, err := r.store.GetItemByID(ctx, itemID)
	if err != nil || item == nil {
		return fmt.Sprintf("item %d", itemID)
	}
	return item.Name
}

func (r *Reporter) bookerName(ctx context.Context, bookerID int64) string {
	booker, err := r.store.GetUserByID(ctx, bookerID)
	if err != nil || booker == nil {
		return fmt.Sprintf("user %d", bookerID)
	}
	return booker.Name
}
