package reservation

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/pkg/filter"
)

const (
	summarySheet      = "Summary"
	reservationsSheet = "Reservations"
)

// ExportReport renders the report and every matching reservation as an xlsx
// workbook.
func (s *Service) ExportReport(ctx context.Context, c *criteria.ReservationFilterCriteria) ([]byte, error) {
	report, err := s.Report(ctx, c)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Find(ctx, c.Spec(), filter.Page{Sort: []filter.Order{{Field: criteria.FieldDate}}})
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeSummary(f, report); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(reservationsSheet); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := writeReservations(f, rows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, r *model.ReservationReport) error {
	lines := [][]interface{}{
		{"Total reservations", r.TotalReservations},
		{"Upcoming reservations", r.UpcomingReservations},
		{"Distinct customers", r.DistinctCustomers},
		{"Distinct businesses", r.DistinctBusinesses},
		{"Range start", formatTime(r.RangeStart)},
		{"Range end", formatTime(r.RangeEnd)},
	}
	for _, status := range model.ReservationStatuses {
		lines = append(lines, []interface{}{string(status), r.StatusCounts[status]})
	}
	for i, line := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &line); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

func writeReservations(f *excelize.File, rows []*model.Reservation) error {
	header := []interface{}{"ID", "Date", "Status", "Customer", "Business", "Service", "User", "Notes"}
	if err := f.SetSheetRow(reservationsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range rows {
		line := []interface{}{
			r.ID,
			r.Date.UTC().Format(time.RFC3339),
			string(r.Status),
			optional(r.CustomerID),
			optional(r.BusinessID),
			optional(r.ServiceID),
			optional(r.UserLogin),
			optional(r.Notes),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(reservationsSheet, cell, &line); err != nil {
			return fmt.Errorf("failed to write reservation %d: %w", r.ID, err)
		}
	}
	return nil
}

func optional[T any](p *T) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
