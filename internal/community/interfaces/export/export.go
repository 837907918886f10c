package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"energy-community/internal/community/application"
)

const (
	summarySheet = "summary"
	membersSheet = "members"

	// ContentTypePDF is the media type of BuildBalancePDF output.
	ContentTypePDF = "application/pdf"
	// ContentTypeXLSX is the media type of BuildRosterXLSX output.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// BuildBalancePDF renders a one-page balance statement.
func BuildBalancePDF(report *application.BalanceReport) ([]byte, error) {
	if report == nil {
		return nil, errors.New("export: nil balance report")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Energy Balance Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("User: %d", report.UserID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", report.Period))
	pdf.Ln(8)

	section := func(title string, rows [][2]string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(120, 6, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, "kWh / value", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, row := range rows {
			pdf.CellFormat(120, 6, row[0], "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, row[1], "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	section("Generation", [][2]string{
		{"Total generated", report.Generation.TotalGeneratedKWh.String()},
		{"Self consumed", report.Generation.SelfConsumedKWh.String()},
		{"Surplus", report.Generation.SurplusKWh.String()},
	})
	section("Consumption", [][2]string{
		{"Total consumed", report.Consumption.TotalConsumedKWh.String()},
		{"From own generation", report.Consumption.FromOwnGenerationKWh.String()},
		{"Deficit", report.Consumption.DeficitKWh.String()},
	})
	section("Grid", [][2]string{
		{"Exported to grid", report.Grid.ExportedToGridKWh.String()},
		{"Imported from grid", report.Grid.ImportedFromGridKWh.String()},
	})
	section("P2P trading", [][2]string{
		{fmt.Sprintf("Sold (%d contracts)", report.P2P.SalesCount), report.P2P.SoldKWh.String()},
		{"Sales value", report.P2P.SoldValue.String()},
		{fmt.Sprintf("Bought (%d contracts)", report.P2P.PurchasesCount), report.P2P.BoughtKWh.String()},
		{"Purchases value", report.P2P.BoughtValue.String()},
	})

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Net balance (kWh): %s", report.NetBalanceKWh.String()))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var memberHeaders = []string{
	"User ID", "Name", "Email", "Role", "PDE Share", "Installed Capacity (kW)",
	"Generated (kWh)", "Consumed (kWh)", "Exported (kWh)", "Imported (kWh)",
	"Active Contracts", "Available Credits (kWh)", "PDE Allocated (kWh)",
}

// BuildRosterXLSX renders a roster workbook with summary and members sheets.
// Decimal values are written as text to keep them exact.
func BuildRosterXLSX(report *application.RosterReport) ([]byte, error) {
	if report == nil {
		return nil, errors.New("export: nil roster report")
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(membersSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Community Roster")
	_ = f.SetCellValue(summarySheet, "A3", "Community")
	_ = f.SetCellValue(summarySheet, "B3", report.CommunityID)
	_ = f.SetCellValue(summarySheet, "A4", "Period")
	_ = f.SetCellValue(summarySheet, "B4", report.Period.String())
	_ = f.SetCellValue(summarySheet, "A5", "Members")
	_ = f.SetCellValue(summarySheet, "B5", report.MembersCount)

	for i, header := range memberHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(membersSheet, cell, header)
	}
	for i, m := range report.Members {
		values := []any{
			m.UserID, m.Name, m.Email, m.Role, m.PDEShare.String(), m.InstalledCapacity.String(),
			m.Energy.GeneratedKWh.String(), m.Energy.ConsumedKWh.String(),
			m.Energy.ExportedKWh.String(), m.Energy.ImportedKWh.String(),
			m.ActiveContractsCount, m.TotalCreditsKWh.String(), m.PDEAllocatedKWh.String(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(membersSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
