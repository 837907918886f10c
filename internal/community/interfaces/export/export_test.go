package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"energy-community/internal/community/application"
	community "energy-community/internal/community/domain"
)

func TestBuildBalancePDF(t *testing.T) {
	record := community.EnergyRecord{
		Period:       "2024-03",
		GeneratedKWh: decimal.NewFromInt(50),
		ConsumedKWh:  decimal.NewFromInt(80),
	}
	report := application.BuildBalanceReport(1, record, nil)

	data, err := BuildBalancePDF(report)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = BuildBalancePDF(nil)
	assert.Error(t, err)
}

func TestBuildRosterXLSX(t *testing.T) {
	report := &application.RosterReport{
		CommunityID:  7,
		Period:       "2024-03",
		MembersCount: 1,
		Members: []application.RosterMember{{
			UserID:          11,
			Name:            "Ana Rojas",
			Email:           "ana@example.com",
			Role:            "prosumer",
			PDEShare:        decimal.RequireFromString("0.125"),
			TotalCreditsKWh: decimal.RequireFromString("8.5"),
			Energy: application.EnergyQuantities{
				GeneratedKWh: decimal.RequireFromString("120.375"),
			},
			ActiveContractsCount: 2,
		}},
	}

	data, err := BuildRosterXLSX(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, membersSheet}, f.GetSheetList())
	period, err := f.GetCellValue(summarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", period)

	name, err := f.GetCellValue(membersSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ana Rojas", name)
	share, err := f.GetCellValue(membersSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "0.125", share)
	generated, err := f.GetCellValue(membersSheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "120.375", generated)
}

func TestBuildRosterXLSX_EmptyRoster(t *testing.T) {
	data, err := BuildRosterXLSX(&application.RosterReport{CommunityID: 1, Period: "2024-03", Members: []application.RosterMember{}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(membersSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
