package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor/internal/model"
)

func stateWithProjectionEvidence(t *testing.T) model.ModelState {
	t.Helper()
	state := defaultState()
	for _, step := range []struct{ topic, msg string }{
		{"revenue", "we charge $50.00 per order"},
		{"revenue", "around 100 orders each month"},
		{"cogs", "COGS is 20% of revenue"},
		{"team_payroll", "payroll runs $2,000 monthly"},
		{"operating_expenses", "opex is about $1,000 a month"},
	} {
		state = UpdateStateFromUserMessage(state, UpdateInput{
			ActiveTopicID: step.topic,
			UserMessage:   step.msg,
		})
	}
	return state
}

func TestProjectionDeterministicRows(t *testing.T) {
	state := stateWithProjectionEvidence(t)

	preview := buildCashFlowPreviewAt(state, time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC))

	require.Len(t, preview.Months, 6)
	assert.Equal(t, "Sep 2026", preview.Months[0])
	assert.Equal(t, "Feb 2027", preview.Months[5])

	require.Len(t, preview.Rows[model.RowRevenue], 6)
	for _, v := range preview.Rows[model.RowRevenue] {
		assert.Equal(t, 5000.0, v) // 50 * 100, flat across all months
	}
	for _, v := range preview.Rows[model.RowCOGS] {
		assert.Equal(t, 1000.0, v) // 20% of revenue
	}
	for _, v := range preview.Rows[model.RowGrossProfit] {
		assert.Equal(t, 4000.0, v)
	}
	for _, v := range preview.Rows[model.RowEBITDA] {
		assert.Equal(t, 1000.0, v) // gross - 2000 payroll - 1000 opex
	}
	for _, v := range preview.Rows[model.RowWCAdjustment] {
		assert.Equal(t, 0.0, v)
	}
	for _, v := range preview.Rows[model.RowNetCash] {
		assert.Equal(t, 1000.0, v)
	}

	assert.True(t, preview.Ready)
	assert.Empty(t, preview.Reasons)
}

func TestProjectionWorkingCapitalAdjustment(t *testing.T) {
	state := stateWithProjectionEvidence(t)
	state.CompanyData = &model.CompanyData{
		AvgMonthlyOrders: model.Float(100),
		DSODays:          model.Float(30),
		DPODays:          model.Float(15),
		InventoryDays:    model.Float(45),
	}

	preview := buildCashFlowPreviewAt(state, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))

	// -5000/30*30 + 1000/30*15 - 1000/30*45 = -6000, spread over 6 months.
	require.Len(t, preview.Rows[model.RowWCAdjustment], 6)
	assert.InDelta(t, -1000.0, preview.Rows[model.RowWCAdjustment][0], 1e-9)
	assert.InDelta(t, 0.0, preview.Rows[model.RowNetCash][0], 1e-9)
}

func TestProjectionDegradesGracefully(t *testing.T) {
	preview := BuildCashFlowPreview(defaultState())

	assert.False(t, preview.Ready)
	assert.Len(t, preview.Reasons, 5)
	for _, v := range preview.Rows[model.RowRevenue] {
		assert.Equal(t, 0.0, v)
	}
	require.Len(t, preview.Months, 6)
}

func TestProjectionReadyGateToleratesTwoMissing(t *testing.T) {
	state := defaultState()
	// Price and volume from the company profile; COGS, payroll, opex missing.
	state.CompanyData = &model.CompanyData{
		AvgOrderValue:    model.Float(50),
		AvgMonthlyOrders: model.Float(100),
		CogsPct:          model.Float(20),
	}

	preview := BuildCashFlowPreview(state)
	assert.Len(t, preview.Reasons, 2) // payroll and opex
	assert.True(t, preview.Ready)

	state.CompanyData.CogsPct = nil
	preview = BuildCashFlowPreview(state)
	assert.Len(t, preview.Reasons, 3)
	assert.False(t, preview.Ready)
}

func TestProjectionFallsBackToCompanyData(t *testing.T) {
	state := defaultState()
	state.CompanyData = &model.CompanyData{
		ARPU:              model.Float(25),
		ActiveSubscribers: model.Float(400),
		CogsPct:           model.Float(10),
		PayrollMonthly:    model.Float(3000),
		OpexMonthly:       model.Float(500),
	}

	preview := BuildCashFlowPreview(state)
	assert.True(t, preview.Ready)
	assert.Equal(t, 10000.0, preview.Rows[model.RowRevenue][0]) // 25 * 400
	assert.Equal(t, 1000.0, preview.Rows[model.RowCOGS][0])
}
