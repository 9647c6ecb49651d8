package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSignalsSpecSentence(t *testing.T) {
	sig := ExtractSignals("We use a subscription model with 25% margin and a 3 month sales cycle")

	assert.Equal(t, "subscription", sig.RevenueModel)
	require.NotNil(t, sig.Pct1)
	assert.Equal(t, 25.0, *sig.Pct1)
	require.NotNil(t, sig.SalesCycleMonths)
	assert.Equal(t, 3.0, *sig.SalesCycleMonths)
	// The percent and sales-cycle numbers must not leak into money.
	assert.Nil(t, sig.Money1)
}

func TestExtractBareNumberAsMoney(t *testing.T) {
	sig := ExtractSignals("we do around 100 orders each month")
	require.NotNil(t, sig.Money1)
	assert.Equal(t, 100.0, *sig.Money1)

	sig = ExtractSignals("1,200 units shipped")
	require.NotNil(t, sig.Money1)
	assert.Equal(t, 1200.0, *sig.Money1)
}

func TestExtractMoney(t *testing.T) {
	sig := ExtractSignals("$49.99 per order")
	require.NotNil(t, sig.Money1)
	assert.Equal(t, 49.99, *sig.Money1)
	assert.Equal(t, "transactional", sig.RevenueModel)

	sig = ExtractSignals("roughly $1,200 monthly")
	require.NotNil(t, sig.Money1)
	assert.Equal(t, 1200.0, *sig.Money1)

	sig = ExtractSignals("AOV is 12.50 after discounts")
	require.NotNil(t, sig.Money1)
	assert.Equal(t, 12.5, *sig.Money1)
}

func TestExtractRevenueModelLastMatchWins(t *testing.T) {
	sig := ExtractSignals("mostly subscription but some one-time work")
	assert.Equal(t, "transactional", sig.RevenueModel)
}

func TestExtractLeadSource(t *testing.T) {
	assert.Equal(t, "paid", ExtractSignals("we run google ads").LeadSource)
	assert.Equal(t, "outbound", ExtractSignals("cold email mostly").LeadSource)
	assert.Equal(t, "organic", ExtractSignals("all word of mouth and referrals").LeadSource)
	assert.Equal(t, "", ExtractSignals("we sell shoes").LeadSource)
}

func TestExtractSalesCycleMonthsBeatDays(t *testing.T) {
	sig := ExtractSignals("about 2 months, sometimes 45 days")
	require.NotNil(t, sig.SalesCycleMonths)
	assert.Equal(t, 2.0, *sig.SalesCycleMonths)
	assert.Nil(t, sig.SalesCycleDays)

	sig = ExtractSignals("usually 45 days")
	require.NotNil(t, sig.SalesCycleDays)
	assert.Equal(t, 45.0, *sig.SalesCycleDays)
}

func TestExtractMentionFlags(t *testing.T) {
	sig := ExtractSignals("churn is high and CAC keeps rising")
	assert.True(t, sig.MentionsChurn)
	assert.True(t, sig.MentionsCAC)

	// "cac" must be a standalone word.
	sig = ExtractSignals("we sell cactus pots")
	assert.False(t, sig.MentionsCAC)
}

func TestExtractNeverFailsOnNoise(t *testing.T) {
	for _, text := range []string{"", "   ", "???", "no signals here at all"} {
		sig := ExtractSignals(text)
		assert.True(t, sig.Empty(), "expected no signals for %q", text)
	}
}
