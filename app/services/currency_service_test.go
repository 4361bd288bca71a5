package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/app/services"
	httpclient "github.com/voltmart/voltmart/pkg/http"
	"github.com/voltmart/voltmart/pkg/testkit"
)

func TestConvert(t *testing.T) {
	svc := services.NewCurrencyService("")

	same, err := svc.Convert(10, "USD", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 10, same, 0.001)

	eur, err := svc.Convert(100, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 92, eur, 0.001)

	// Cross conversion routes through USD.
	gbp, err := svc.Convert(92, "EUR", "GBP")
	require.NoError(t, err)
	assert.InDelta(t, 79, gbp, 0.001)

	_, err = svc.Convert(10, "XXX", "USD")
	assert.ErrorIs(t, err, services.ErrCurrencyNotFound)
	_, err = svc.Convert(10, "USD", "XXX")
	assert.ErrorIs(t, err, services.ErrCurrencyNotFound)
}

func TestListSorted(t *testing.T) {
	svc := services.NewCurrencyService("")
	rates := svc.List()
	require.NotEmpty(t, rates)
	for i := 1; i < len(rates); i++ {
		assert.Less(t, rates[i-1].Code, rates[i].Code)
	}
}

func TestRefreshOverwritesRates(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Stub("https://rates.test/latest", 200, `{"base":"USD","rates":{"EUR":0.5,"JPY":100,"BAD":-1}}`)
	httpclient.DefaultClient.Transport = mt
	defer httpclient.ResetTransport()

	svc := services.NewCurrencyService("https://rates.test/latest")
	before := svc.UpdatedAt()
	require.NoError(t, svc.Refresh())

	eur, err := svc.Convert(10, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 5, eur, 0.001)

	// Non-positive rates are dropped, as are currencies no longer listed.
	_, err = svc.Convert(10, "USD", "BAD")
	assert.ErrorIs(t, err, services.ErrCurrencyNotFound)
	_, err = svc.Convert(10, "USD", "GBP")
	assert.ErrorIs(t, err, services.ErrCurrencyNotFound)

	assert.False(t, svc.UpdatedAt().Before(before))
	assert.Empty(t, mt.Unmatched())
}

func TestRefreshFailureKeepsRates(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Stub("https://rates.test/latest", 500, `oops`)
	httpclient.DefaultClient.Transport = mt
	defer httpclient.ResetTransport()

	svc := services.NewCurrencyService("https://rates.test/latest")
	assert.Error(t, svc.Refresh())

	eur, err := svc.Convert(100, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 92, eur, 0.001)
}

func TestRefreshNoopWithoutURL(t *testing.T) {
	svc := services.NewCurrencyService("")
	assert.NoError(t, svc.Refresh())
}
