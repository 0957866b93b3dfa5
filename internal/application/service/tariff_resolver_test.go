package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/salon-commission-api/internal/application/service"
	"github.com/sangkips/salon-commission-api/internal/testutil"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
)

func TestTariffWindowBoundaries(t *testing.T) {
	e := newEnv(t)
	price := testutil.Dec("100000")

	cases := []struct {
		hour, minute int
		percent      string
		commission   string
	}{
		{14, 0, "10", "10000"},
		{20, 0, "15", "15000"},
		{9, 0, "10", "10000"},
		{8, 59, "15", "15000"},
		{17, 59, "10", "10000"},
		{18, 0, "15", "15000"},
	}

	for _, tc := range cases {
		at := time.Date(2024, 3, 1, tc.hour, tc.minute, 0, 0, e.loc)
		pct, err := e.tariffs.Resolve(context.Background(), e.haircut.ID, at)
		require.NoError(t, err)
		assert.True(t, pct.Equal(testutil.Dec(tc.percent)), "%02d:%02d got %s", tc.hour, tc.minute, pct)
		assert.True(t, service.Commission(price, pct).Equal(testutil.Dec(tc.commission)))
	}
}

func TestTariffUsesBusinessLocalTime(t *testing.T) {
	e := newEnv(t)
	// 03:00 UTC is 10:00 in Jakarta
	at := time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)
	assert.True(t, e.tariffs.IsWorkingHour(at))
	assert.True(t, e.tariffs.Tariff(e.haircut, at).Equal(testutil.Dec("10")))
}

func TestResolveUnknownService(t *testing.T) {
	e := newEnv(t)
	_, err := e.tariffs.Resolve(context.Background(), uuid.New(), e.now)
	assert.ErrorIs(t, err, apperror.ErrServiceNotFound)
}

func TestResolveCachesAndUpdateInvalidates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.tariffs.Resolve(ctx, e.haircut.ID, e.now)
	require.NoError(t, err)
	_, err = e.tariffs.Resolve(ctx, e.haircut.ID, e.now)
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.hits)

	_, err = e.catalog.UpdateService(ctx, e.haircut.ID, &service.ServiceInput{
		Name:              "Haircut",
		RegularPercent:    testutil.Dec("12"),
		AfterHoursPercent: testutil.Dec("18"),
	})
	require.NoError(t, err)

	pct, err := e.tariffs.Resolve(ctx, e.haircut.ID, e.now)
	require.NoError(t, err)
	assert.True(t, pct.Equal(testutil.Dec("12")), pct.String())
}

func TestCommissionRoundsToCents(t *testing.T) {
	got := service.Commission(testutil.Dec("33333"), testutil.Dec("12.5"))
	assert.Equal(t, "4166.63", got.StringFixed(2))
}
