package community

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-12")
	require.NoError(t, err)
	assert.Equal(t, Period("2024-12"), p)

	for _, bad := range []string{"", "2024-13", "2024-00", "24-01", "2024/01", "2024-01-01", " 2024-01"} {
		_, err := ParsePeriod(bad)
		assert.ErrorIs(t, err, ErrInvalidPeriod, bad)
	}
}

func TestPeriodOfUsesLocation(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// 02:00 UTC on Feb 1st is still January in Bogota (UTC-5).
	at := time.Date(2025, time.February, 1, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, Period("2025-02"), PeriodOf(at))
	assert.Equal(t, Period("2025-01"), PeriodOf(at.In(bogota)))
}
