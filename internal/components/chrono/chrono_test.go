package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedOffset(t *testing.T) {
	loc := FixedOffset(7)
	require.Equal(t, "UTC+7", loc.String())

	utc := time.Date(2024, time.March, 1, 17, 0, 0, 0, time.UTC)
	local := utc.In(loc)
	require.Equal(t, 0, local.Hour())
	require.Equal(t, 2, local.Day())

	require.Equal(t, "UTC-5", FixedOffset(-5).String())
	require.Equal(t, "UTC", FixedOffset(0).String())
}

func TestStandardTimeLocation(t *testing.T) {
	clock := NewStandardTime(FixedOffset(7))
	_, offset := clock.Now().Zone()
	require.Equal(t, 7*60*60, offset)
}
