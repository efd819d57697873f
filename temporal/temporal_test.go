package temporal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinear_DayOfWeekAtEpoch(t *testing.T) {
	// epoch 0 = 1970-01-01 was a Thursday = index 3.
	s, err := Lookup(Linear)
	require.NoError(t, err)
	require.Equal(t, 3, s.ResolveDayOfWeek(0, Seconds, nil, nil))
}

func TestLinear_SundayAtFixedEpoch(t *testing.T) {
	// Scenario 2 from spec §8: Sunday 00:00 UTC at epoch 259200s (3 days
	// after Thursday epoch 0 -> Sunday).
	s, err := Lookup(Linear)
	require.NoError(t, err)
	require.Equal(t, 6, s.ResolveDayOfWeek(259200, Seconds, nil, nil))
}

func TestLinear_BucketIndexAndFraction(t *testing.T) {
	s, err := Lookup(Linear)
	require.NoError(t, err)
	// 3600 seconds into the day, bucket size 3600s -> bucket 1.
	require.Equal(t, 1, s.ResolveBucketIndex(3600, 3600, Seconds, nil, nil))
	require.InDelta(t, 1.0, s.ResolveFractionalBucket(3600, 3600, Seconds, nil, nil), 1e-9)
}

func TestCalendar_UTCMatchesLinear(t *testing.T) {
	zone, err := ResolveZone(UTC, "")
	require.NoError(t, err)
	cache := NewFixedOffsetCache(0)

	s, err := Lookup(Calendar)
	require.NoError(t, err)
	require.Equal(t, 6, s.ResolveDayOfWeek(259200, Seconds, zone, cache))
}

func TestResolveZone_ModelTimezoneRejectsBlank(t *testing.T) {
	_, err := ResolveZone(ModelTimezone, "")
	require.ErrorIs(t, err, ErrBlankZoneID)
}

func TestResolveZone_ModelTimezoneRejectsUnparsable(t *testing.T) {
	_, err := ResolveZone(ModelTimezone, "Not/AZone")
	require.ErrorIs(t, err, ErrUnparsableZone)
}

func TestBind_CalendarRequiresTimezone(t *testing.T) {
	_, err := Bind(Calendar, nil, "", 0, 86400, 3600)
	require.Error(t, err)
}

func TestBind_LinearForbidsTimezone(t *testing.T) {
	utc := UTC
	_, err := Bind(Linear, &utc, "", 0, 86400, 3600)
	require.Error(t, err)
}

func TestBind_CalendarWithUTC(t *testing.T) {
	utc := UTC
	ctx, err := Bind(Calendar, &utc, "", 0, 86400*30, 3600)
	require.NoError(t, err)
	require.True(t, ctx.DayMaskAware())
	require.Equal(t, 6, ctx.DayOfWeek(259200, Seconds))
}

func TestBind_LinearOK(t *testing.T) {
	ctx, err := Bind(Linear, nil, "", 0, 0, 0)
	require.NoError(t, err)
	require.False(t, ctx.DayMaskAware())
}

func TestBind_UnknownTrait(t *testing.T) {
	_, err := Bind("BOGUS", nil, "", 0, 0, 0)
	require.Error(t, err)
}
