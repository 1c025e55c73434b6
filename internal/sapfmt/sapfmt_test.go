package sapfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDateDecodesEpochMillis(t *testing.T) {
	f := New("vi", "02/01/2006")
	// 1700000000000 ms = 2023-11-14T22:13:20Z
	require.Equal(t, "14/11/2023", f.Date("/Date(1700000000000)/"))
}

func TestDateCustomLayout(t *testing.T) {
	f := New("en", "2006-01-02")
	require.Equal(t, "2023-11-14", f.Date("/Date(1700000000000)/"))
}

func TestDateMalformedYieldsPlaceholder(t *testing.T) {
	f := New("vi", "")
	for _, raw := range []string{"", "garbage", "/Date()/", "2023-11-14", "/Date(abc)/"} {
		require.Equal(t, Placeholder, f.Date(raw), "input %q", raw)
	}
}

func TestDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"PT08H05M03S", "08:05:03"},
		{"PT8H5M3S", "08:05:03"},
		{"PT23H59M59S", "23:59:59"},
		{"PT0H0M0S", "00:00:00"},
		{"", Placeholder},
		{"08:05:03", Placeholder},
		{"PT99X", Placeholder},
		{"PT1H2M", Placeholder},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Duration(tc.raw), "input %q", tc.raw)
	}
}

func TestAmountGroupsDigits(t *testing.T) {
	f := New("en", "")
	require.Equal(t, "1,234,567.50 EUR", f.Amount("1234567.5", "EUR"))
	require.Equal(t, "190,000.00 VND", f.Amount("190000", "VND"))
	require.Equal(t, "42.00", f.Amount("42", ""))
}

func TestAmountMalformedYieldsPlaceholder(t *testing.T) {
	f := New("en", "")
	require.Equal(t, Placeholder, f.Amount("", "EUR"))
	require.Equal(t, Placeholder, f.Amount("abc", "EUR"))
}

func TestNewFallsBackToEnglishOnBadLocale(t *testing.T) {
	f := New("not-a-locale!!", "")
	require.Equal(t, "1,000.00", f.Amount("1000", ""))
}
