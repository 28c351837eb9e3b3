package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "canonical", input: "2025-03-15", want: Date{2025, time.March, 15}},
		{name: "rfc3339 timestamp takes date part", input: "2025-03-15T10:30:00Z", want: Date{2025, time.March, 15}},
		{name: "leap day", input: "2024-02-29", want: Date{2024, time.February, 29}},
		{name: "invalid day", input: "2025-02-30", wantErr: true},
		{name: "garbage", input: "not-a-date", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateString(t *testing.T) {
	d := Date{2025, time.January, 5}
	assert.Equal(t, "2025-01-05", d.String())
}

func TestAddYears(t *testing.T) {
	tests := []struct {
		name string
		in   Date
		n    int
		want Date
	}{
		{name: "plain year shift", in: Date{2025, time.June, 10}, n: 1, want: Date{2026, time.June, 10}},
		{name: "multiple years", in: Date{2025, time.June, 10}, n: 3, want: Date{2028, time.June, 10}},
		{name: "leap day clamps to feb 28", in: Date{2024, time.February, 29}, n: 1, want: Date{2025, time.February, 28}},
		{name: "leap day to leap year keeps feb 29", in: Date{2024, time.February, 29}, n: 4, want: Date{2028, time.February, 29}},
		{name: "feb 28 unaffected", in: Date{2024, time.February, 28}, n: 1, want: Date{2025, time.February, 28}},
		{name: "negative shift", in: Date{2026, time.June, 10}, n: -1, want: Date{2025, time.June, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.AddYears(tt.n))
		})
	}
}

func TestBefore(t *testing.T) {
	a := Date{2025, time.March, 15}

	assert.True(t, Date{2024, time.December, 31}.Before(a))
	assert.True(t, Date{2025, time.February, 20}.Before(a))
	assert.True(t, Date{2025, time.March, 14}.Before(a))
	assert.False(t, a.Before(a))
	assert.False(t, Date{2025, time.March, 16}.Before(a))
	assert.False(t, Date{2026, time.January, 1}.Before(a))
}

func TestBeforeToday(t *testing.T) {
	today := Today()

	yesterday := FromTime(time.Now().AddDate(0, 0, -1))
	tomorrow := FromTime(time.Now().AddDate(0, 0, 1))

	assert.True(t, yesterday.BeforeToday())
	assert.False(t, today.BeforeToday())
	assert.False(t, tomorrow.BeforeToday())
}

func TestDateJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Release Date `json:"date_release"`
	}

	in := wrapper{Release: Date{2025, time.November, 3}}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date_release":"2025-11-03"}`, string(raw))

	var out wrapper
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestDateIsZero(t *testing.T) {
	assert.True(t, Date{}.IsZero())
	assert.False(t, Today().IsZero())
}
