package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationStrict(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: " 1d ", want: 24 * time.Hour},
		{in: "10m", want: 10 * time.Minute},
		{in: "1h30m", want: 90 * time.Minute},
		{in: "-1d", wantErr: true},
		{in: "xd", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDurationStrict(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDurationFallsBack(t *testing.T) {
	assert.Equal(t, time.Minute, ParseDuration("nope", time.Minute))
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2010-05-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 5, 14, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2010-05-14T08:00:00Z")
	assert.NoError(t, err)

	_, err = ParseDate("14/05/2010")
	assert.Error(t, err)
}
