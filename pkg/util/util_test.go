package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"30", 30 * time.Second},
		{"1h", time.Hour},
		{" 10m ", 10 * time.Minute},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDuration("xd")
	assert.Error(t, err)
}

func TestParseDurationOr(t *testing.T) {
	assert.Equal(t, time.Minute, ParseDurationOr("", time.Minute))
	assert.Equal(t, time.Minute, ParseDurationOr("bogus", time.Minute))
	assert.Equal(t, 2*time.Second, ParseDurationOr("2s", time.Minute))
}

func TestArrayUnique(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, ArrayUnique([]string{"b", "a", "b"}))
}

func TestGetSysInfo(t *testing.T) {
	info := GetSysInfo()
	assert.NotEmpty(t, info.GOOS)
	assert.Greater(t, info.NumGoroutine, 0)
}
