package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autotheme/internal/domain"
)

func TestResolveProfile(t *testing.T) {
	t.Parallel()

	sunrise := domain.MustTimeOfDay(6, 0, 0)
	sunset := domain.MustTimeOfDay(18, 0, 0)

	tests := []struct {
		name string
		now  domain.TimeOfDay
		want bool
	}{
		{"midnight is night", domain.MustTimeOfDay(0, 0, 0), false},
		{"one second before sunrise", domain.MustTimeOfDay(5, 59, 59), false},
		{"sunrise instant is day", sunrise, true},
		{"noon is day", domain.MustTimeOfDay(12, 0, 0), true},
		{"one second before sunset", domain.MustTimeOfDay(17, 59, 59), true},
		{"sunset instant is night", sunset, false},
		{"last second of the day", domain.MustTimeOfDay(23, 59, 59), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.ResolveProfile(tt.now, sunrise, sunset))
		})
	}
}

func TestResolveProfile_HalfOpenIntervalExhaustive(t *testing.T) {
	t.Parallel()

	// Every minute of the day against a spread of ordered schedules.
	schedules := [][2]domain.TimeOfDay{
		{domain.MustTimeOfDay(0, 0, 0), domain.MustTimeOfDay(0, 0, 0)},
		{domain.MustTimeOfDay(0, 0, 0), domain.MustTimeOfDay(23, 59, 59)},
		{domain.MustTimeOfDay(7, 30, 0), domain.MustTimeOfDay(19, 45, 30)},
		{domain.MustTimeOfDay(12, 0, 0), domain.MustTimeOfDay(12, 0, 1)},
	}
	for _, s := range schedules {
		for m := 0; m < 24*60; m++ {
			now := domain.MustTimeOfDay(m/60, m%60, 0)
			want := s[0].Seconds() <= now.Seconds() && now.Seconds() < s[1].Seconds()
			assert.Equal(t, want, domain.ResolveProfile(now, s[0], s[1]), "now=%s schedule=%s-%s", now, s[0], s[1])
		}
	}
}

// Overnight schedules are not wrapped around midnight: the literal
// comparison never yields day when sunset is before sunrise.
func TestResolveProfile_OvernightScheduleIsLiteral(t *testing.T) {
	t.Parallel()

	sunrise := domain.MustTimeOfDay(20, 0, 0)
	sunset := domain.MustTimeOfDay(4, 0, 0)

	assert.False(t, domain.ResolveProfile(domain.MustTimeOfDay(22, 0, 0), sunrise, sunset))
	assert.False(t, domain.ResolveProfile(domain.MustTimeOfDay(2, 0, 0), sunrise, sunset))
	assert.False(t, domain.ResolveProfile(domain.MustTimeOfDay(12, 0, 0), sunrise, sunset))
}
