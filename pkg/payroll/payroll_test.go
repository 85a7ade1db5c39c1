package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSettings() Settings {
	return Settings{
		HourlyRate:   10000,
		LunchStart:   "13:00:00",
		LunchEnd:     "14:00:00",
		LateCutoff:   "09:00:00",
		MaxPaidHours: 9,
	}
}

// 2024-03-11 is a Monday, 2024-03-10 a Sunday.
const (
	monday = "2024-03-11"
	sunday = "2024-03-10"
)

func TestComputeWorkDuration(t *testing.T) {
	s := testSettings()

	tests := []struct {
		name       string
		checkIn    string
		checkOut   string
		date       string
		wantLabel  string
		wantLate   bool
		wantNetSec float64
	}{
		{
			name:      "no check-in",
			checkIn:   "",
			checkOut:  "",
			date:      monday,
			wantLabel: "No data",
		},
		{
			name:      "check-in without check-out is pending",
			checkIn:   "08:30:00",
			checkOut:  "",
			date:      monday,
			wantLabel: "N/A",
		},
		{
			name:      "pending day still reports lateness",
			checkIn:   "09:15:00",
			checkOut:  "",
			date:      monday,
			wantLabel: "N/A",
			wantLate:  true,
		},
		{
			name:       "full day minus lunch overlap",
			checkIn:    "08:00:00",
			checkOut:   "18:00:00",
			date:       monday,
			wantLabel:  "9h 0m",
			wantNetSec: 32400,
		},
		{
			name:       "shift ending before lunch has no overlap",
			checkIn:    "06:00:00",
			checkOut:   "12:00:00",
			date:       monday,
			wantLabel:  "6h 0m",
			wantNetSec: 21600,
		},
		{
			name:       "shift fully inside lunch window",
			checkIn:    "13:00:00",
			checkOut:   "13:30:00",
			date:       monday,
			wantLabel:  "0h 0m",
			wantNetSec: 0,
		},
		{
			name:       "partial lunch overlap",
			checkIn:    "13:30:00",
			checkOut:   "18:00:00",
			date:       monday,
			wantLabel:  "4h 0m",
			wantNetSec: 14400,
		},
		{
			name:       "overnight shift adds a day",
			checkIn:    "22:00:00",
			checkOut:   "02:00:00",
			date:       monday,
			wantLabel:  "4h 0m",
			wantLate:   true,
			wantNetSec: 14400,
		},
		{
			name:       "zero-length shift never goes negative",
			checkIn:    "10:00:00",
			checkOut:   "10:00:00",
			date:       monday,
			wantLabel:  "0h 0m",
			wantLate:   true,
			wantNetSec: 0,
		},
		{
			name:      "malformed check-in fails closed",
			checkIn:   "nonsense",
			checkOut:  "18:00:00",
			date:      monday,
			wantLabel: "No data",
		},
		{
			name:      "malformed check-out fails closed",
			checkIn:   "08:00:00",
			checkOut:  "25:99:99",
			date:      monday,
			wantLabel: "No data",
		},
		{
			name:       "unparseable date still computes duration",
			checkIn:    "08:00:00",
			checkOut:   "12:00:00",
			date:       "not-a-date",
			wantLabel:  "4h 0m",
			wantNetSec: 14400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWorkDuration(s, tt.checkIn, tt.checkOut, tt.date)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.wantLate, got.IsLate)
			assert.Equal(t, tt.wantNetSec, got.NetSeconds)
		})
	}
}

func TestLateCutoffIsStrict(t *testing.T) {
	s := testSettings()

	onTime := ComputeWorkDuration(s, "09:00:00", "", monday)
	assert.False(t, onTime.IsLate)

	late := ComputeWorkDuration(s, "09:00:01", "", monday)
	assert.True(t, late.IsLate)
}

func TestDurationLabelMinutes(t *testing.T) {
	s := testSettings()

	got := ComputeWorkDuration(s, "09:10:00", "12:55:30", monday)
	assert.Equal(t, "3h 45m", got.Label)
}

func TestComputeDaySalary(t *testing.T) {
	s := testSettings()

	tests := []struct {
		name        string
		date        string
		netSeconds  float64
		wantSalary  float64
		wantPerMin  float64
	}{
		{
			name:       "regular eight hour day",
			date:       monday,
			netSeconds: 8 * 3600,
			wantSalary: 80000,
			wantPerMin: 166.67,
		},
		{
			name:       "pay capped at max paid hours",
			date:       monday,
			netSeconds: 11 * 3600,
			wantSalary: 90000,
			wantPerMin: 166.67,
		},
		{
			name:       "sunday is exempt regardless of hours",
			date:       sunday,
			netSeconds: 10 * 3600,
			wantSalary: 0,
			wantPerMin: 0,
		},
		{
			name:       "zero worked seconds",
			date:       monday,
			netSeconds: 0,
			wantSalary: 0,
			wantPerMin: 0,
		},
		{
			name:       "partial hour rounds to whole currency units",
			date:       monday,
			netSeconds: 5000,
			wantSalary: 13889,
			wantPerMin: 166.67,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDaySalary(s, tt.date, tt.netSeconds)
			assert.Equal(t, tt.wantSalary, got.DaySalary)
			assert.Equal(t, tt.wantPerMin, got.PerMinuteRate)
		})
	}
}

func TestIsRestDay(t *testing.T) {
	assert.True(t, IsRestDay(sunday))
	assert.False(t, IsRestDay(monday))
	assert.False(t, IsRestDay("garbage"))
}
