// Package payroll turns raw check-in/check-out pairs into net worked time
// and day salaries.
package payroll

import (
	"fmt"
	"math"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Settings are the externally supplied payroll constants. Times of day are
// "15:04:05" strings, matching how attendance records store them.
type Settings struct {
	HourlyRate   float64
	LunchStart   string
	LunchEnd     string
	LateCutoff   string
	MaxPaidHours float64
}

// DurationResult is derived on demand from an attendance record, never stored.
type DurationResult struct {
	Label      string
	IsLate     bool
	NetSeconds float64
}

// SalaryResult is derived from a DurationResult and the record's date.
type SalaryResult struct {
	DaySalary     float64
	PerMinuteRate float64
}

const (
	labelNoData  = "No data"
	labelPending = "N/A"
)

// ComputeWorkDuration computes net worked seconds for one day: elapsed time
// from check-in to check-out (plus 24h when the shift crosses midnight),
// minus the part of the lunch window that overlaps the work interval.
// Malformed time strings fail closed to a zero-duration, not-late result.
func ComputeWorkDuration(s Settings, checkIn, checkOut, date string) DurationResult {
	if checkIn == "" {
		return DurationResult{Label: labelNoData}
	}

	checkInTime, err := time.Parse(timeLayout, checkIn)
	if err != nil {
		return DurationResult{Label: labelNoData}
	}

	lateCutoff, err := time.Parse(timeLayout, s.LateCutoff)
	if err != nil {
		return DurationResult{Label: labelNoData}
	}

	// Strictly later than the cutoff counts as late; arriving exactly on
	// the cutoff does not.
	isLate := checkInTime.After(lateCutoff)

	if checkOut == "" {
		// Day not closed yet.
		return DurationResult{Label: labelPending, IsLate: isLate}
	}

	checkOutTime, err := time.Parse(timeLayout, checkOut)
	if err != nil {
		return DurationResult{Label: labelNoData}
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		day = time.Now()
	}

	start := time.Date(day.Year(), day.Month(), day.Day(),
		checkInTime.Hour(), checkInTime.Minute(), checkInTime.Second(), 0, time.Local)
	end := time.Date(day.Year(), day.Month(), day.Day(),
		checkOutTime.Hour(), checkOutTime.Minute(), checkOutTime.Second(), 0, time.Local)

	// Overnight shift: the check-out belongs to the next calendar day.
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}

	raw := end.Sub(start)

	net := raw - lunchOverlap(s, day, start, end)
	if net < 0 {
		net = 0
	}

	totalSeconds := net.Seconds()
	hours := int(totalSeconds) / 3600
	minutes := (int(totalSeconds) % 3600) / 60

	return DurationResult{
		Label:      fmt.Sprintf("%dh %dm", hours, minutes),
		IsLate:     isLate,
		NetSeconds: totalSeconds,
	}
}

// lunchOverlap is the portion of the fixed lunch window, anchored to the
// record's date, that falls inside the work interval.
func lunchOverlap(s Settings, day, start, end time.Time) time.Duration {
	lunchStartTime, err := time.Parse(timeLayout, s.LunchStart)
	if err != nil {
		return 0
	}
	lunchEndTime, err := time.Parse(timeLayout, s.LunchEnd)
	if err != nil {
		return 0
	}

	lunchStart := time.Date(day.Year(), day.Month(), day.Day(),
		lunchStartTime.Hour(), lunchStartTime.Minute(), lunchStartTime.Second(), 0, time.Local)
	lunchEnd := time.Date(day.Year(), day.Month(), day.Day(),
		lunchEndTime.Hour(), lunchEndTime.Minute(), lunchEndTime.Second(), 0, time.Local)

	overlapStart := start
	if lunchStart.After(overlapStart) {
		overlapStart = lunchStart
	}
	overlapEnd := end
	if lunchEnd.Before(overlapEnd) {
		overlapEnd = lunchEnd
	}

	if overlapEnd.After(overlapStart) {
		return overlapEnd.Sub(overlapStart)
	}
	return 0
}

// IsRestDay reports whether the date falls on the weekly rest day (Sunday).
// Unparseable dates are not rest days.
func IsRestDay(date string) bool {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	return day.Weekday() == time.Sunday
}

// ComputeDaySalary derives the day salary and per-minute rate from net worked
// seconds. Hours beyond MaxPaidHours are unpaid; the weekly rest day is fully
// exempt regardless of attendance.
func ComputeDaySalary(s Settings, date string, netSeconds float64) SalaryResult {
	if IsRestDay(date) || netSeconds == 0 {
		return SalaryResult{}
	}

	workedHours := netSeconds / 3600

	paidHours := workedHours
	if paidHours > s.MaxPaidHours {
		paidHours = s.MaxPaidHours
	}

	daySalary := math.Round(paidHours * s.HourlyRate)

	paidMinutes := paidHours * 60
	perMinute := 0.0
	if paidMinutes > 0 {
		perMinute = math.Round(daySalary/paidMinutes*100) / 100
	}

	return SalaryResult{DaySalary: daySalary, PerMinuteRate: perMinute}
}
