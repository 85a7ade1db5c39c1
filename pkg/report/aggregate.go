// Package report folds attendance records into payroll report rows and
// renders them as a spreadsheet.
package report

import (
	"fmt"

	"qr-attendance-backend/models"
	"qr-attendance-backend/pkg/payroll"
)

// Row is one rendered report line for a single (worker, date) record.
type Row struct {
	WorkerName    string
	Date          string
	CheckIn       string
	CheckOut      string
	NetHours      string
	IsLate        bool
	DaySalary     float64
	PerMinuteRate float64
}

// WorkerTotal is the accumulated day-salary total for one worker.
type WorkerTotal struct {
	WorkerName string
	Total      float64
}

// Result keeps the row ordering handed in by the store (date descending,
// worker name ascending) and appends one total per worker in order of first
// appearance. Workers whose total is zero are still listed.
type Result struct {
	Rows   []Row
	Totals []WorkerTotal
}

// Aggregate runs the duration and salary calculators over each record and
// accumulates per-worker totals. It is a pure read-then-compute pass; a
// record read mid-update simply shows up as a pending day.
func Aggregate(records []models.Attendance, s payroll.Settings) Result {
	var result Result

	totals := make(map[string]float64)
	var order []string

	for _, rec := range records {
		duration := payroll.ComputeWorkDuration(s, rec.CheckIn, rec.CheckOut, rec.Date)
		salary := payroll.ComputeDaySalary(s, rec.Date, duration.NetSeconds)

		if _, seen := totals[rec.WorkerName]; !seen {
			order = append(order, rec.WorkerName)
		}
		totals[rec.WorkerName] += salary.DaySalary

		netHours := "0.00"
		if duration.NetSeconds > 0 {
			netHours = fmt.Sprintf("%.2f", duration.NetSeconds/3600)
		}

		checkIn := rec.CheckIn
		if checkIn == "" {
			checkIn = "-"
		}
		checkOut := rec.CheckOut
		if checkOut == "" {
			checkOut = "-"
		}

		result.Rows = append(result.Rows, Row{
			WorkerName:    rec.WorkerName,
			Date:          rec.Date,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			NetHours:      netHours,
			IsLate:        duration.IsLate,
			DaySalary:     salary.DaySalary,
			PerMinuteRate: salary.PerMinuteRate,
		})
	}

	for _, name := range order {
		result.Totals = append(result.Totals, WorkerTotal{WorkerName: name, Total: totals[name]})
	}

	return result
}
