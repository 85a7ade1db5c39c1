package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"qr-attendance-backend/models"
	"qr-attendance-backend/pkg/payroll"
	"qr-attendance-backend/pkg/report"
	util "qr-attendance-backend/pkg/utils"
	"qr-attendance-backend/repository"
)

type ReportHandler struct {
	attendanceRepo repository.AttendanceRepository
	payrollConfig  payroll.Settings
}

func NewReportHandler(attendanceRepo repository.AttendanceRepository, payrollConfig payroll.Settings) *ReportHandler {
	return &ReportHandler{
		attendanceRepo: attendanceRepo,
		payrollConfig:  payrollConfig,
	}
}

// ExportReport streams the full attendance/payroll report as an .xlsx
// download. Report generation is a pure read-then-compute pass over the
// stored records.
func (h *ReportHandler) ExportReport(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	records, err := h.attendanceRepo.GetAttendanceForReport(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read attendance records"})
	}

	if len(records) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no attendance records to report"})
	}

	result := report.Aggregate(records, h.payrollConfig)

	buf, err := report.RenderExcel(result)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render report workbook"})
	}

	filename := fmt.Sprintf("Attendance_Report_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// PurgeData clears all attendance records and token history after an explicit
// confirmation. Worker rows survive.
func (h *ReportHandler) PurgeData(c *fiber.Ctx) error {
	var payload models.PurgePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	if err := h.attendanceRepo.PurgeAttendanceData(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to purge attendance data"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "All attendance records and token history cleared. Workers kept.",
	})
}
