package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"

	"qr-attendance-backend/models"
	"qr-attendance-backend/pkg/token"
	util "qr-attendance-backend/pkg/utils"
	"qr-attendance-backend/repository"
)

type AttendanceHandler struct {
	workerRepo     repository.WorkerRepository
	attendanceRepo repository.AttendanceRepository
	codec          *token.Codec
	deepLinkPrefix string
}

func NewAttendanceHandler(workerRepo repository.WorkerRepository, attendanceRepo repository.AttendanceRepository, codec *token.Codec, deepLinkPrefix string) *AttendanceHandler {
	return &AttendanceHandler{
		workerRepo:     workerRepo,
		attendanceRepo: attendanceRepo,
		codec:          codec,
		deepLinkPrefix: deepLinkPrefix,
	}
}

// Scan handles a scanned single-use token relayed by the chat transport:
// decode the action, check the ledger, apply the check-in/check-out
// transition, then consume the token. The token is consumed only after the
// attendance write succeeded, so a failed transition leaves it reusable.
func (h *AttendanceHandler) Scan(c *fiber.Ctx) error {
	var payload models.ScanPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	action, err := h.codec.Verify(payload.Token)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": models.ErrInvalidToken.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	worker, err := h.workerRepo.FindWorkerByChatID(ctx, payload.ChatID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to look up worker"})
	}
	if worker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   models.ErrUnknownWorker.Error(),
			"chat_id": payload.ChatID,
		})
	}

	used, err := h.attendanceRepo.IsTokenUsed(ctx, payload.Token)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to check token"})
	}
	if used {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": models.ErrTokenAlreadyUsed.Error()})
	}

	now := time.Now()
	today := now.Format("2006-01-02")
	timeNow := now.Format("15:04:05")

	record, err := h.attendanceRepo.FindAttendanceByWorkerAndDate(ctx, worker.ID, today)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to look up today's attendance"})
	}

	var result models.ScanResult
	status := fiber.StatusOK

	switch action {
	case token.ActionCheckIn:
		if record != nil && record.CheckIn != "" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": models.ErrAlreadyCheckedIn.Error()})
		}

		if record != nil {
			// Defensive branch: a record without a check-in should not
			// normally exist, but if it does, fill it in.
			if err := h.attendanceRepo.SetCheckIn(ctx, record.ID, timeNow); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record check-in"})
			}
		} else {
			newRecord := &models.Attendance{
				WorkerID:   worker.ID,
				ChatID:     worker.ChatID,
				WorkerName: worker.Name,
				Date:       today,
				CheckIn:    timeNow,
			}
			if _, err := h.attendanceRepo.CreateAttendance(ctx, newRecord); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record check-in"})
			}
			status = fiber.StatusCreated
		}

		result = models.ScanResult{
			Message:   fmt.Sprintf("Checked in at %s", timeNow),
			Action:    action,
			Worker:    worker.Name,
			Time:      timeNow,
			Date:      today,
			AdminNote: fmt.Sprintf("%s arrived at work.\nWorker: %s\nTime: %s\nDate: %s", worker.Name, worker.Name, timeNow, today),
		}

	case token.ActionCheckOut:
		if record == nil || record.CheckIn == "" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": models.ErrNotCheckedIn.Error()})
		}
		if record.CheckOut != "" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": models.ErrAlreadyCheckedOut.Error()})
		}

		if err := h.attendanceRepo.SetCheckOut(ctx, record.ID, timeNow); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record check-out"})
		}

		result = models.ScanResult{
			Message:   fmt.Sprintf("Checked out at %s", timeNow),
			Action:    action,
			Worker:    worker.Name,
			Time:      timeNow,
			Date:      today,
			AdminNote: fmt.Sprintf("%s left work.\nWorker: %s\nTime: %s\nDate: %s", worker.Name, worker.Name, timeNow, today),
		}
	}

	use := &models.TokenUse{
		Token:      payload.Token,
		Action:     action,
		UsedByID:   worker.ChatID,
		UsedByName: worker.Name,
	}
	if err := h.attendanceRepo.ConsumeToken(ctx, use); err != nil {
		if errors.Is(err, models.ErrTokenAlreadyUsed) {
			// Lost a race against a concurrent scan of the same token.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": models.ErrTokenAlreadyUsed.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to consume token"})
	}

	return c.Status(status).JSON(result)
}

// GenerateQRCode issues a fresh single-use token for the requested action and
// renders it as a scannable deep link.
func (h *AttendanceHandler) GenerateQRCode(c *fiber.Ctx) error {
	action := c.Query("action")
	if action != token.ActionCheckIn && action != token.ActionCheckOut {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action must be 'in' or 'out'"})
	}

	tok := h.codec.Issue(action)
	qrData := h.deepLinkPrefix + tok

	png, err := qrcode.Encode(qrData, qrcode.Medium, 256)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render QR code image"})
	}

	encodedString := base64.StdEncoding.EncodeToString(png)

	return c.Status(fiber.StatusOK).JSON(models.QRCodeResponse{
		Message:     "QR code generated. It can be used exactly once.",
		Action:      action,
		Token:       tok,
		QRCodeImage: "data:image/png;base64," + encodedString,
	})
}

// GetWorkerHistory lists a worker's attendance records, newest date first.
func (h *AttendanceHandler) GetWorkerHistory(c *fiber.Ctx) error {
	chatID, err := strconv.ParseInt(c.Params("chat_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "chat_id must be a number"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	worker, err := h.workerRepo.FindWorkerByChatID(ctx, chatID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to look up worker"})
	}
	if worker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": models.ErrUnknownWorker.Error()})
	}

	history, err := h.attendanceRepo.FindAttendanceByChatID(ctx, chatID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read attendance history"})
	}

	if history == nil {
		history = []models.Attendance{}
	}
	return c.Status(fiber.StatusOK).JSON(history)
}
