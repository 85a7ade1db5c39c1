package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"qr-attendance-backend/models"
	util "qr-attendance-backend/pkg/utils"
	"qr-attendance-backend/repository"
)

type WorkerHandler struct {
	workerRepo repository.WorkerRepository
}

func NewWorkerHandler(workerRepo repository.WorkerRepository) *WorkerHandler {
	return &WorkerHandler{workerRepo: workerRepo}
}

// RegisterWorker adds a worker to the roster. The chat id must be unused;
// duplicates are rejected, never overwritten.
func (h *WorkerHandler) RegisterWorker(c *fiber.Ctx) error {
	var payload models.WorkerRegisterPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	newWorker := &models.Worker{
		ChatID: payload.ChatID,
		Name:   payload.Name,
		Role:   models.RoleWorker,
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.workerRepo.CreateWorker(ctx, newWorker)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateRegistration) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": models.ErrDuplicateRegistration.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to register worker"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Worker registered",
		"worker_id": result.InsertedID,
		"name":      newWorker.Name,
		"chat_id":   newWorker.ChatID,
	})
}

func (h *WorkerHandler) GetAllWorkers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	workers, err := h.workerRepo.GetAllWorkers(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list workers"})
	}

	if workers == nil {
		workers = []models.Worker{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"workers": workers,
		"total":   len(workers),
	})
}

// GetWorkerByChatID backs the "my id" lookup the chat transport offers.
func (h *WorkerHandler) GetWorkerByChatID(c *fiber.Ctx) error {
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

	return c.Status(fiber.StatusOK).JSON(worker)
}

func (h *WorkerHandler) DeleteWorker(c *fiber.Ctx) error {
	chatID, err := strconv.ParseInt(c.Params("chat_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "chat_id must be a number"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.workerRepo.DeleteWorkerByChatID(ctx, chatID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete worker"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "Worker deleted (or was not on the roster)",
		"chat_id":       chatID,
		"deleted_count": result.DeletedCount,
	})
}
