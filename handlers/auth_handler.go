package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"qr-attendance-backend/models"
	"qr-attendance-backend/pkg/paseto"
	"qr-attendance-backend/pkg/password"
	util "qr-attendance-backend/pkg/utils"
	"qr-attendance-backend/repository"
)

type AuthHandler struct {
	workerRepo repository.WorkerRepository
}

func NewAuthHandler(workerRepo repository.WorkerRepository) *AuthHandler {
	return &AuthHandler{workerRepo: workerRepo}
}

// Login authenticates the admin account and returns a PASETO session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var payload models.AdminLoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	worker, err := h.workerRepo.FindWorkerByEmail(ctx, payload.Email)
	if err != nil || worker == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "wrong email and password combination"})
	}

	if !password.CheckPasswordHash(payload.Password, worker.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "wrong email and password combination"})
	}

	tokenString, err := paseto.GenerateToken(worker)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate session token"})
	}

	return c.Status(fiber.StatusOK).JSON(models.LoginSuccessResponse{
		Message: "Login successful",
		Token:   tokenString,
		UserID:  worker.ID.Hex(),
		Role:    worker.Role,
	})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated or invalid token claims"})
	}

	var payload models.ChangePasswordPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	worker, err := h.workerRepo.FindWorkerByID(ctx, claims.WorkerID)
	if err != nil || worker == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "account not found"})
	}

	if !password.CheckPasswordHash(payload.OldPassword, worker.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "old password is wrong"})
	}

	hashed, err := password.HashPassword(payload.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to hash password"})
	}

	if err := h.workerRepo.UpdateWorkerPassword(ctx, worker.ID, hashed); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update password"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password changed."})
}
