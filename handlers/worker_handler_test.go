package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-attendance-backend/models"
)

func newWorkerApp(repo *fakeWorkerRepo) *fiber.App {
	h := NewWorkerHandler(repo)

	app := fiber.New()
	app.Post("/workers", h.RegisterWorker)
	app.Get("/workers", h.GetAllWorkers)
	app.Get("/workers/:chat_id", h.GetWorkerByChatID)
	app.Delete("/workers/:chat_id", h.DeleteWorker)
	return app
}

func registerWorker(t *testing.T, app *fiber.App, payload models.WorkerRegisterPayload) (int, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/workers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestRegisterWorker(t *testing.T) {
	app := newWorkerApp(newFakeWorkerRepo())

	status, body := registerWorker(t, app, models.WorkerRegisterPayload{Name: "New Worker", ChatID: 777})

	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "New Worker", body["name"])
	assert.EqualValues(t, 777, body["chat_id"])
}

func TestRegisterWorkerRejectsDuplicateChatID(t *testing.T) {
	app := newWorkerApp(newFakeWorkerRepo())

	status, _ := registerWorker(t, app, models.WorkerRegisterPayload{Name: "First", ChatID: 777})
	require.Equal(t, fiber.StatusCreated, status)

	// Same chat id again: rejected, not overwritten.
	status, body := registerWorker(t, app, models.WorkerRegisterPayload{Name: "Second", ChatID: 777})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, models.ErrDuplicateRegistration.Error(), body["error"])
}

func TestRegisterWorkerValidatesPayload(t *testing.T) {
	app := newWorkerApp(newFakeWorkerRepo())

	status, body := registerWorker(t, app, models.WorkerRegisterPayload{Name: "X", ChatID: 0})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotNil(t, body["errors"])
}

func TestGetWorkerByChatID(t *testing.T) {
	repo := newFakeWorkerRepo(&models.Worker{ChatID: 555, Name: "Known", Role: models.RoleWorker})
	app := newWorkerApp(repo)

	req := httptest.NewRequest("GET", "/workers/555", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/workers/999", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteWorker(t *testing.T) {
	repo := newFakeWorkerRepo(&models.Worker{ChatID: 555, Name: "Doomed", Role: models.RoleWorker})
	app := newWorkerApp(repo)

	req := httptest.NewRequest("DELETE", "/workers/555", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decoded["deleted_count"])

	worker, err := repo.FindWorkerByChatID(nil, 555)
	require.NoError(t, err)
	assert.Nil(t, worker)
}
