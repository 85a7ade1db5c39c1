package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"qr-attendance-backend/models"
	"qr-attendance-backend/pkg/token"
)

// ---- In-memory fakes ----

type fakeWorkerRepo struct {
	workers map[int64]*models.Worker
}

func newFakeWorkerRepo(workers ...*models.Worker) *fakeWorkerRepo {
	r := &fakeWorkerRepo{workers: make(map[int64]*models.Worker)}
	for _, w := range workers {
		if w.ID.IsZero() {
			w.ID = primitive.NewObjectID()
		}
		r.workers[w.ChatID] = w
	}
	return r
}

func (r *fakeWorkerRepo) CreateWorker(_ context.Context, worker *models.Worker) (*mongo.InsertOneResult, error) {
	if _, exists := r.workers[worker.ChatID]; exists {
		return nil, models.ErrDuplicateRegistration
	}
	worker.ID = primitive.NewObjectID()
	r.workers[worker.ChatID] = worker
	return &mongo.InsertOneResult{InsertedID: worker.ID}, nil
}

func (r *fakeWorkerRepo) FindWorkerByChatID(_ context.Context, chatID int64) (*models.Worker, error) {
	return r.workers[chatID], nil
}

func (r *fakeWorkerRepo) FindWorkerByEmail(_ context.Context, email string) (*models.Worker, error) {
	for _, w := range r.workers {
		if w.Email == email {
			return w, nil
		}
	}
	return nil, nil
}

func (r *fakeWorkerRepo) FindWorkerByID(_ context.Context, id primitive.ObjectID) (*models.Worker, error) {
	for _, w := range r.workers {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (r *fakeWorkerRepo) GetAllWorkers(_ context.Context) ([]models.Worker, error) {
	var out []models.Worker
	for _, w := range r.workers {
		if w.Role == models.RoleWorker {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWorkerRepo) DeleteWorkerByChatID(_ context.Context, chatID int64) (*mongo.DeleteResult, error) {
	if _, exists := r.workers[chatID]; !exists {
		return &mongo.DeleteResult{}, nil
	}
	delete(r.workers, chatID)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (r *fakeWorkerRepo) UpdateWorkerPassword(_ context.Context, id primitive.ObjectID, hashed string) error {
	for _, w := range r.workers {
		if w.ID == id {
			w.Password = hashed
		}
	}
	return nil
}

type fakeAttendanceRepo struct {
	records map[string]*models.Attendance // keyed by workerID+date
	tokens  map[string]*models.TokenUse
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		records: make(map[string]*models.Attendance),
		tokens:  make(map[string]*models.TokenUse),
	}
}

func recordKey(workerID primitive.ObjectID, date string) string {
	return workerID.Hex() + "|" + date
}

func (r *fakeAttendanceRepo) IsTokenUsed(_ context.Context, tok string) (bool, error) {
	_, used := r.tokens[tok]
	return used, nil
}

func (r *fakeAttendanceRepo) ConsumeToken(_ context.Context, use *models.TokenUse) error {
	if _, used := r.tokens[use.Token]; used {
		return models.ErrTokenAlreadyUsed
	}
	use.UsedAt = time.Now()
	r.tokens[use.Token] = use
	return nil
}

func (r *fakeAttendanceRepo) FindAttendanceByWorkerAndDate(_ context.Context, workerID primitive.ObjectID, date string) (*models.Attendance, error) {
	return r.records[recordKey(workerID, date)], nil
}

func (r *fakeAttendanceRepo) CreateAttendance(_ context.Context, attendance *models.Attendance) (*mongo.InsertOneResult, error) {
	attendance.ID = primitive.NewObjectID()
	r.records[recordKey(attendance.WorkerID, attendance.Date)] = attendance
	return &mongo.InsertOneResult{InsertedID: attendance.ID}, nil
}

func (r *fakeAttendanceRepo) SetCheckIn(_ context.Context, attendanceID primitive.ObjectID, checkIn string) error {
	for _, rec := range r.records {
		if rec.ID == attendanceID {
			rec.CheckIn = checkIn
		}
	}
	return nil
}

func (r *fakeAttendanceRepo) SetCheckOut(_ context.Context, attendanceID primitive.ObjectID, checkOut string) error {
	for _, rec := range r.records {
		if rec.ID == attendanceID {
			rec.CheckOut = checkOut
		}
	}
	return nil
}

func (r *fakeAttendanceRepo) FindAttendanceByChatID(_ context.Context, chatID int64) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, rec := range r.records {
		if rec.ChatID == chatID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) GetAttendanceForReport(_ context.Context) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (r *fakeAttendanceRepo) PurgeAttendanceData(_ context.Context) error {
	r.records = make(map[string]*models.Attendance)
	r.tokens = make(map[string]*models.TokenUse)
	return nil
}

// ---- Test harness ----

type scanFixture struct {
	app            *fiber.App
	codec          *token.Codec
	workerRepo     *fakeWorkerRepo
	attendanceRepo *fakeAttendanceRepo
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()

	workerRepo := newFakeWorkerRepo(&models.Worker{
		ChatID: 555,
		Name:   "Test Worker",
		Role:   models.RoleWorker,
	})
	attendanceRepo := newFakeAttendanceRepo()
	codec := token.NewCodec("test-secret")

	h := NewAttendanceHandler(workerRepo, attendanceRepo, codec, "https://t.me/test_bot?start=")

	app := fiber.New()
	app.Post("/scan", h.Scan)
	app.Get("/generate-qr", h.GenerateQRCode)

	return &scanFixture{app: app, codec: codec, workerRepo: workerRepo, attendanceRepo: attendanceRepo}
}

func (f *scanFixture) scan(t *testing.T, tok string, chatID int64) (int, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(models.ScanPayload{Token: tok, ChatID: chatID})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/scan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return resp.StatusCode, decoded
}

// ---- Tests ----

func TestScanUnknownWorker(t *testing.T) {
	f := newScanFixture(t)

	status, body := f.scan(t, f.codec.Issue(token.ActionCheckIn), 999)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, models.ErrUnknownWorker.Error(), body["error"])
}

func TestScanMalformedToken(t *testing.T) {
	f := newScanFixture(t)

	status, body := f.scan(t, "definitely-not-a-token", 555)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, models.ErrInvalidToken.Error(), body["error"])
}

func TestScanCheckOutBeforeCheckIn(t *testing.T) {
	f := newScanFixture(t)

	tok := f.codec.Issue(token.ActionCheckOut)
	status, body := f.scan(t, tok, 555)

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, models.ErrNotCheckedIn.Error(), body["error"])

	// A failed transition must leave the token unconsumed.
	used, _ := f.attendanceRepo.IsTokenUsed(context.Background(), tok)
	assert.False(t, used)
}

func TestScanFullDayFlow(t *testing.T) {
	f := newScanFixture(t)

	// Check in.
	inTok := f.codec.Issue(token.ActionCheckIn)
	status, body := f.scan(t, inTok, 555)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "in", body["action"])
	assert.Equal(t, "Test Worker", body["worker"])
	assert.NotEmpty(t, body["admin_note"])

	used, _ := f.attendanceRepo.IsTokenUsed(context.Background(), inTok)
	assert.True(t, used)

	// Second check-in the same day is rejected.
	status, body = f.scan(t, f.codec.Issue(token.ActionCheckIn), 555)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, models.ErrAlreadyCheckedIn.Error(), body["error"])

	// Check out.
	status, body = f.scan(t, f.codec.Issue(token.ActionCheckOut), 555)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "out", body["action"])

	// Second check-out the same day is rejected.
	status, body = f.scan(t, f.codec.Issue(token.ActionCheckOut), 555)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, models.ErrAlreadyCheckedOut.Error(), body["error"])
}

func TestScanTokenIsSingleUse(t *testing.T) {
	f := newScanFixture(t)

	// Two workers, one token: the second scan must be rejected even though
	// that worker has not checked in yet.
	f.workerRepo.CreateWorker(context.Background(), &models.Worker{
		ChatID: 556,
		Name:   "Second Worker",
		Role:   models.RoleWorker,
	})

	tok := f.codec.Issue(token.ActionCheckIn)

	status, _ := f.scan(t, tok, 555)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := f.scan(t, tok, 556)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, models.ErrTokenAlreadyUsed.Error(), body["error"])
}

func TestScanFillsEmptyCheckIn(t *testing.T) {
	f := newScanFixture(t)

	worker, err := f.workerRepo.FindWorkerByChatID(context.Background(), 555)
	require.NoError(t, err)

	// A record with no check-in should not normally exist; the tolerated
	// branch fills it rather than failing.
	today := time.Now().Format("2006-01-02")
	_, err = f.attendanceRepo.CreateAttendance(context.Background(), &models.Attendance{
		WorkerID:   worker.ID,
		ChatID:     worker.ChatID,
		WorkerName: worker.Name,
		Date:       today,
	})
	require.NoError(t, err)

	status, _ := f.scan(t, f.codec.Issue(token.ActionCheckIn), 555)
	assert.Equal(t, fiber.StatusOK, status)

	rec, err := f.attendanceRepo.FindAttendanceByWorkerAndDate(context.Background(), worker.ID, today)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.CheckIn)
}

func TestGenerateQRCode(t *testing.T) {
	f := newScanFixture(t)

	req := httptest.NewRequest("GET", "/generate-qr?action=in", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded models.QRCodeResponse
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "in", decoded.Action)
	assert.Contains(t, decoded.QRCodeImage, "data:image/png;base64,")

	action, err := f.codec.Verify(decoded.Token)
	require.NoError(t, err)
	assert.Equal(t, "in", action)
}

func TestGenerateQRCodeRejectsUnknownAction(t *testing.T) {
	f := newScanFixture(t)

	for _, action := range []string{"", "lunch"} {
		req := httptest.NewRequest("GET", fmt.Sprintf("/generate-qr?action=%s", action), nil)
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}
}
