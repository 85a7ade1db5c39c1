package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"qr-attendance-backend/config"
	"qr-attendance-backend/models"
)

// AttendanceRepository is the attendance store plus the single-use token
// ledger.
type AttendanceRepository interface {
	// --- Token ledger ---
	IsTokenUsed(ctx context.Context, token string) (bool, error)
	ConsumeToken(ctx context.Context, use *models.TokenUse) error

	// --- Attendance store ---
	FindAttendanceByWorkerAndDate(ctx context.Context, workerID primitive.ObjectID, date string) (*models.Attendance, error)
	CreateAttendance(ctx context.Context, attendance *models.Attendance) (*mongo.InsertOneResult, error)
	SetCheckIn(ctx context.Context, attendanceID primitive.ObjectID, checkIn string) error
	SetCheckOut(ctx context.Context, attendanceID primitive.ObjectID, checkOut string) error

	// --- Reporting & admin ---
	FindAttendanceByChatID(ctx context.Context, chatID int64) ([]models.Attendance, error)
	GetAttendanceForReport(ctx context.Context) ([]models.Attendance, error)
	PurgeAttendanceData(ctx context.Context) error
}

type attendanceRepository struct {
	attendanceCollection *mongo.Collection
	tokenUseCollection   *mongo.Collection
}

func NewAttendanceRepository() AttendanceRepository {
	return &attendanceRepository{
		attendanceCollection: config.GetCollection(config.AttendanceCollection),
		tokenUseCollection:   config.GetCollection(config.TokenUseCollection),
	}
}

func (r *attendanceRepository) IsTokenUsed(ctx context.Context, token string) (bool, error) {
	err := r.tokenUseCollection.FindOne(ctx, bson.M{"token": token}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up token: %w", err)
	}
	return true, nil
}

// ConsumeToken records a token as used. The unique index on token makes this
// an atomic insert-if-absent: when two scans of the same token race, exactly
// one insert succeeds and the other maps to ErrTokenAlreadyUsed.
func (r *attendanceRepository) ConsumeToken(ctx context.Context, use *models.TokenUse) error {
	use.ID = primitive.NewObjectID()
	use.UsedAt = time.Now()
	use.Date = use.UsedAt.Format("2006-01-02")

	_, err := r.tokenUseCollection.InsertOne(ctx, use)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrTokenAlreadyUsed
		}
		return fmt.Errorf("failed to record token use: %w", err)
	}
	return nil
}

func (r *attendanceRepository) FindAttendanceByWorkerAndDate(ctx context.Context, workerID primitive.ObjectID, date string) (*models.Attendance, error) {
	var attendance models.Attendance
	filter := bson.M{"worker_id": workerID, "date": date}

	err := r.attendanceCollection.FindOne(ctx, filter).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance by worker and date: %w", err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) CreateAttendance(ctx context.Context, attendance *models.Attendance) (*mongo.InsertOneResult, error) {
	attendance.ID = primitive.NewObjectID()
	attendance.CreatedAt = time.Now()
	attendance.UpdatedAt = time.Now()

	result, err := r.attendanceCollection.InsertOne(ctx, attendance)
	if err != nil {
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}
	return result, nil
}

func (r *attendanceRepository) SetCheckIn(ctx context.Context, attendanceID primitive.ObjectID, checkIn string) error {
	update := bson.M{
		"$set": bson.M{
			"check_in":   checkIn,
			"updated_at": time.Now(),
		},
	}
	_, err := r.attendanceCollection.UpdateByID(ctx, attendanceID, update)
	if err != nil {
		return fmt.Errorf("failed to set check-in: %w", err)
	}
	return nil
}

func (r *attendanceRepository) SetCheckOut(ctx context.Context, attendanceID primitive.ObjectID, checkOut string) error {
	update := bson.M{
		"$set": bson.M{
			"check_out":  checkOut,
			"updated_at": time.Now(),
		},
	}
	_, err := r.attendanceCollection.UpdateByID(ctx, attendanceID, update)
	if err != nil {
		return fmt.Errorf("failed to set check-out: %w", err)
	}
	return nil
}

func (r *attendanceRepository) FindAttendanceByChatID(ctx context.Context, chatID int64) ([]models.Attendance, error) {
	filter := bson.M{"chat_id": chatID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.attendanceCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find attendance history: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.Attendance
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode attendance history: %w", err)
	}
	return records, nil
}

// GetAttendanceForReport returns every attendance record ordered by date
// descending, then worker name ascending. The report aggregator preserves
// this ordering as-is.
func (r *attendanceRepository) GetAttendanceForReport(ctx context.Context) ([]models.Attendance, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "worker_name", Value: 1},
	})

	cursor, err := r.attendanceCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance for report: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.Attendance
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode attendance for report: %w", err)
	}
	return records, nil
}

// PurgeAttendanceData clears attendance records and token history. Worker
// rows survive a purge.
func (r *attendanceRepository) PurgeAttendanceData(ctx context.Context) error {
	if _, err := r.attendanceCollection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to purge attendance records: %w", err)
	}
	if _, err := r.tokenUseCollection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to purge token history: %w", err)
	}
	return nil
}
