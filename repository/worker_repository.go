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

// WorkerRepository is the worker registry collaborator. Workers are uniquely
// keyed by their chat id; registering a duplicate is rejected, not
// overwritten.
type WorkerRepository interface {
	CreateWorker(ctx context.Context, worker *models.Worker) (*mongo.InsertOneResult, error)
	FindWorkerByChatID(ctx context.Context, chatID int64) (*models.Worker, error)
	FindWorkerByEmail(ctx context.Context, email string) (*models.Worker, error)
	FindWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error)
	GetAllWorkers(ctx context.Context) ([]models.Worker, error)
	DeleteWorkerByChatID(ctx context.Context, chatID int64) (*mongo.DeleteResult, error)
	UpdateWorkerPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
}

type workerRepository struct {
	collection *mongo.Collection
}

func NewWorkerRepository() WorkerRepository {
	return &workerRepository{
		collection: config.GetCollection(config.WorkerCollection),
	}
}

func (r *workerRepository) CreateWorker(ctx context.Context, worker *models.Worker) (*mongo.InsertOneResult, error) {
	worker.ID = primitive.NewObjectID()
	worker.CreatedAt = time.Now()
	worker.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, worker)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}
	return result, nil
}

func (r *workerRepository) FindWorkerByChatID(ctx context.Context, chatID int64) (*models.Worker, error) {
	var worker models.Worker
	filter := bson.M{"chat_id": chatID}

	err := r.collection.FindOne(ctx, filter).Decode(&worker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find worker by chat id: %w", err)
	}
	return &worker, nil
}

func (r *workerRepository) FindWorkerByEmail(ctx context.Context, email string) (*models.Worker, error) {
	var worker models.Worker
	filter := bson.M{"email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&worker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find worker by email: %w", err)
	}
	return &worker, nil
}

func (r *workerRepository) FindWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error) {
	var worker models.Worker
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&worker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find worker by ID: %w", err)
	}
	return &worker, nil
}

// GetAllWorkers lists non-admin workers ordered by display name.
func (r *workerRepository) GetAllWorkers(ctx context.Context) ([]models.Worker, error) {
	filter := bson.M{"role": models.RoleWorker}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer cursor.Close(ctx)

	var workers []models.Worker
	if err = cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("failed to decode workers: %w", err)
	}
	return workers, nil
}

func (r *workerRepository) DeleteWorkerByChatID(ctx context.Context, chatID int64) (*mongo.DeleteResult, error) {
	filter := bson.M{"chat_id": chatID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to delete worker: %w", err)
	}
	return result, nil
}

func (r *workerRepository) UpdateWorkerPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	update := bson.M{
		"$set": bson.M{
			"password":   hashedPassword,
			"updated_at": time.Now(),
		},
	}

	_, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update worker password: %w", err)
	}
	return nil
}
