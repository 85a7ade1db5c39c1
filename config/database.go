package config

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var MongoConn *mongo.Client

var DBName string = "qr-attendance-db"
var WorkerCollection string = "workers"
var AttendanceCollection string = "attendances"
var TokenUseCollection string = "token_uses"

func MongoConnect() {

	mongoURI := os.Getenv("MONGOSTRING")

	if mongoURI == "" {
		log.Fatal("MONGOSTRING is not set in env")
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to create MongoDB client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB!")
	MongoConn = client
}

// InitDatabase creates the unique indexes the attendance invariants rely on:
// one worker per chat id, one attendance record per (worker, date) and at
// most one consumption per token value. Token consumption is a plain insert
// that the token index turns into an atomic insert-if-absent.
func InitDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	workerIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "chat_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := GetCollection(WorkerCollection).Indexes().CreateOne(ctx, workerIdx); err != nil {
		log.Fatalf("Failed to create unique index on workers.chat_id: %v", err)
	}

	attendanceIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "worker_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := GetCollection(AttendanceCollection).Indexes().CreateOne(ctx, attendanceIdx); err != nil {
		log.Fatalf("Failed to create unique index on attendances (worker_id, date): %v", err)
	}

	tokenIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := GetCollection(TokenUseCollection).Indexes().CreateOne(ctx, tokenIdx); err != nil {
		log.Fatalf("Failed to create unique index on token_uses.token: %v", err)
	}

	log.Println("Database indexes ensured")
}

func GetCollection(collectionName string) *mongo.Collection {
	if MongoConn == nil {
		log.Fatal("MongoDB client is not initialized. Call MongoConnect() first")
	}
	return MongoConn.Database(DBName).Collection(collectionName)
}

func DisconnectDB() {
	if MongoConn != nil {
		if err := MongoConn.Disconnect(context.Background()); err != nil {
			log.Fatalf("Error disconnecting from MongoDB: %v", err)
		}
		log.Println("Disconnect from MongoDB")
	}
}
