package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance is the per-worker, per-day check-in/check-out record. CheckIn
// and CheckOut are local times of day ("15:04:05"); Date is "2006-01-02".
// The worker name is denormalized onto the record so report rows need no
// join. Invariant, enforced by a unique index: one record per (worker, date).
type Attendance struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkerID   primitive.ObjectID `json:"worker_id" bson:"worker_id"`
	ChatID     int64              `json:"chat_id" bson:"chat_id,omitempty"`
	WorkerName string             `json:"worker_name" bson:"worker_name,omitempty"`
	Date       string             `json:"date" bson:"date"`
	CheckIn    string             `json:"check_in" bson:"check_in,omitempty"`
	CheckOut   string             `json:"check_out" bson:"check_out,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

// TokenUse marks a single-use token as consumed. The unique index on Token
// makes the insert an atomic insert-if-absent, so a second consumption of
// the same token is rejected by the database even if two scans race.
type TokenUse struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Token      string             `json:"token" bson:"token"`
	Action     string             `json:"action" bson:"action,omitempty"`
	Date       string             `json:"date" bson:"date,omitempty"`
	UsedByID   int64              `json:"used_by_id" bson:"used_by_id,omitempty"`
	UsedByName string             `json:"used_by_name" bson:"used_by_name,omitempty"`
	UsedAt     time.Time          `json:"used_at" bson:"used_at,omitempty"`
}

type ScanPayload struct {
	Token  string `json:"token" validate:"required"`
	ChatID int64  `json:"chat_id" validate:"required,gt=0"`
}

type QRCodeGeneratePayload struct {
	Action string `json:"action" validate:"required,oneof=in out"`
}

type PurgePayload struct {
	Confirm bool `json:"confirm" validate:"required,eq=true"`
}
