package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleWorker = "worker"
	RoleAdmin  = "admin"
)

// Worker is one person on the roster. Workers interact only by scanning QR
// tokens relayed through the chat transport and are identified by the numeric
// chat id the transport hands us. Email and Password are set only for the
// privileged admin account.
type Worker struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ChatID    int64              `json:"chat_id" bson:"chat_id"`
	Name      string             `json:"name" bson:"name,omitempty"`
	Role      string             `json:"role" bson:"role,omitempty"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Password  string             `json:"-" bson:"password,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

type WorkerRegisterPayload struct {
	Name   string `json:"name" validate:"required,min=3,max=100"`
	ChatID int64  `json:"chat_id" validate:"required,gt=0"`
}

type AdminLoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordPayload struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=50,hasuppercase"`
}
