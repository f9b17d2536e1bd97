package model

import "time"

// Agent is an AI agent configuration owned by a user.
type Agent struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	Type      string         `json:"type" bson:"type"`
	Owner     string         `json:"owner" bson:"owner"`
	Config    map[string]any `json:"config" bson:"config"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}
