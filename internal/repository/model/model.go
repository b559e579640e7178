package model

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"time"
)

// Lockdown is one active lockdown row. Data is an opaque blob owned by the
// lockdown mode named in Type; the engine persists and returns it without
// ever looking inside.
type Lockdown struct {
	Id          uuid.UUID `bson:"_id" ,json:"id"`
	CommunityId string    `bson:"communityId" ,json:"communityId"`
	Type        string    `bson:"type" ,json:"type"`
	Data        bson.Raw  `bson:"data" ,json:"data"`
	Reason      string    `bson:"reason" ,json:"reason"`
	CreatedAt   time.Time `bson:"createdAt" ,json:"createdAt"`
}

// LockdownSettings is the per-community configuration consumed by the
// engine. It is owned by the settings collaborator and read-only here.
type LockdownSettings struct {
	CommunityId string `bson:"_id" ,json:"communityId"`
	// MemberRoles defines which roles count as member-facing ("critical").
	// When empty, the community's default role is used instead.
	MemberRoles []string `bson:"memberRoles" ,json:"memberRoles"`
	// RequireCorrectLayout gates apply() on a passing dry-run test.
	RequireCorrectLayout bool `bson:"requireCorrectLayout" ,json:"requireCorrectLayout"`
}
