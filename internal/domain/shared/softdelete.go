package shared

import (
	"time"

	"github.com/google/uuid"
)

// SoftDeletable is implemented by entities that are logically deleted
// through the audit ledger instead of being removed.
type SoftDeletable interface {
	IsDeleted() bool
	GetDeletedAt() *time.Time
}

// SoftDelete carries the logical deletion state of an entity.
type SoftDelete struct {
	Deleted   bool
	DeletedAt *time.Time
}

// IsDeleted reports whether the entity has been soft deleted
func (s *SoftDelete) IsDeleted() bool {
	return s.Deleted
}

// GetDeletedAt returns the deletion timestamp, nil while active
func (s *SoftDelete) GetDeletedAt() *time.Time {
	return s.DeletedAt
}

// MarkDeleted flags the entity as deleted at the given time.
// Returns false when it was already deleted.
func (s *SoftDelete) MarkDeleted(at time.Time) bool {
	if s.Deleted {
		return false
	}
	s.Deleted = true
	s.DeletedAt = &at
	return true
}

// Actor identifies who performed an operation. A nil UserID means system.
type Actor struct {
	UserID *uuid.UUID
}

// SystemActor returns the actor used for unattended operations
func SystemActor() Actor {
	return Actor{}
}

// UserActor returns an actor for the given user
func UserActor(userID uuid.UUID) Actor {
	return Actor{UserID: &userID}
}
