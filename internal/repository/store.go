package repository

import (
	"context"
	"errors"

	"filesmanager/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no record matches the given filter.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when an insert violates a uniqueness rule.
	ErrAlreadyExists = errors.New("record already exists")
)

// UserStore defines the persistence operations for user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByCredentials matches email and password digest together, which
	// is how the credential exchange checks a login in a single lookup.
	GetUserByCredentials(ctx context.Context, email, passwordHash string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// FileStore defines the persistence operations for file and folder records.
type FileStore interface {
	CreateFile(ctx context.Context, file *models.FileNode) error
	// GetFileByID looks a node up by identifier alone; needed so public
	// content is readable by non-owners.
	GetFileByID(ctx context.Context, id primitive.ObjectID) (*models.FileNode, error)
	GetFileByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*models.FileNode, error)
	// ListFilesByParent returns the direct children of parentID owned by
	// userID in insertion order. A limit <= 0 means no limit.
	ListFilesByParent(ctx context.Context, userID, parentID primitive.ObjectID, skip, limit int64) ([]*models.FileNode, error)
	SetFilePublic(ctx context.Context, id, userID primitive.ObjectID, public bool) error
	CountFiles(ctx context.Context) (int64, error)
}

// Store aggregates all persistence operations so a single instance can be
// injected into the services.
type Store interface {
	UserStore
	FileStore
	Ping(ctx context.Context) error
}
