package repository

import (
	"context"
	"sync"

	"filesmanager/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryStore is a Store implementation used in tests. Files are kept in a
// slice so listings preserve insertion order like a real collection scan.
type InMemoryStore struct {
	mu           sync.RWMutex
	usersByID    map[primitive.ObjectID]models.User
	usersByEmail map[string]primitive.ObjectID
	files        []models.FileNode
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		usersByID:    make(map[primitive.ObjectID]models.User),
		usersByEmail: make(map[string]primitive.ObjectID),
	}
}

func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}

// --- UserStore ---

func (s *InMemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return ErrAlreadyExists
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.usersByID[user.ID] = *user
	s.usersByEmail[user.Email] = user.ID
	return nil
}

func (s *InMemoryStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *InMemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := s.usersByID[id]
	return &user, nil
}

func (s *InMemoryStore) GetUserByCredentials(ctx context.Context, email, passwordHash string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.PasswordHash != passwordHash {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *InMemoryStore) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.usersByID)), nil
}

// --- FileStore ---

func (s *InMemoryStore) CreateFile(ctx context.Context, file *models.FileNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	s.files = append(s.files, *file)
	return nil
}

func (s *InMemoryStore) GetFileByID(ctx context.Context, id primitive.ObjectID) (*models.FileNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.files {
		if s.files[i].ID == id {
			f := s.files[i]
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) GetFileByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*models.FileNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.files {
		if s.files[i].ID == id && s.files[i].UserID == userID {
			f := s.files[i]
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ListFilesByParent(ctx context.Context, userID, parentID primitive.ObjectID, skip, limit int64) ([]*models.FileNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*models.FileNode{}
	var seen int64
	for i := range s.files {
		if s.files[i].UserID != userID || s.files[i].ParentID != parentID {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		f := s.files[i]
		matched = append(matched, &f)
		if limit > 0 && int64(len(matched)) == limit {
			break
		}
	}
	return matched, nil
}

func (s *InMemoryStore) SetFilePublic(ctx context.Context, id, userID primitive.ObjectID, public bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.files {
		if s.files[i].ID == id && s.files[i].UserID == userID {
			s.files[i].IsPublic = public
			return nil
		}
	}
	return ErrNotFound
}

func (s *InMemoryStore) CountFiles(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.files)), nil
}
