package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"filesmanager/internal/models"
	"filesmanager/internal/queue"
	"filesmanager/internal/repository"
	"filesmanager/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the fixed number of nodes returned per listing page.
const PageSize = 20

// CreateFileInput carries the fields of an upload request. Data holds the
// decoded content bytes and must be set for non-folder types.
type CreateFileInput struct {
	Name     string
	Type     models.NodeType
	ParentID primitive.ObjectID
	IsPublic bool
	Data     []byte
}

// FileService owns the file/folder hierarchy: creation, lookup, listing,
// visibility transitions and content reads.
type FileService struct {
	store repository.FileStore
	blobs storage.BlobStore
	queue queue.Queue
	log   *slog.Logger
}

// NewFileService creates a file service.
func NewFileService(store repository.FileStore, blobs storage.BlobStore, q queue.Queue, log *slog.Logger) *FileService {
	return &FileService{store: store, blobs: blobs, queue: q, log: log}
}

// Create validates the input, writes content to the blob store and inserts
// the metadata record. The content write happens first so a committed node
// never points at a missing blob; a failed write aborts the whole operation.
// Image uploads enqueue one thumbnail job after the insert.
func (s *FileService) Create(ctx context.Context, ownerID primitive.ObjectID, in CreateFileInput) (*models.FileNode, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}
	if in.Type != models.TypeFolder && len(in.Data) == 0 {
		return nil, ErrMissingData
	}

	if !in.ParentID.IsZero() {
		parent, err := s.store.GetFileByIDAndUser(ctx, in.ParentID, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("looking up parent: %w", err)
		}
		if !parent.IsFolder() {
			return nil, ErrParentNotFolder
		}
	}

	node := &models.FileNode{
		UserID:    ownerID,
		Name:      in.Name,
		Type:      in.Type,
		IsPublic:  in.IsPublic,
		ParentID:  in.ParentID,
		CreatedAt: time.Now(),
	}

	if in.Type != models.TypeFolder {
		path := filepath.Join(s.blobs.Root(), uuid.New().String())
		if err := s.blobs.Write(path, in.Data); err != nil {
			return nil, fmt.Errorf("writing content: %w", err)
		}
		node.LocalPath = path
	}

	if err := s.store.CreateFile(ctx, node); err != nil {
		return nil, fmt.Errorf("creating file record: %w", err)
	}

	if node.Type == models.TypeImage {
		payload, _ := json.Marshal(queue.ThumbnailPayload{
			UserID:    ownerID.Hex(),
			FileID:    node.ID.Hex(),
			LocalPath: node.LocalPath,
		})
		if err := s.queue.Enqueue(ctx, queue.TypeThumbnails, payload); err != nil {
			// Thumbnails are best effort; the upload stays committed.
			s.log.Warn("could not enqueue thumbnail job", "fileId", node.ID.Hex(), "error", err)
		}
	}

	return node, nil
}

// Get returns the node with the given id if it belongs to ownerID. For
// folders the direct children are returned as well, one level deep.
func (s *FileService) Get(ctx context.Context, ownerID, id primitive.ObjectID) (*models.FileNode, []*models.FileNode, error) {
	node, err := s.store.GetFileByIDAndUser(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("finding file: %w", err)
	}

	if !node.IsFolder() {
		return node, nil, nil
	}

	children, err := s.store.ListFilesByParent(ctx, ownerID, node.ID, 0, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("listing folder contents: %w", err)
	}
	return node, children, nil
}

// List returns one page of direct children at parentID. Pages are zero-based
// and negative values are treated as the first page.
func (s *FileService) List(ctx context.Context, ownerID, parentID primitive.ObjectID, page int) ([]*models.FileNode, error) {
	if page < 0 {
		page = 0
	}
	nodes, err := s.store.ListFilesByParent(ctx, ownerID, parentID, int64(page)*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return nodes, nil
}

// SetVisibility flips the public flag of a node. Requesting the state the
// node is already in fails with ErrAlreadyInState rather than no-op.
func (s *FileService) SetVisibility(ctx context.Context, ownerID, id primitive.ObjectID, public bool) (*models.FileNode, error) {
	node, err := s.store.GetFileByIDAndUser(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding file: %w", err)
	}
	if node.IsPublic == public {
		return nil, ErrAlreadyInState
	}

	if err := s.store.SetFilePublic(ctx, id, ownerID, public); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating visibility: %w", err)
	}

	updated, err := s.store.GetFileByIDAndUser(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("reloading file: %w", err)
	}
	return updated, nil
}

// ReadContent opens the node's content, or a scaled derivative when size is
// given, and returns a stream plus the content type derived from the node
// name. The lookup is not owner-scoped: public nodes are readable by anyone,
// including anonymous requesters (zero requesterID). Private nodes read by a
// non-owner fail exactly like absent ones.
func (s *FileService) ReadContent(ctx context.Context, requesterID, id primitive.ObjectID, size string) (io.ReadCloser, string, error) {
	node, err := s.store.GetFileByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("finding file: %w", err)
	}

	if !node.IsPublic && node.UserID != requesterID {
		return nil, "", ErrNotFound
	}
	if node.IsFolder() {
		return nil, "", ErrIsFolder
	}

	path := node.LocalPath
	if size != "" {
		path = fmt.Sprintf("%s_%s", path, size)
	}
	if !s.blobs.Exists(path) {
		return nil, "", ErrNotFound
	}

	stream, err := s.blobs.ReadStream(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening content: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(node.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return stream, contentType, nil
}
