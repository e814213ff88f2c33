package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NodeType is the closed set of kinds a FileNode can have. An image behaves
// like a file except that it is eligible for thumbnail generation.
type NodeType string

const (
	TypeFolder NodeType = "folder"
	TypeFile   NodeType = "file"
	TypeImage  NodeType = "image"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// User represents a registered account. The password is stored only as a
// one-way digest and is never serialized in responses.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// FileNode represents a folder or a content-bearing file in the hierarchy.
// ParentID is the zero ObjectID for top-level nodes. LocalPath points at the
// stored content on the blob store and is empty for folders.
type FileNode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Type      NodeType           `bson:"type" json:"type"`
	IsPublic  bool               `bson:"isPublic" json:"isPublic"`
	ParentID  primitive.ObjectID `bson:"parentId" json:"parentId"`
	LocalPath string             `bson:"localPath,omitempty" json:"localPath,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsFolder reports whether the node is a directory entry.
func (f *FileNode) IsFolder() bool {
	return f.Type == TypeFolder
}
