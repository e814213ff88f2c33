package repository

import (
	"context"
	"errors"
	"fmt"

	"filesmanager/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the Store implementation backed by MongoDB. Users live in the
// "users" collection, file nodes in "files".
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	files  *mongo.Collection
}

// NewMongoStore connects to the given URI, verifies the connection and makes
// sure the unique email index exists.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("could not ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	users := db.Collection("users")
	files := db.Collection("files")

	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create email index: %w", err)
	}

	return &MongoStore{client: client, users: users, files: files}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// --- UserStore ---

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) GetUserByCredentials(ctx context.Context, email, passwordHash string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email, "password": passwordHash})
}

func (s *MongoStore) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	user := &models.User{}
	if err := s.users.FindOne(ctx, filter).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return user, nil
}

// --- FileStore ---

func (s *MongoStore) CreateFile(ctx context.Context, file *models.FileNode) error {
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	if _, err := s.files.InsertOne(ctx, file); err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}
	return nil
}

func (s *MongoStore) GetFileByID(ctx context.Context, id primitive.ObjectID) (*models.FileNode, error) {
	return s.findFile(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetFileByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*models.FileNode, error) {
	return s.findFile(ctx, bson.M{"_id": id, "userId": userID})
}

func (s *MongoStore) ListFilesByParent(ctx context.Context, userID, parentID primitive.ObjectID, skip, limit int64) ([]*models.FileNode, error) {
	opts := options.Find().SetSkip(skip)
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := s.files.Find(ctx, bson.M{"userId": userID, "parentId": parentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer cursor.Close(ctx)

	nodes := []*models.FileNode{}
	if err := cursor.All(ctx, &nodes); err != nil {
		return nil, fmt.Errorf("decoding files: %w", err)
	}
	return nodes, nil
}

func (s *MongoStore) SetFilePublic(ctx context.Context, id, userID primitive.ObjectID, public bool) error {
	res, err := s.files.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isPublic": public}},
	)
	if err != nil {
		return fmt.Errorf("updating file visibility: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CountFiles(ctx context.Context) (int64, error) {
	n, err := s.files.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("counting files: %w", err)
	}
	return n, nil
}

func (s *MongoStore) findFile(ctx context.Context, filter bson.M) (*models.FileNode, error) {
	file := &models.FileNode{}
	if err := s.files.FindOne(ctx, filter).Decode(file); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding file: %w", err)
	}
	return file, nil
}
