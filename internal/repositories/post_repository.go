package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/connectly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	UpdateText(ctx context.Context, id, text string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID, userID string) (*models.Post, bool, error)
	RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error)
	PushComment(ctx context.Context, postID string, commentID uint) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the feed ordering index.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}

func objectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// a malformed id cannot name an existing post
		return primitive.NilObjectID, models.NewNotFoundError("Post", id)
	}
	return objID, nil
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.ImageURLs == nil {
		post.ImageURLs = []string{}
	}
	if post.VideoURLs == nil {
		post.VideoURLs = []string{}
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.CommentIDs == nil {
		post.CommentIDs = []uint{}
	}
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// GetAllPosts retrieves every post, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// UpdateText replaces the post text and returns the updated document
func (r *MongoPostRepository) UpdateText(ctx context.Context, id, text string) (*models.Post, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{"text": text, "updated_at": time.Now().UTC()}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": objID}, update, id)
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return models.NewInternalError(err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// AddLike inserts userID into the like set with a single $addToSet guarded
// by $ne, so the returned flag tells whether the set actually grew.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID string) (*models.Post, bool, error) {
	objID, err := objectID(postID)
	if err != nil {
		return nil, false, err
	}
	filter := bson.M{"_id": objID, "likes": bson.M{"$ne": userID}}
	update := bson.M{"$addToSet": bson.M{"likes": userID}}
	post, err := r.findOneAndUpdate(ctx, filter, update, postID)
	if err == nil {
		return post, true, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}
	// either the post is gone or the user already likes it
	post, err = r.GetPostByID(ctx, postID)
	if err != nil {
		return nil, false, err
	}
	return post, false, nil
}

// RemoveLike pulls userID from the like set
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	objID, err := objectID(postID)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$pull": bson.M{"likes": userID}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": objID}, update, postID)
}

// PushComment prepends a comment reference so the list stays newest first
func (r *MongoPostRepository) PushComment(ctx context.Context, postID string, commentID uint) error {
	objID, err := objectID(postID)
	if err != nil {
		return err
	}
	update := bson.M{
		"$push": bson.M{"comment_ids": bson.M{"$each": bson.A{commentID}, "$position": 0}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return models.NewInternalError(err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

func (r *MongoPostRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, id string) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}
