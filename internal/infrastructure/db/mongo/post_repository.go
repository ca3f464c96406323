package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialblog/blogging-system/internal/core/domain"
)

const postsCollection = "posts"

type MongoPostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{coll: db.Collection(postsCollection)}
}

type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Summary   string             `bson:"summary"`
	Content   string             `bson:"content"`
	Image     string             `bson:"image,omitempty"`
	Tags      []string           `bson:"tags,omitempty"`
	AuthorID  string             `bson:"author_id"`
	Likes     int64              `bson:"likes"`
	LikedBy   []string           `bson:"liked_by,omitempty"`
	Views     int64              `bson:"views"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (r *MongoPostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	doc := mongoPost{
		Title:     post.Title,
		Summary:   post.Summary,
		Content:   post.Content,
		Image:     post.Image,
		Tags:      post.Tags,
		AuthorID:  post.AuthorID,
		CreatedAt: post.CreatedAt.Unix(),
		UpdatedAt: post.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *post
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	var mp mongoPost
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *MongoPostRepository) List(ctx context.Context, page, limit int) ([]domain.Post, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]domain.Post, 0, limit)
	for cur.Next(ctx) {
		var mp mongoPost
		if err := cur.Decode(&mp); err != nil {
			return nil, 0, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, *mp.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

func (r *MongoPostRepository) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":      post.Title,
		"summary":    post.Summary,
		"content":    post.Content,
		"image":      post.Image,
		"tags":       post.Tags,
		"updated_at": post.UpdatedAt.Unix(),
	}})
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPostNotFound
	}
	return r.FindByID(ctx, post.ID)
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) IncrementViews(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// AddLike applies the like atomically and only once per user: the filter
// excludes documents already containing the user id, so a repeat like
// matches nothing.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, domain.ErrPostNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "liked_by": bson.M{"$ne": userID}},
		bson.M{"$inc": bson.M{"likes": 1}, "$addToSet": bson.M{"liked_by": userID}},
	)
	if err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}
	if res.ModifiedCount > 0 {
		return true, nil
	}

	// No modification: either the post is gone or the user already liked it.
	if _, err := r.FindByID(ctx, postID); err != nil {
		return false, err
	}
	return false, nil
}

func (mp *mongoPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:        mp.ID.Hex(),
		Title:     mp.Title,
		Summary:   mp.Summary,
		Content:   mp.Content,
		Image:     mp.Image,
		Tags:      mp.Tags,
		AuthorID:  mp.AuthorID,
		Likes:     mp.Likes,
		LikedBy:   mp.LikedBy,
		Views:     mp.Views,
		CreatedAt: unixToTime(mp.CreatedAt),
		UpdatedAt: unixToTime(mp.UpdatedAt),
	}
}
