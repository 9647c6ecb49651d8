package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"advisor/internal/model"
)

type OutlineRepo interface {
	Create(ctx context.Context, outline *model.Outline) error
	GetByID(ctx context.Context, id string) (*model.Outline, error)
	List(ctx context.Context) ([]*model.Outline, error)
	Update(ctx context.Context, outline *model.Outline) error
	Delete(ctx context.Context, id string) error
}

type outlineRepo struct {
	collection *mongo.Collection
}

func NewOutlineRepo(client *mongo.Client, dbName string) OutlineRepo {
	db := client.Database(dbName)
	return &outlineRepo{
		collection: db.Collection("outlines"),
	}
}

func (r *outlineRepo) Create(ctx context.Context, outline *model.Outline) error {
	if outline.CreatedAt.IsZero() {
		outline.CreatedAt = time.Now()
	}
	outline.UpdatedAt = outline.CreatedAt

	_, err := r.collection.InsertOne(ctx, outline)
	return err
}

func (r *outlineRepo) GetByID(ctx context.Context, id string) (*model.Outline, error) {
	var outline model.Outline
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&outline)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Outline not found
		}
		return nil, err
	}

	return &outline, nil
}

func (r *outlineRepo) List(ctx context.Context) ([]*model.Outline, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var outlines []*model.Outline
	if err = cursor.All(ctx, &outlines); err != nil {
		return nil, err
	}

	return outlines, nil
}

func (r *outlineRepo) Update(ctx context.Context, outline *model.Outline) error {
	outline.UpdatedAt = time.Now()

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": outline.ID}, outline)
	return err
}

func (r *outlineRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
