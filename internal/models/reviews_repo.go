package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreateReview(ctx context.Context, review *Review) (*Review, error) {
	if err := Validate.Struct(review); err != nil {
		return nil, fmt.Errorf("invalid review data: %w", err)
	}

	if err := review.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare review for creation: %w", err)
	}

	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.InsertOne(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to insert review into database: %w", err)
	}

	return review, nil
}

func (mdb *MongodbRepo) GetReviewsByHouse(ctx context.Context, houseId uuid.UUID) ([]*Review, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"house_id": houseId}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding reviews: %v", err)
	}
	defer cursor.Close(ctx)

	reviews := []*Review{}
	for cursor.Next(ctx) {
		var r Review
		if err := cursor.Decode(&r); err != nil {
			return nil, 0, fmt.Errorf("error decoding review: %v", err)
		}
		reviews = append(reviews, &r)
	}

	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}

	return reviews, len(reviews), nil
}
