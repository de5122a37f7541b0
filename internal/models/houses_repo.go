package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreateHouse(ctx context.Context, house *House) (*House, error) {
	col, err := mdb.GetCollection(ctx, DbName, HouseColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.InsertOne(ctx, house); err != nil {
		return nil, fmt.Errorf("error inserting house: %v", err)
	}

	return house, nil
}

func (mdb *MongodbRepo) GetHouseByID(ctx context.Context, id uuid.UUID) (*House, error) {
	col, err := mdb.GetCollection(ctx, DbName, HouseColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var house House
	err = col.FindOne(ctx, bson.M{"id": id}).Decode(&house)
	if err == mongo.ErrNoDocuments {
		return nil, ErrHouseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding house: %v", err)
	}

	return &house, nil
}

func (mdb *MongodbRepo) ListHouses(ctx context.Context, offset, limit int) ([]*House, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, HouseColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting houses: %v", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding houses: %v", err)
	}
	defer cursor.Close(ctx)

	houses, err := decodeHouses(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return houses, int(total), nil
}

func (mdb *MongodbRepo) ListHousesByHost(ctx context.Context, hostId uuid.UUID) ([]*House, error) {
	col, err := mdb.GetCollection(ctx, DbName, HouseColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{"host_id": hostId})
	if err != nil {
		return nil, fmt.Errorf("error finding host houses: %v", err)
	}
	defer cursor.Close(ctx)

	return decodeHouses(ctx, cursor)
}

func (mdb *MongodbRepo) UpdateHouse(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*House, error) {
	col, err := mdb.GetCollection(ctx, DbName, HouseColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{"updated_at": time.Now()}
	for key, value := range fields {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated House
	err = col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrHouseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating house: %v", err)
	}

	return &updated, nil
}

func decodeHouses(ctx context.Context, cursor *mongo.Cursor) ([]*House, error) {
	houses := []*House{}
	for cursor.Next(ctx) {
		var h House
		if err := cursor.Decode(&h); err != nil {
			return nil, fmt.Errorf("error decoding house: %v", err)
		}
		houses = append(houses, &h)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return houses, nil
}
