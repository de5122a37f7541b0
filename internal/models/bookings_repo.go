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

// overlapFilter matches bookings whose inclusive [start_date, end_date]
// interval intersects [start, end]: stored.start <= end AND stored.end >= start.
// Paid and unpaid bookings both block the range.
func overlapFilter(houseID uuid.UUID, start, end time.Time) bson.M {
	return bson.M{
		"house_id":   houseID,
		"start_date": bson.M{"$lte": end},
		"end_date":   bson.M{"$gte": start},
	}
}

// ReserveIfAvailable runs the conflict check and the insert inside a single
// Mongo transaction so two concurrent reservations for overlapping dates
// cannot both pass the check. Snapshot reads alone would not serialize the
// check against a concurrent insert, so the transaction first writes the
// house document itself: two transactions updating the same document raise a
// write conflict, the loser is retried by WithTransaction, and its re-run
// count sees the winner's booking.
func (mdb *MongodbRepo) ReserveIfAvailable(ctx context.Context, booking *Booking) error {
	bookings, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	houses, err := mdb.GetCollection(ctx, DbName, HouseColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	session, err := mdb.mongodbClient.StartSession()
	if err != nil {
		return fmt.Errorf("error starting session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		stamp, err := houses.UpdateOne(sc,
			bson.M{"id": booking.HouseID},
			bson.M{"$inc": bson.M{"reserve_seq": 1}},
		)
		if err != nil {
			return nil, fmt.Errorf("error stamping house for reservation: %v", err)
		}
		if stamp.MatchedCount == 0 {
			return nil, ErrHouseNotFound
		}

		count, err := bookings.CountDocuments(sc, overlapFilter(booking.HouseID, booking.StartDate, booking.EndDate))
		if err != nil {
			return nil, fmt.Errorf("error counting overlapping bookings: %v", err)
		}
		if count > 0 {
			return nil, ErrDatesUnavailable
		}

		res, err := bookings.InsertOne(sc, booking)
		if err != nil {
			return nil, fmt.Errorf("error inserting booking: %v", err)
		}
		return res, nil
	})

	return err
}

func (mdb *MongodbRepo) CountOverlapping(ctx context.Context, houseID uuid.UUID, start, end time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	count, err := col.CountDocuments(ctx, overlapFilter(houseID, start, end))
	if err != nil {
		return 0, fmt.Errorf("error counting overlapping bookings: %v", err)
	}
	return count, nil
}

func (mdb *MongodbRepo) ListByHouseEndingAfter(ctx context.Context, houseID uuid.UUID, from time.Time) ([]*Booking, error) {
	filter := bson.M{
		"house_id": houseID,
		"end_date": bson.M{"$gte": from},
	}
	return mdb.findBookings(ctx, filter, nil)
}

func (mdb *MongodbRepo) MarkPaidBySession(ctx context.Context, sessionID string) error {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"paid":       true,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("error marking booking paid: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (mdb *MongodbRepo) DeleteUnpaidCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteMany(ctx, bson.M{
		"paid":       false,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("error deleting unpaid bookings: %v", err)
	}
	return res.DeletedCount, nil
}

func (mdb *MongodbRepo) ListPaidByUser(ctx context.Context, userID uuid.UUID, from time.Time) ([]*Booking, error) {
	filter := bson.M{
		"user_id":  userID,
		"paid":     true,
		"end_date": bson.M{"$gte": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	return mdb.findBookings(ctx, filter, opts)
}

func (mdb *MongodbRepo) ListPaidByHouses(ctx context.Context, houseIDs []uuid.UUID, from time.Time) ([]*Booking, error) {
	if len(houseIDs) == 0 {
		return []*Booking{}, nil
	}
	filter := bson.M{
		"house_id": bson.M{"$in": houseIDs},
		"paid":     true,
		"end_date": bson.M{"$gte": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	return mdb.findBookings(ctx, filter, opts)
}

func (mdb *MongodbRepo) findBookings(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Booking, error) {
	col, err := mdb.GetCollection(ctx, DbName, BookingColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var cursor *mongo.Cursor
	if opts != nil {
		cursor, err = col.Find(ctx, filter, opts)
	} else {
		cursor, err = col.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	for cursor.Next(ctx) {
		var b Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %v", err)
		}
		bookings = append(bookings, &b)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return bookings, nil
}
