package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heartwellness/fitness-cms/internal/repository"
	"heartwellness/fitness-cms/internal/slug"
)

const counterCollectionName = "counters"

// maxInsertAttempts bounds retries when a concurrent writer takes a derived slug first.
const maxInsertAttempts = 5

// counters hands out sequential int64 ids per collection, matching the SQL store's ids.
type counters struct {
	collection *mongo.Collection
}

func newCounters(db *mongo.Database) *counters {
	return &counters{collection: db.Collection(counterCollectionName)}
}

func (c *counters) next(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := c.collection.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func keysOf(keys ...string) bson.D {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: 1})
	}
	return d
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

// containsFilter builds a case-insensitive substring match on s.
func containsFilter(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

// orderingSort translates an API ordering ("-name", "created_at", ...) to a sort document.
func orderingSort(ordering string, fallback bson.D) bson.D {
	if !repository.AllowedOrderings[ordering] {
		return fallback
	}
	dir := 1
	if strings.HasPrefix(ordering, "-") {
		dir = -1
		ordering = ordering[1:]
	}
	field := map[string]string{
		"name":       "name",
		"created_at": "createdAt",
		"updated_at": "updatedAt",
		"id":         "_id",
	}[ordering]
	if field == "_id" {
		return bson.D{{Key: "_id", Value: dir}}
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}
}

func slugTaken(ctx context.Context, coll *mongo.Collection, selfID int64, candidate string) (bool, error) {
	n, err := coll.CountDocuments(ctx, bson.M{"slug": candidate, "_id": bson.M{"$ne": selfID}})
	return n > 0, err
}

// writeSlugged assigns *slugField and runs write. An explicit slug must be free; an empty one is
// derived from source, retrying with the next suffix when the unique index rejects the insert.
func writeSlugged(ctx context.Context, coll *mongo.Collection, selfID int64, slugField *string, source, fallback string, write func() error) error {
	if *slugField != "" {
		taken, err := slugTaken(ctx, coll, selfID, *slugField)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrDuplicateSlug
		}
		if err := write(); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return repository.ErrDuplicateSlug
			}
			return err
		}
		return nil
	}

	exists := func(ctx context.Context, candidate string) (bool, error) {
		return slugTaken(ctx, coll, selfID, candidate)
	}
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		candidate, err := slug.Unique(ctx, slug.Make(source), fallback, exists)
		if err != nil {
			return err
		}
		*slugField = candidate
		err = write()
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			return err
		}
	}
	*slugField = ""
	return repository.ErrDuplicateSlug
}
