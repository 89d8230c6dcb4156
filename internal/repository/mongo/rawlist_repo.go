package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heartwellness/fitness-cms/internal/repository"
)

type rawListField struct {
	kind, collection, field, label string
}

var rawListFields = []rawListField{
	{"article.keywords", articleCollectionName, "keywords", "title"},
	{"article.images", articleCollectionName, "images", "title"},
	{"exercise.generated_keywords", exerciseCollectionName, "generatedKeywords", "name"},
}

type mongoRawListRepository struct {
	db *mongo.Database
}

func NewMongoRawListRepository(db *mongo.Database) repository.RawListRepository {
	return &mongoRawListRepository{db: db}
}

// ListRaw returns each list field as stored. Non-string BSON values are reported by type name so
// the caller treats them as undecodable.
func (r *mongoRawListRepository) ListRaw(ctx context.Context) ([]repository.RawList, error) {
	var out []repository.RawList
	for _, f := range rawListFields {
		opts := options.Find().SetProjection(bson.M{f.field: 1, f.label: 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
		cursor, err := r.db.Collection(f.collection).Find(ctx, bson.M{}, opts)
		if err != nil {
			return nil, err
		}
		for cursor.Next(ctx) {
			doc := cursor.Current
			item := repository.RawList{Kind: f.kind}
			if v, ok := doc.Lookup("_id").AsInt64OK(); ok {
				item.ID = v
			}
			item.Label, _ = doc.Lookup(f.label).StringValueOK()
			val := doc.Lookup(f.field)
			if s, ok := val.StringValueOK(); ok {
				item.Raw = s
			} else if val.Type != 0 {
				item.Raw = val.Type.String()
			}
			out = append(out, item)
		}
		err = cursor.Err()
		cursor.Close(ctx)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *mongoRawListRepository) ResetRaw(ctx context.Context, item repository.RawList) error {
	for _, f := range rawListFields {
		if f.kind != item.Kind {
			continue
		}
		res, err := r.db.Collection(f.collection).UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": bson.M{f.field: "[]"}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	}
	return fmt.Errorf("%w: unknown list kind %q", repository.ErrValidation, item.Kind)
}
