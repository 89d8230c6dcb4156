package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/repository"
)

const keywordCollectionName = "content_keyword_mappings"

type mongoKeywordMappingRepository struct {
	collection *mongo.Collection
	ids        *counters
}

func NewMongoKeywordMappingRepository(db *mongo.Database, ids *counters) repository.KeywordMappingRepository {
	return &mongoKeywordMappingRepository{collection: db.Collection(keywordCollectionName), ids: ids}
}

func (r *mongoKeywordMappingRepository) ReplaceForExercise(ctx context.Context, exerciseID int64, mappings []domain.ContentKeywordMapping) error {
	for _, m := range mappings {
		if !m.ContentType.Valid() || m.Keyword == "" {
			return repository.ErrValidation
		}
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"exerciseId": exerciseID}); err != nil {
		return err
	}
	if len(mappings) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(mappings))
	for _, m := range mappings {
		id, err := r.ids.next(ctx, keywordCollectionName)
		if err != nil {
			return err
		}
		m.ID = id
		m.ExerciseID = exerciseID
		m.CreatedAt = now
		docs = append(docs, m)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *mongoKeywordMappingRepository) ListByExercise(ctx context.Context, exerciseID int64) ([]domain.ContentKeywordMapping, error) {
	opts := options.Find().SetSort(bson.D{{Key: "relevanceScore", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"exerciseId": exerciseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []domain.ContentKeywordMapping
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
