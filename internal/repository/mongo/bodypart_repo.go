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

const bodyPartCollectionName = "body_parts"

// mongoBodyPartRepository implements repository.BodyPartRepository
type mongoBodyPartRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	ids        *counters
}

// NewMongoBodyPartRepository creates a new BodyPart repository backed by MongoDB.
func NewMongoBodyPartRepository(db *mongo.Database, ids *counters) repository.BodyPartRepository {
	return &mongoBodyPartRepository{
		db:         db,
		collection: db.Collection(bodyPartCollectionName),
		ids:        ids,
	}
}

// Create inserts a new body part, assigning a sequential id and a unique slug.
func (r *mongoBodyPartRepository) Create(ctx context.Context, bodyPart *domain.BodyPart) error {
	if bodyPart.Name == "" {
		return repository.ErrValidation
	}
	id, err := r.ids.next(ctx, bodyPartCollectionName)
	if err != nil {
		return err
	}
	bodyPart.ID = id
	now := time.Now().UTC()
	bodyPart.CreatedAt = now
	bodyPart.UpdatedAt = now

	return writeSlugged(ctx, r.collection, id, &bodyPart.Slug, bodyPart.Name, "body-part", func() error {
		_, err := r.collection.InsertOne(ctx, bodyPart)
		return err
	})
}

func (r *mongoBodyPartRepository) findOne(ctx context.Context, filter bson.M) (*domain.BodyPart, error) {
	var bp domain.BodyPart
	if err := r.collection.FindOne(ctx, filter).Decode(&bp); err != nil {
		return nil, notFound(err)
	}
	return &bp, nil
}

func (r *mongoBodyPartRepository) GetByID(ctx context.Context, id int64) (*domain.BodyPart, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoBodyPartRepository) GetBySlug(ctx context.Context, slug string) (*domain.BodyPart, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoBodyPartRepository) GetByName(ctx context.Context, name string) (*domain.BodyPart, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

// List returns all body parts sorted by name.
func (r *mongoBodyPartRepository) List(ctx context.Context) ([]domain.BodyPart, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []domain.BodyPart
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces name, slug and description; UpdatedAt is refreshed.
func (r *mongoBodyPartRepository) Update(ctx context.Context, bodyPart *domain.BodyPart) error {
	if bodyPart.ID == 0 || bodyPart.Name == "" {
		return repository.ErrValidation
	}
	bodyPart.UpdatedAt = time.Now().UTC()

	return writeSlugged(ctx, r.collection, bodyPart.ID, &bodyPart.Slug, bodyPart.Name, "body-part", func() error {
		update := bson.M{"$set": bson.M{
			"name":        bodyPart.Name,
			"slug":        bodyPart.Slug,
			"description": bodyPart.Description,
			"updatedAt":   bodyPart.UpdatedAt,
		}}
		result, err := r.collection.UpdateOne(ctx, bson.M{"_id": bodyPart.ID}, update)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// Delete removes mappings, then exercises, then the body part. MongoDB standalone servers have
// no transactions, so the steps run in dependency order and a retry finishes an interrupted delete.
func (r *mongoBodyPartRepository) Delete(ctx context.Context, id int64) error {
	exercises := r.db.Collection(exerciseCollectionName)

	var exerciseIDs []int64
	cursor, err := exercises.Find(ctx, bson.M{"bodyPartId": id}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return err
	}
	var docs []struct {
		ID int64 `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return err
	}
	for _, d := range docs {
		exerciseIDs = append(exerciseIDs, d.ID)
	}

	if len(exerciseIDs) > 0 {
		if _, err := r.db.Collection(keywordCollectionName).DeleteMany(ctx, bson.M{"exerciseId": bson.M{"$in": exerciseIDs}}); err != nil {
			return err
		}
		if _, err := exercises.DeleteMany(ctx, bson.M{"bodyPartId": id}); err != nil {
			return err
		}
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
