package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heartwellness/fitness-cms/internal/domain"
	"heartwellness/fitness-cms/internal/repository"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
	bodyParts  *mongo.Collection
	ids        *counters
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database, ids *counters) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
		bodyParts:  db.Collection(bodyPartCollectionName),
		ids:        ids,
	}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.Name == "" || exercise.BodyPartID == 0 {
		return repository.ErrValidation
	}
	id, err := r.ids.next(ctx, exerciseCollectionName)
	if err != nil {
		return err
	}
	exercise.ID = id
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	if exercise.GeneratedKeywords == nil {
		exercise.GeneratedKeywords = domain.StringList{}
	}

	return writeSlugged(ctx, r.collection, id, &exercise.Slug, exercise.Name, "exercise", func() error {
		_, err := r.collection.InsertOne(ctx, exercise)
		return err
	})
}

func (r *mongoExerciseRepository) findOne(ctx context.Context, filter bson.M) (*domain.Exercise, error) {
	var ex domain.Exercise
	if err := r.collection.FindOne(ctx, filter).Decode(&ex); err != nil {
		return nil, notFound(err)
	}
	list := []domain.Exercise{ex}
	if err := r.attachBodyParts(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetBySlugs resolves /exercises/<body-part>/<exercise> style lookups.
func (r *mongoExerciseRepository) GetBySlugs(ctx context.Context, bodyPartSlug, exerciseSlug string) (*domain.Exercise, error) {
	var bp domain.BodyPart
	if err := r.bodyParts.FindOne(ctx, bson.M{"slug": bodyPartSlug}).Decode(&bp); err != nil {
		return nil, notFound(err)
	}
	return r.findOne(ctx, bson.M{"slug": exerciseSlug, "bodyPartId": bp.ID})
}

func (r *mongoExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

// List filters, sorts and pages exercises. Search matches name, description or body-part name.
func (r *mongoExerciseRepository) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, int64, error) {
	and := bson.A{}
	if filter.BodyPartID != 0 {
		and = append(and, bson.M{"bodyPartId": filter.BodyPartID})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		or := bson.A{
			bson.M{"name": containsFilter(s)},
			bson.M{"description": containsFilter(s)},
		}
		partIDs, err := r.bodyPartIDsMatching(ctx, s)
		if err != nil {
			return nil, 0, err
		}
		if len(partIDs) > 0 {
			or = append(or, bson.M{"bodyPartId": bson.M{"$in": partIDs}})
		}
		and = append(and, bson.M{"$or": or})
	}
	if filter.MissingDescription {
		and = append(and, bson.M{"$or": bson.A{bson.M{"description": ""}, bson.M{"description": bson.M{"$exists": false}}}})
	}
	if filter.MissingVideo {
		and = append(and, bson.M{"$or": bson.A{bson.M{"youtubeUrl": ""}, bson.M{"youtubeUrl": bson.M{"$exists": false}}}})
	}
	query := bson.M{}
	if len(and) > 0 {
		query["$and"] = and
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(orderingSort(filter.Ordering, bson.D{{Key: "bodyPartId", Value: 1}, {Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var out []domain.Exercise
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	if err := r.attachBodyParts(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *mongoExerciseRepository) bodyPartIDsMatching(ctx context.Context, s string) ([]int64, error) {
	cursor, err := r.bodyParts.Find(ctx, bson.M{"name": containsFilter(s)}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID int64 `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// attachBodyParts fills Exercise.BodyPart with one query for the whole page.
func (r *mongoExerciseRepository) attachBodyParts(ctx context.Context, exercises []domain.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(exercises))
	for _, ex := range exercises {
		ids = append(ids, ex.BodyPartID)
	}
	cursor, err := r.bodyParts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	var parts []domain.BodyPart
	if err := cursor.All(ctx, &parts); err != nil {
		return err
	}
	byID := make(map[int64]*domain.BodyPart, len(parts))
	for i := range parts {
		byID[parts[i].ID] = &parts[i]
	}
	for i := range exercises {
		exercises[i].BodyPart = byID[exercises[i].BodyPartID]
	}
	return nil
}

// Update modifies an existing exercise and refreshes UpdatedAt. CreatedAt is never changed.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == 0 || exercise.Name == "" || exercise.BodyPartID == 0 {
		return repository.ErrValidation
	}
	exercise.UpdatedAt = time.Now().UTC()
	if exercise.GeneratedKeywords == nil {
		exercise.GeneratedKeywords = domain.StringList{}
	}

	return writeSlugged(ctx, r.collection, exercise.ID, &exercise.Slug, exercise.Name, "exercise", func() error {
		update := bson.M{"$set": bson.M{
			"name":              exercise.Name,
			"slug":              exercise.Slug,
			"bodyPartId":        exercise.BodyPartID,
			"description":       exercise.Description,
			"youtubeUrl":        exercise.YouTubeURL,
			"image":             exercise.Image,
			"imageUrl":          exercise.ImageURL,
			"imageWidth":        exercise.ImageWidth,
			"imageHeight":       exercise.ImageHeight,
			"generatedKeywords": exercise.GeneratedKeywords,
			"aiGenerated":       exercise.AIGenerated,
			"updatedAt":         exercise.UpdatedAt,
		}}
		result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// Stats groups exercise counts by body part. Body parts without exercises report zeros.
func (r *mongoExerciseRepository) Stats(ctx context.Context) ([]domain.BodyPartStats, error) {
	hasVideo := bson.M{"$cond": bson.A{
		bson.M{"$gt": bson.A{bson.M{"$strLenCP": bson.M{"$ifNull": bson.A{"$youtubeUrl", ""}}}, 0}}, 1, 0,
	}}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         "$bodyPartId",
			"total":       bson.M{"$sum": 1},
			"withVideo":   bson.M{"$sum": hasVideo},
			"aiGenerated": bson.M{"$sum": bson.M{"$cond": bson.A{"$aiGenerated", 1, 0}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var groups []struct {
		BodyPartID  int64 `bson:"_id"`
		Total       int64 `bson:"total"`
		WithVideo   int64 `bson:"withVideo"`
		AIGenerated int64 `bson:"aiGenerated"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	partCursor, err := r.bodyParts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var parts []domain.BodyPart
	if err := partCursor.All(ctx, &parts); err != nil {
		return nil, err
	}

	out := make([]domain.BodyPartStats, 0, len(parts))
	for _, bp := range parts {
		s := domain.BodyPartStats{BodyPartID: bp.ID, BodyPartName: bp.Name, BodyPartSlug: bp.Slug}
		for _, g := range groups {
			if g.BodyPartID == bp.ID {
				s.Total, s.WithVideo, s.AIGenerated = g.Total, g.WithVideo, g.AIGenerated
				break
			}
		}
		out = append(out, s)
	}
	return out, nil
}
