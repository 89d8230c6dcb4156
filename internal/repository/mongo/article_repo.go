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

const articleCollectionName = "articles"

type mongoArticleRepository struct {
	collection *mongo.Collection
	ids        *counters
}

func NewMongoArticleRepository(db *mongo.Database, ids *counters) repository.ArticleRepository {
	return &mongoArticleRepository{collection: db.Collection(articleCollectionName), ids: ids}
}

func (r *mongoArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	if article.Title == "" {
		return repository.ErrValidation
	}
	id, err := r.ids.next(ctx, articleCollectionName)
	if err != nil {
		return err
	}
	article.ID = id
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.Images == nil {
		article.Images = domain.StringList{}
	}
	if article.Keywords == nil {
		article.Keywords = domain.StringList{}
	}

	return writeSlugged(ctx, r.collection, id, &article.Slug, article.Title, "article", func() error {
		_, err := r.collection.InsertOne(ctx, article)
		return err
	})
}

func (r *mongoArticleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Article, error) {
	var a domain.Article
	if err := r.collection.FindOne(ctx, filter).Decode(&a); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *mongoArticleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoArticleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// List returns articles newest first.
func (r *mongoArticleRepository) List(ctx context.Context, offset, limit int) ([]domain.Article, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var out []domain.Article
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *mongoArticleRepository) Update(ctx context.Context, article *domain.Article) error {
	if article.ID == 0 || article.Title == "" {
		return repository.ErrValidation
	}
	article.UpdatedAt = time.Now().UTC()
	if article.Images == nil {
		article.Images = domain.StringList{}
	}
	if article.Keywords == nil {
		article.Keywords = domain.StringList{}
	}

	return writeSlugged(ctx, r.collection, article.ID, &article.Slug, article.Title, "article", func() error {
		update := bson.M{"$set": bson.M{
			"title":     article.Title,
			"slug":      article.Slug,
			"content":   article.Content,
			"images":    article.Images,
			"keywords":  article.Keywords,
			"updatedAt": article.UpdatedAt,
		}}
		result, err := r.collection.UpdateOne(ctx, bson.M{"_id": article.ID}, update)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *mongoArticleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
