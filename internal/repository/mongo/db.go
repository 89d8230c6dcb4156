package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"heartwellness/fitness-cms/internal/repository"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary so an unreachable server fails here rather than on first query.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewRepositories wires every MongoDB-backed repository onto one database.
func NewRepositories(db *mongo.Database) repository.Repositories {
	ids := newCounters(db)
	return repository.Repositories{
		BodyParts: NewMongoBodyPartRepository(db, ids),
		Exercises: NewMongoExerciseRepository(db, ids),
		Keywords:  NewMongoKeywordMappingRepository(db, ids),
		Articles:  NewMongoArticleRepository(db, ids),
		Users:     NewMongoUserRepository(db, ids),
		RawLists:  NewMongoRawListRepository(db),
	}
}

// EnsureIndexes creates the unique and lookup indexes for every collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(keys ...string) mongo.IndexModel {
		return mongo.IndexModel{Keys: keysOf(keys...), Options: options.Index().SetUnique(true)}
	}
	plain := func(keys ...string) mongo.IndexModel {
		return mongo.IndexModel{Keys: keysOf(keys...)}
	}

	specs := map[string][]mongo.IndexModel{
		bodyPartCollectionName: {unique("slug"), plain("name")},
		exerciseCollectionName: {unique("slug"), plain("bodyPartId"), plain("name")},
		keywordCollectionName:  {unique("exerciseId", "keyword", "contentType")},
		articleCollectionName:  {unique("slug"), plain("createdAt")},
		userCollectionName:     {unique("email")},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
