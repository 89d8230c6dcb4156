package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestOrderingSort(t *testing.T) {
	fallback := bson.D{{Key: "name", Value: 1}}

	assert.Equal(t, bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: 1}}, orderingSort("-name", fallback))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}, orderingSort("created_at", fallback))
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, orderingSort("-id", fallback))
	assert.Equal(t, fallback, orderingSort("password", fallback))
}

func TestContainsFilterEscapesRegex(t *testing.T) {
	f := containsFilter("curl (ez)")
	assert.Equal(t, `curl \(ez\)`, f["$regex"])
	assert.Equal(t, "i", f["$options"])
}
