package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stageNames(p []bson.D) []string {
	names := make([]string, 0, len(p))
	for _, stage := range p {
		names = append(names, stage[0].Key)
	}
	return names
}

func TestListPipeline_WindowsBeforeJoin(t *testing.T) {
	p := listPipeline(5, 5)

	require.Len(t, p, 5)
	assert.Equal(t, []string{"$sort", "$skip", "$limit", "$lookup", "$unwind"}, stageNames(p))
	assert.Equal(t, int64(5), p[1][0].Value)
	assert.Equal(t, int64(5), p[2][0].Value)

	sortSpec, ok := p[0][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "createdAt", sortSpec[0].Key)
	assert.Equal(t, -1, sortSpec[0].Value)
}

func TestListPipeline_LookupProjectsPublicOwnerFields(t *testing.T) {
	lookup, ok := listPipeline(0, 5)[3][0].Value.(bson.D)
	require.True(t, ok)

	fields := lookup.Map()
	assert.Equal(t, collectionUsers, fields["from"])
	assert.Equal(t, "user", fields["localField"])
	assert.Equal(t, "owner", fields["as"])

	raw, err := bson.Marshal(lookup)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestBookDocument_ToDomain(t *testing.T) {
	owner := primitive.NewObjectID()
	created := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

	doc := bookDocument{
		ID:        primitive.NewObjectID(),
		Title:     "Dune",
		Caption:   "Spice",
		Image:     "https://cdn/covers/abc",
		Rating:    5,
		User:      owner,
		CreatedAt: created,
		Owner:     &ownerDocument{ID: owner, Username: "alice", ProfileImage: "https://img/alice"},
	}

	b := doc.toDomain()
	assert.Equal(t, doc.ID.Hex(), b.ID)
	assert.Equal(t, owner.Hex(), b.OwnerID)
	assert.Equal(t, created, b.CreatedAt)
	require.NotNil(t, b.Owner)
	assert.Equal(t, "alice", b.Owner.Username)

	doc.Owner = nil
	assert.Nil(t, doc.toDomain().Owner)
}
