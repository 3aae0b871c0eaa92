package mongo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/bnema/shelf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestItemDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	savedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oid := primitive.NewObjectID()

	tests := []struct {
		name string
		item domain.TrackedItem
	}{
		{name: "with link", item: domain.TrackedItem{Title: "Solo Leveling", Owner: "U", Progress: 10, Link: "https://x.test/a,b", SavedAt: savedAt}},
		{name: "without link", item: domain.TrackedItem{Title: "Tower of God", Owner: "U", Progress: 0, SavedAt: savedAt}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := toItemDocument(tc.item)
			assert.Equal(t, tc.item.Link != "", doc.Link != nil)

			raw, err := bson.Marshal(doc)
			require.NoError(t, err)
			_, hasID := bson.Raw(raw).Lookup("_id").ObjectIDOK()
			assert.False(t, hasID, "zero id must be left to the server")

			doc.ID = oid
			got := fromItemDocument(doc)
			want := tc.item
			want.ID = domain.ItemID(oid.Hex())
			assert.Equal(t, want, got)
		})
	}
}

func TestOwnerFilterQuotesRegex(t *testing.T) {
	t.Parallel()

	filter := ownerFilter("U", " a.b(c ")
	require.Len(t, filter, 2)
	assert.Equal(t, bson.E{Key: "owner", Value: "U"}, filter[0])

	regex, ok := filter[1].Value.(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "i", regex.Options)

	re := regexp.MustCompile("(?i)" + regex.Pattern)
	assert.True(t, re.MatchString("xx A.B(C yy"))
	assert.False(t, re.MatchString("aXb(c"))

	assert.Len(t, ownerFilter("U", "  "), 1)
}

func TestExactTitleFilterAnchors(t *testing.T) {
	t.Parallel()

	filter := exactTitleFilter("U", " Solo Leveling ")
	regex, ok := filter[1].Value.(primitive.Regex)
	require.True(t, ok)

	re := regexp.MustCompile("(?i)" + regex.Pattern)
	assert.True(t, re.MatchString("solo leveling"))
	assert.True(t, re.MatchString(" SOLO LEVELING "))
	assert.False(t, re.MatchString("Solo Leveling Ragnarok"))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.NoError(t, classify("op", nil))
	assert.ErrorIs(t, classify("op", context.DeadlineExceeded), domain.ErrStorageUnavailable)
	assert.ErrorIs(t, classify("op", mongo.ErrClientDisconnected), domain.ErrStorageUnavailable)

	err := classify("insert item", errors.New("boom"))
	assert.NotErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.EqualError(t, err, "insert item: boom")
}

func TestStringOr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "items", stringOr("", "items"))
	assert.Equal(t, "custom", stringOr("custom", "items"))
}
