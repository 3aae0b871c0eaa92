package mongo

import (
	"regexp"
	"strings"
	"time"

	"github.com/bnema/shelf/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type itemDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Title    string             `bson:"title"`
	Owner    string             `bson:"owner"`
	Progress int                `bson:"progress"`
	Link     *string            `bson:"link"`
	SavedAt  time.Time          `bson:"savedAt"`
}

type grantDocument struct {
	User      string    `bson:"user"`
	GrantedBy string    `bson:"grantedBy"`
	GrantedAt time.Time `bson:"grantedAt"`
}

func toItemDocument(item domain.TrackedItem) itemDocument {
	doc := itemDocument{
		Title:    item.Title,
		Owner:    string(item.Owner),
		Progress: item.Progress,
		SavedAt:  item.SavedAt.UTC(),
	}
	if item.HasLink() {
		link := item.Link
		doc.Link = &link
	}
	return doc
}

func fromItemDocument(doc itemDocument) domain.TrackedItem {
	item := domain.TrackedItem{
		ID:       domain.ItemID(doc.ID.Hex()),
		Title:    doc.Title,
		Owner:    domain.UserID(doc.Owner),
		Progress: doc.Progress,
		SavedAt:  doc.SavedAt.UTC(),
	}
	if doc.Link != nil {
		item.Link = *doc.Link
	}
	return item
}

func fromGrantDocument(doc grantDocument) domain.PermissionGrant {
	return domain.PermissionGrant{
		User:      domain.UserID(doc.User),
		GrantedBy: domain.UserID(doc.GrantedBy),
		GrantedAt: doc.GrantedAt.UTC(),
	}
}

// ownerFilter selects an owner's items, optionally narrowed to titles that
// contain titleFilter regardless of case.
func ownerFilter(owner domain.UserID, titleFilter string) bson.D {
	filter := bson.D{{Key: "owner", Value: string(owner)}}
	if fragment := strings.TrimSpace(titleFilter); fragment != "" {
		filter = append(filter, bson.E{Key: "title", Value: primitive.Regex{Pattern: regexp.QuoteMeta(fragment), Options: "i"}})
	}
	return filter
}

func exactTitleFilter(owner domain.UserID, title string) bson.D {
	pattern := `^\s*` + regexp.QuoteMeta(strings.TrimSpace(title)) + `\s*$`
	return bson.D{
		{Key: "owner", Value: string(owner)},
		{Key: "title", Value: primitive.Regex{Pattern: pattern, Options: "i"}},
	}
}
