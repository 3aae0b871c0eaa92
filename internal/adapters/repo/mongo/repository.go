package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DatabaseKey         = "storage.mongo.database"
	ItemsCollectionKey  = "storage.mongo.items_collection"
	GrantsCollectionKey = "storage.mongo.grants_collection"
	TimeoutKey          = "storage.mongo.timeout"

	defaultDatabase         = "shelf"
	defaultItemsCollection  = "items"
	defaultGrantsCollection = "grants"
	defaultTimeout          = 10 * time.Second
)

// Repository stores items and grants in two MongoDB collections.
type Repository struct {
	client  *mongo.Client
	items   *mongo.Collection
	grants  *mongo.Collection
	timeout time.Duration
}

var (
	_ ports.ItemRepository  = (*Repository)(nil)
	_ ports.GrantRepository = (*Repository)(nil)
)

// NewRepository connects to uri, pings the server and makes sure the grant
// index exists.
func NewRepository(ctx context.Context, cfg *viper.Viper, uri string) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}

	timeout := cfg.GetDuration(TimeoutKey)
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, classify("connect mongo", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping mongo: %w", domain.ErrStorageUnavailable, err)
	}

	db := client.Database(stringOr(cfg.GetString(DatabaseKey), defaultDatabase))
	repo := &Repository{
		client:  client,
		items:   db.Collection(stringOr(cfg.GetString(ItemsCollectionKey), defaultItemsCollection)),
		grants:  db.Collection(stringOr(cfg.GetString(GrantsCollectionKey), defaultGrantsCollection)),
		timeout: timeout,
	}

	if err := repo.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return repo, nil
}

func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Repository) ensureIndexes(ctx context.Context) error {
	_, err := r.grants.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return classify("create grant index", err)
	}

	_, err = r.items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "_id", Value: 1}},
	})
	return classify("create item index", err)
}

func (r *Repository) Insert(ctx context.Context, item domain.TrackedItem) (domain.ItemID, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.items.InsertOne(ctx, toItemDocument(item))
	if err != nil {
		return "", classify("insert item", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert item: unexpected id type %T", res.InsertedID)
	}

	return domain.ItemID(id.Hex()), nil
}

func (r *Repository) FindByOwner(ctx context.Context, owner domain.UserID, titleFilter string) ([]domain.TrackedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.items.Find(ctx, ownerFilter(owner, titleFilter), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, classify("find items by owner", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify("decode items", err)
	}

	items := make([]domain.TrackedItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, fromItemDocument(doc))
	}

	return items, nil
}

func (r *Repository) FindOneByTitleExact(ctx context.Context, owner domain.UserID, title string) (domain.TrackedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "savedAt", Value: -1}, {Key: "_id", Value: -1}})

	var doc itemDocument
	if err := r.items.FindOne(ctx, exactTitleFilter(owner, title), opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.TrackedItem{}, domain.ErrItemNotFound
		}
		return domain.TrackedItem{}, classify("find item by title", err)
	}

	return fromItemDocument(doc), nil
}

func (r *Repository) GetByID(ctx context.Context, id domain.ItemID) (domain.TrackedItem, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return domain.TrackedItem{}, domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc itemDocument
	if err := r.items.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.TrackedItem{}, domain.ErrItemNotFound
		}
		return domain.TrackedItem{}, classify("get item", err)
	}

	return fromItemDocument(doc), nil
}

func (r *Repository) UpdateProgress(ctx context.Context, id domain.ItemID, progress int, savedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.items.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "progress", Value: progress},
			{Key: "savedAt", Value: savedAt.UTC()},
		}}},
	)
	if err != nil {
		return classify("update progress", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

// Grant upserts on the user so a repeated grant keeps the first issuer.
func (r *Repository) Grant(ctx context.Context, grant domain.PermissionGrant) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.grants.UpdateOne(ctx,
		bson.D{{Key: "user", Value: string(grant.User)}},
		bson.D{{Key: "$setOnInsert", Value: grantDocument{
			User:      string(grant.User),
			GrantedBy: string(grant.GrantedBy),
			GrantedAt: grant.GrantedAt.UTC(),
		}}},
		options.Update().SetUpsert(true),
	)
	return classify("upsert grant", err)
}

func (r *Repository) HasGrant(ctx context.Context, user domain.UserID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	count, err := r.grants.CountDocuments(ctx, bson.D{{Key: "user", Value: string(user)}}, options.Count().SetLimit(1))
	if err != nil {
		return false, classify("check grant", err)
	}

	return count > 0, nil
}

func (r *Repository) ListGrants(ctx context.Context) ([]domain.PermissionGrant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.grants.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, classify("list grants", err)
	}
	defer cursor.Close(ctx)

	var docs []grantDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify("decode grants", err)
	}

	grants := make([]domain.PermissionGrant, 0, len(docs))
	for _, doc := range docs {
		grants = append(grants, fromGrantDocument(doc))
	}

	return grants, nil
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorLabel("RetryableWriteError") {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
