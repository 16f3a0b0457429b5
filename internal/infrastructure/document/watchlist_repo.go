package document

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
)

const watchlistCollection = "watchlists"

type watchlistDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"owner_id"`
	Name      string             `bson:"name"`
	Symbols   []string           `bson:"symbols"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// WatchlistRepository stores watchlists in MongoDB. Every query is scoped by owner.
type WatchlistRepository struct {
	collection *mongo.Collection
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db *mongo.Database) *WatchlistRepository {
	return &WatchlistRepository{collection: db.Collection(watchlistCollection)}
}

// EnsureIndexes creates the owner listing index
func (r *WatchlistRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// Create inserts a watchlist
func (r *WatchlistRepository) Create(ctx context.Context, watchlist *entities.Watchlist) error {
	now := time.Now().UTC()
	doc := watchlistDocument{
		ID:        primitive.NewObjectID(),
		OwnerID:   watchlist.OwnerID.String(),
		Name:      watchlist.Name,
		Symbols:   symbols(watchlist.Symbols),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	*watchlist = *toWatchlistEntity(&doc)
	return nil
}

// GetByID finds a watchlist owned by owner
func (r *WatchlistRepository) GetByID(ctx context.Context, owner uuid.UUID, id string) (*entities.Watchlist, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domainerrors.ErrNotFound
	}

	var doc watchlistDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID, "owner_id": owner.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toWatchlistEntity(&doc), nil
}

// ListByOwner lists an owner's watchlists, newest first
func (r *WatchlistRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entities.Watchlist, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": owner.String()}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []watchlistDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]*entities.Watchlist, 0, len(docs))
	for i := range docs {
		items = append(items, toWatchlistEntity(&docs[i]))
	}
	return items, nil
}

// Update replaces name and symbols on a watchlist owned by watchlist.OwnerID
func (r *WatchlistRepository) Update(ctx context.Context, watchlist *entities.Watchlist) error {
	objID, err := primitive.ObjectIDFromHex(watchlist.ID)
	if err != nil {
		return domainerrors.ErrNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"name":       watchlist.Name,
			"symbols":    symbols(watchlist.Symbols),
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc watchlistDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID, "owner_id": watchlist.OwnerID.String()}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainerrors.ErrNotFound
		}
		return err
	}
	*watchlist = *toWatchlistEntity(&doc)
	return nil
}

// Delete removes a watchlist owned by owner
func (r *WatchlistRepository) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domainerrors.ErrNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "owner_id": owner.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toWatchlistEntity(doc *watchlistDocument) *entities.Watchlist {
	owner, _ := uuid.Parse(doc.OwnerID)
	return &entities.Watchlist{
		ID:        doc.ID.Hex(),
		OwnerID:   owner,
		Name:      doc.Name,
		Symbols:   symbols(doc.Symbols),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func symbols(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
