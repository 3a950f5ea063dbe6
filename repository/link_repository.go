package repository

import (
	"context"
	"errors"

	"github.com/okhira/mijikai/database"
	"github.com/okhira/mijikai/models"
	"github.com/okhira/mijikai/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LinkRepositoryImpl implements LinkRepository on the links collection
type LinkRepositoryImpl struct {
	collection *mongo.Collection
}

func NewLinkRepository(db *database.MongoDB) LinkRepository {
	return &LinkRepositoryImpl{
		collection: db.Collection(models.Link{}.CollectionName()),
	}
}

// FindByShortCode filters on (shortCode, isDeleted=false) and projects only
// the four hot-path fields. Inactive and expired links are filtered in
// memory, not in the query, so callers can tell "no such code" apart from
// "exists but dead".
func (r *LinkRepositoryImpl) FindByShortCode(ctx context.Context, shortCode string) (*models.LinkProjection, error) {
	filter := bson.M{
		"shortCode": shortCode,
		"isDeleted": false,
	}
	projection := options.FindOne().SetProjection(bson.M{
		"originalUrl": 1,
		"isActive":    1,
		"ownerId":     1,
		"expiresAt":   1,
		"_id":         0,
	})

	var link models.LinkProjection
	err := r.collection.FindOne(ctx, filter, projection).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrURLNotFound.WithContext("shortCode", shortCode)
		}
		return nil, models.ErrDatabaseError.Wrap(err).WithContext("shortCode", shortCode).WithContext("operation", "findByShortCode")
	}

	if !link.IsActive {
		return nil, models.ErrURLInactive.WithContext("shortCode", shortCode)
	}

	if link.ExpiresAt != nil && link.ExpiresAt.Before(utils.UTCNow()) {
		return nil, models.ErrURLExpired.WithContext("shortCode", shortCode)
	}

	return &link, nil
}

// IncrementClickCount issues a single atomic $inc so concurrent increments
// commute.
func (r *LinkRepositoryImpl) IncrementClickCount(ctx context.Context, shortCode string) error {
	filter := bson.M{
		"shortCode": shortCode,
		"isDeleted": false,
	}
	update := bson.M{
		"$inc": bson.M{"clickCount": 1},
		"$set": bson.M{"updatedAt": utils.UTCNow()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.ErrDatabaseError.Wrap(err).WithContext("shortCode", shortCode).WithContext("operation", "incrementClickCount")
	}

	if result.MatchedCount == 0 {
		return models.ErrURLNotFound.WithContext("shortCode", shortCode)
	}

	return nil
}

func (r *LinkRepositoryImpl) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	filter := bson.M{
		"shortCode": shortCode,
		"isDeleted": false,
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, models.ErrDatabaseError.Wrap(err).WithContext("shortCode", shortCode).WithContext("operation", "existsByShortCode")
	}

	return count > 0, nil
}

// Insert persists a new link. Uniqueness of the short code is enforced by the
// partial unique index; a duplicate-key failure is the allocator's collision
// signal.
func (r *LinkRepositoryImpl) Insert(ctx context.Context, link *models.Link) error {
	now := utils.UTCNow()
	link.CreatedAt = now
	link.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, link)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateShortCode
		}
		return models.ErrDatabaseError.Wrap(err).WithContext("shortCode", link.ShortCode).WithContext("operation", "insert")
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		link.ID = oid
	}

	return nil
}
