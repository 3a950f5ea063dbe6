package repository

import (
	"context"

	"github.com/okhira/mijikai/database"
	"github.com/okhira/mijikai/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// ClickEventRepositoryImpl implements ClickEventRepository on the append-only
// click_events collection
type ClickEventRepositoryImpl struct {
	collection *mongo.Collection
}

func NewClickEventRepository(db *database.MongoDB) ClickEventRepository {
	return &ClickEventRepositoryImpl{
		collection: db.Collection(models.ClickEvent{}.CollectionName()),
	}
}

func (r *ClickEventRepositoryImpl) Insert(ctx context.Context, event *models.ClickEvent) error {
	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return models.ErrDatabaseError.Wrap(err).WithContext("shortCode", event.ShortCode).WithContext("operation", "insertClickEvent")
	}

	return nil
}
