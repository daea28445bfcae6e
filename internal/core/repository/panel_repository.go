package repository

import (
	"context"
	"time"

	"github.com/Yudzxml/PANELSV2/internal/core/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BulkDeleteBatchSize is the store-imposed ceiling on deletes per commit.
const BulkDeleteBatchSize = 500

type PanelRepository interface {
	Create(ctx context.Context, email string, panel *model.Panel) error
	Delete(ctx context.Context, email string, serverID int64) error
	FindByServerID(ctx context.Context, email string, serverID int64) (*model.Panel, error)
	FindByUsername(ctx context.Context, email, username string) (*model.Panel, error)
	FindByUser(ctx context.Context, email string) ([]*model.Panel, error)
	// DeleteAll removes every panel of every user in batches of at most
	// batchSize per commit. It returns the number of panels removed by
	// completed batches; a failing batch aborts the run, so the count may
	// reflect partial progress.
	DeleteAll(ctx context.Context, batchSize int) (int64, error)
}

// panelDoc is the stored shape: a panel plus its owning user's email, which
// stands in for the per-user subcollection scoping.
type panelDoc struct {
	Email       string `bson:"email"`
	model.Panel `bson:",inline"`
}

type MongoPanelRepository struct {
	collection *mongo.Collection
}

func NewMongoPanelRepository(db *mongo.Database) *MongoPanelRepository {
	return &MongoPanelRepository{
		collection: db.Collection("panels"),
	}
}

// Create upserts the panel keyed by (email, serverId) with a store-side
// createdAt timestamp.
func (r *MongoPanelRepository) Create(ctx context.Context, email string, panel *model.Panel) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"email":    email,
			"serverid": panel.ServerID,
			"userid":   panel.UserID,
			"username": panel.Username,
			"extra":    panel.Extra,
		},
		"$currentDate": bson.M{"createdat": true},
	}
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"email": email, "serverid": panel.ServerID}
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *MongoPanelRepository) Delete(ctx context.Context, email string, serverID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"email": email, "serverid": serverID})
	return err
}

func (r *MongoPanelRepository) FindByServerID(ctx context.Context, email string, serverID int64) (*model.Panel, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc panelDoc
	err := r.collection.FindOne(ctx, bson.M{"email": email, "serverid": serverID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Panel, nil
}

func (r *MongoPanelRepository) FindByUsername(ctx context.Context, email, username string) (*model.Panel, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc panelDoc
	err := r.collection.FindOne(ctx, bson.M{"email": email, "username": username}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Panel, nil
}

func (r *MongoPanelRepository) FindByUser(ctx context.Context, email string) ([]*model.Panel, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var panels []*model.Panel
	for cursor.Next(ctx) {
		var doc panelDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		panel := doc.Panel
		panels = append(panels, &panel)
	}
	return panels, cursor.Err()
}

func (r *MongoPanelRepository) DeleteAll(ctx context.Context, batchSize int) (int64, error) {
	if batchSize <= 0 || batchSize > BulkDeleteBatchSize {
		batchSize = BulkDeleteBatchSize
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var deleted int64
	batch := make([]mongo.WriteModel, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := r.collection.BulkWrite(ctx, batch); err != nil {
			return err
		}
		deleted += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for cursor.Next(ctx) {
		var doc struct {
			ID any `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return deleted, err
		}
		batch = append(batch, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": doc.ID}))
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return deleted, err
	}
	if err := flush(); err != nil {
		return deleted, err
	}
	return deleted, nil
}
