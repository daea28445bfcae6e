package repository

import (
	"context"
	"time"

	"github.com/Yudzxml/PANELSV2/internal/core/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserUpdate is a merge update: only non-nil fields are written.
type UserUpdate struct {
	Password *string
	Role     *model.Role
	Money    *int64
	ExpireAt *time.Time
}

func (u UserUpdate) Empty() bool {
	return u.Password == nil && u.Role == nil && u.Money == nil && u.ExpireAt == nil
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ApplyUpdate(ctx context.Context, email string, upd UserUpdate) error
	AdjustMoney(ctx context.Context, email string, delta int64) error
	Delete(ctx context.Context, email string) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListEmails(ctx context.Context) ([]string, error)
}

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection("users"),
	}
}

// Create upserts the user document keyed by email. The createdAt timestamp
// comes from the store's clock, not the process clock.
func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"email":    user.Email,
			"password": user.Password,
			"role":     user.Role,
			"money":    user.Money,
			"expireat": user.ExpireAt,
		},
		"$currentDate": bson.M{"createdat": true},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"email": user.Email}, update, opts)
	return err
}

func (r *MongoUserRepository) ApplyUpdate(ctx context.Context, email string, upd UserUpdate) error {
	if upd.Empty() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{}
	if upd.Password != nil {
		set["password"] = *upd.Password
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.Money != nil {
		set["money"] = *upd.Money
	}
	if upd.ExpireAt != nil {
		set["expireat"] = *upd.ExpireAt
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
	return err
}

func (r *MongoUserRepository) AdjustMoney(ctx context.Context, email string, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$inc": bson.M{"money": delta}})
	return err
}

func (r *MongoUserRepository) Delete(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"email": email})
	return err
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &user, err
}

func (r *MongoUserRepository) ListEmails(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"email": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var emails []string
	for cursor.Next(ctx) {
		var doc struct {
			Email string `bson:"email"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		if doc.Email != "" {
			emails = append(emails, doc.Email)
		}
	}
	return emails, cursor.Err()
}
