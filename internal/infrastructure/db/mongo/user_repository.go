package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chatwave/auth-api/internal/core/domain"
)

const userCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Username          string             `bson:"username"`
	Email             string             `bson:"email"`
	DisplayName       string             `bson:"display_name"`
	PhoneNumber       string             `bson:"phone_number,omitempty"`
	PasswordHash      string             `bson:"password_hash"`
	ProfilePictureURL string             `bson:"profile_picture_url,omitempty"`
	Bio               string             `bson:"bio,omitempty"`
	Status            string             `bson:"status"`
	LastSeen          int64              `bson:"last_seen,omitempty"`
	CreatedAt         int64              `bson:"created_at"`
	UpdatedAt         int64              `bson:"updated_at"`
}

// EnsureIndexes creates the unique indexes on username and email. Both are
// exact-match case-sensitive strings; the index, not application code, decides
// concurrent registration races.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_1"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	doc := mongoUser{
		ID:                primitive.NewObjectID(),
		Username:          user.Username,
		Email:             user.Email,
		DisplayName:       user.DisplayName,
		PhoneNumber:       user.PhoneNumber,
		PasswordHash:      user.PasswordHash,
		ProfilePictureURL: user.ProfilePictureURL,
		Bio:               user.Bio,
		Status:            string(user.Status),
		CreatedAt:         now.Unix(),
		UpdatedAt:         now.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) TouchLastSeen(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	now := time.Now().UTC().Unix()
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"last_seen": now, "updated_at": now},
	})
	if err != nil {
		return fmt.Errorf("touch last_seen: %w", err)
	}
	return nil
}

func (mu mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:                mu.ID.Hex(),
		Username:          mu.Username,
		Email:             mu.Email,
		DisplayName:       mu.DisplayName,
		PhoneNumber:       mu.PhoneNumber,
		PasswordHash:      mu.PasswordHash,
		ProfilePictureURL: mu.ProfilePictureURL,
		Bio:               mu.Bio,
		Status:            domain.UserStatus(mu.Status),
		CreatedAt:         unixToTime(mu.CreatedAt),
		UpdatedAt:         unixToTime(mu.UpdatedAt),
	}
	if mu.LastSeen != 0 {
		ls := unixToTime(mu.LastSeen)
		u.LastSeen = &ls
	}
	return u
}

// duplicateKeyError maps a unique-index violation to the specific conflicting
// field when the offending index name is present in the driver error.
func duplicateKeyError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "username_1"):
		return domain.ErrUsernameTaken
	case strings.Contains(msg, "email_1"):
		return domain.ErrEmailTaken
	}
	return domain.ErrUserExists
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
