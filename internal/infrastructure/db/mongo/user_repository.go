package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/identity-service/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on MongoDB. A user document
// holds only role ids; names and descriptions are read from the roles
// collection on every load so catalog changes show up immediately.
type UserRepository struct {
	coll  *mongo.Collection
	roles *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll:  db.Collection(collectionUsers),
		roles: db.Collection(collectionRoles),
	}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	RoleIDs      []int              `bson:"role_ids"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(nil), nil
}

// Save overwrites the stored role set and update timestamp of user.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := toMongoUser(user)
	update := bson.M{
		"$set": bson.M{
			"role_ids":   doc.RoleIDs,
			"updated_at": doc.UpdatedAt,
		},
		// documents written before role_ids carried embedded role snapshots
		"$unset": bson.M{"roles": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var saved mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&saved); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return r.withRoles(ctx, saved)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return r.withRoles(ctx, mu)
}

// withRoles resolves the role ids of mu against the roles collection.
func (r *UserRepository) withRoles(ctx context.Context, mu mongoUser) (*domain.User, error) {
	if len(mu.RoleIDs) == 0 {
		return mu.toDomain(nil), nil
	}

	cur, err := r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": mu.RoleIDs}})
	if err != nil {
		return nil, fmt.Errorf("find user roles: %w", err)
	}
	var docs []mongoRole
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode user roles: %w", err)
	}
	return mu.toDomain(docs), nil
}

// EnsureIndexes creates the unique username index the duplicate check relies on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_username"),
	})
	return err
}

func toMongoUser(user *domain.User) mongoUser {
	ids := make([]int, 0, len(user.Roles))
	for _, r := range user.Roles {
		ids = append(ids, r.ID)
	}
	return mongoUser{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		RoleIDs:      ids,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}
}

// toDomain maps mu using the resolved role documents. Roles come out in the
// order of mu.RoleIDs; ids missing from the catalog are dropped.
func (mu mongoUser) toDomain(docs []mongoRole) *domain.User {
	byID := make(map[int]mongoRole, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	roles := make([]domain.Role, 0, len(mu.RoleIDs))
	for _, id := range mu.RoleIDs {
		if d, ok := byID[id]; ok {
			roles = append(roles, domain.Role{ID: d.ID, Name: d.Name, Description: d.Description})
		}
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Roles:        roles,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
