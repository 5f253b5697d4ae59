package repository

import (
	"context"

	"aora_backend/internal/aora/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository definition user document CRUD
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// FindByAccountID 以 accountId 等值條件查詢使用者文件
	FindByAccountID(ctx context.Context, accountID string) (*domain.User, error)
}

type userRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository create a UserRepository
func NewMongoUserRepository(db *mongo.Database, collectionName string) UserRepository {
	return &userRepository{
		coll: db.Collection(collectionName),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	return err
}

func (r *userRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.User, error) {
	filter := bson.M{"account_id": accountID}
	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
