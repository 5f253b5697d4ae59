package repository

import (
	"context"
	"errors"
	"regexp"

	"aora_backend/internal/aora/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound the identified video document does not exist
var ErrPostNotFound = errors.New("no video post found with given id")

// VideoRepository definition video document CRUD and queries
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	FindAll(ctx context.Context) ([]domain.Video, error)
	FindByCreator(ctx context.Context, creatorID string) ([]domain.Video, error)
	// SearchByTitle 以不分大小寫的模糊比對搜尋標題
	SearchByTitle(ctx context.Context, keyword string) ([]domain.Video, error)
	// FindLatest 依建立時間降序，最多 limit 筆
	FindLatest(ctx context.Context, limit int64) ([]domain.Video, error)
	Delete(ctx context.Context, postID string) error
}

type videoRepository struct {
	coll *mongo.Collection
}

// NewMongoVideoRepository create a VideoRepository
func NewMongoVideoRepository(db *mongo.Database, collectionName string) VideoRepository {
	return &videoRepository{
		coll: db.Collection(collectionName),
	}
}

func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	_, err := r.coll.InsertOne(ctx, video)
	return err
}

func (r *videoRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.Video, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	// 沒中任何文件時回空序列而不是錯誤
	videos := []domain.Video{}
	if err := cur.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *videoRepository) FindAll(ctx context.Context) ([]domain.Video, error) {
	return r.find(ctx, bson.M{})
}

func (r *videoRepository) FindByCreator(ctx context.Context, creatorID string) ([]domain.Video, error) {
	return r.find(ctx, bson.M{"creator": creatorID})
}

// titleFilter 搜尋字串當純文字比對，先轉義 regex 中繼字元
func titleFilter(keyword string) bson.M {
	return bson.M{"title": bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}}
}

func (r *videoRepository) SearchByTitle(ctx context.Context, keyword string) ([]domain.Video, error) {
	return r.find(ctx, titleFilter(keyword))
}

func (r *videoRepository) FindLatest(ctx context.Context, limit int64) ([]domain.Video, error) {
	opts := options.Find()
	opts.SetSort(bson.M{"created_at": -1})
	opts.SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

func (r *videoRepository) Delete(ctx context.Context, postID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
