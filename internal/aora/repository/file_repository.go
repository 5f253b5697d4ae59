package repository

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"aora_backend/internal/aora/domain"
	"aora_backend/pkg/database"
)

// 縮圖預覽的固定轉換參數
const (
	previewMaxWidth  = 2000
	previewMaxHeight = 2000
	previewGravity   = "top"
	previewQuality   = 100
)

// 參照連結的有效時間
const refExpiry = 7 * 24 * time.Hour

// FileRepository definition blob store upload and reference derivation
type FileRepository interface {
	// Put 儲存檔案內容到指定的 object key
	Put(ctx context.Context, objectName string, asset *domain.FileAsset) error
	// ViewURL 影片的直接播放參照
	ViewURL(ctx context.Context, objectName string) (string, error)
	// PreviewURL 其他媒體縮放裁切後的預覽參照
	PreviewURL(ctx context.Context, objectName string) (string, error)
}

type fileRepository struct {
	client *database.MinIOClient
}

// NewMinIOFileRepository create a FileRepository
func NewMinIOFileRepository(client *database.MinIOClient) FileRepository {
	return &fileRepository{client: client}
}

func (r *fileRepository) Put(ctx context.Context, objectName string, asset *domain.FileAsset) error {
	return r.client.UploadObject(ctx, objectName, asset.Content, asset.Size, asset.MIMEType)
}

func (r *fileRepository) ViewURL(ctx context.Context, objectName string) (string, error) {
	return r.client.PresignGetURL(ctx, objectName, refExpiry, nil)
}

func (r *fileRepository) PreviewURL(ctx context.Context, objectName string) (string, error) {
	params := make(url.Values)
	params.Set("width", strconv.Itoa(previewMaxWidth))
	params.Set("height", strconv.Itoa(previewMaxHeight))
	params.Set("gravity", previewGravity)
	params.Set("quality", strconv.Itoa(previewQuality))
	return r.client.PresignGetURL(ctx, objectName, refExpiry, params)
}
