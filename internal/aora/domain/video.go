package domain

import (
	"io"
	"strings"
	"time"
)

// LatestPostsLimit 最新影片查詢的上限筆數
const LatestPostsLimit = 7

// FileAsset 待上傳的檔案，Content 只會被讀取一次
type FileAsset struct {
	Name     string
	MIMEType string
	Size     int64
	Content  io.Reader
}

// IsVideo 依宣告的媒體類型判斷是否為影片
func (f *FileAsset) IsVideo() bool {
	return strings.HasPrefix(f.MIMEType, "video")
}

// VideoForm usecase create video post request
type VideoForm struct {
	Title     string
	Prompt    string
	CreatorID string
	Thumbnail *FileAsset
	Video     *FileAsset
}

// Video 影片文件，Thumbnail/Video 為已解析的檔案參照
type Video struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Thumbnail string    `bson:"thumbnail"`
	Video     string    `bson:"video"`
	Prompt    string    `bson:"prompt"`
	CreatorID string    `bson:"creator"`
	CreatedAt time.Time `bson:"created_at"`
}
