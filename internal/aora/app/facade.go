package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aora_backend/internal/aora/domain"
	"aora_backend/internal/aora/repository"
	"aora_backend/pkg/database"
	"aora_backend/pkg/encrypt"
	errprocess "aora_backend/pkg/err"
	"aora_backend/pkg/logger"
	token "aora_backend/pkg/token"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AoraUseCase 這裡封裝了對外提供的應用服務
// 每個操作對應行動端的一個資料存取意圖
type AoraUseCase interface {
	Register(ctx context.Context, email, password, username string) (*domain.User, *domain.Session, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	GetCurrentAccount(ctx context.Context, t string) (*domain.Account, error)
	// GetCurrentUser 查無或失敗時回 (nil, nil)，不回錯誤
	GetCurrentUser(ctx context.Context, t string) (*domain.User, error)
	SignOut(ctx context.Context, t string) error
	UploadFile(ctx context.Context, file *domain.FileAsset) (string, error)
	CreateVideoPost(ctx context.Context, form *domain.VideoForm) (*domain.Video, error)
	GetAllPosts(ctx context.Context) ([]domain.Video, error)
	GetUserPosts(ctx context.Context, creatorID string) ([]domain.Video, error)
	SearchPosts(ctx context.Context, keyword string) ([]domain.Video, error)
	GetLatestPosts(ctx context.Context) ([]domain.Video, error)
	DeletePost(ctx context.Context, postID string) (bool, error)
}

type aoraUseCase struct {
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	videoRepo   repository.VideoRepository
	fileRepo    repository.FileRepository
	sessionRepo database.RedisRepository[domain.Session]
	sessionTTL  time.Duration

	endpoint  string
	projectID string
	issuer    string
}

// 讓 facade test mock 使用包裝函數
var (
	newID = func() string {
		return uuid.New().String()
	}

	timeNow = time.Now

	hashPassword = encrypt.HashPassword
)

// NewAoraUseCase 建立一個新的 AoraUseCase
func NewAoraUseCase(accountRepo repository.AccountRepository,
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	fileRepo repository.FileRepository,
	sessionRepo database.RedisRepository[domain.Session],
	sessionTTL time.Duration,
	endpoint, projectID, issuer string,
) AoraUseCase {
	return &aoraUseCase{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		videoRepo:   videoRepo,
		fileRepo:    fileRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		endpoint:    endpoint,
		projectID:   projectID,
		issuer:      issuer,
	}
}

// Register 註冊流程，步驟順序固定：
// 建立帳號 -> 本地產生頭像參照 -> 立即登入 -> 建立使用者文件
// 第 4 步失敗時不回滾前面的步驟，會留下沒有使用者文件的帳號
func (u *aoraUseCase) Register(ctx context.Context, email, password, username string) (*domain.User, *domain.Session, error) {
	// 檢查 email 是否已存在
	if _, err := u.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Email: &email}); err == nil {
		return nil, nil, errprocess.Set(errprocess.KindRegistration, errors.New("email already exists"), "Failed to create user")
	}

	pw, err := hashPassword(password)
	if err != nil {
		return nil, nil, errprocess.Set(errprocess.KindRegistration, err, "Failed to create user")
	}

	account := domain.Account{
		AccountID: newID(),
		Email:     email,
		Password:  pw,
		CreatedAt: timeNow(),
	}

	if err := u.accountRepo.CreateAccount(ctx, &account); err != nil {
		return nil, nil, errprocess.Set(errprocess.KindRegistration, err, "Failed to create user")
	}

	avatarURL := AvatarURL(u.endpoint, u.projectID, username)

	// 註冊後立即登入
	session, err := u.SignIn(ctx, email, password)
	if err != nil {
		return nil, nil, errprocess.Set(errprocess.KindRegistration, err, "Failed to create user")
	}

	user := domain.User{
		ID:        newID(),
		AccountID: account.AccountID,
		Email:     email,
		Username:  username,
		Avatar:    avatarURL,
		CreatedAt: timeNow(),
	}

	if err := u.userRepo.Create(ctx, &user); err != nil {
		// 帳號已建立且已登入，這裡留下孤兒帳號
		logger.Log.Warn(fmt.Sprintf("user document creation failed, account[%s] left without user document", account.AccountID))
		return nil, nil, errprocess.Set(errprocess.KindRegistration, err, "Failed to create user")
	}

	return &user, session, nil
}

// SignIn 建立一個新的會話並回傳會話句柄
func (u *aoraUseCase) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	account, err := u.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Email: &email})
	if err != nil {
		return nil, errprocess.Set(errprocess.KindAuth, err, "Sign in failed")
	}

	if err = account.IsPasswordMatch(password); err != nil {
		return nil, errprocess.Set(errprocess.KindAuth, err, "Sign in failed")
	}

	sessionID := newID()
	t, err := token.GenerateJWTWrapper(account.AccountID, sessionID, u.issuer)
	if err != nil {
		return nil, errprocess.Set(errprocess.KindAuth, err, "Sign in failed")
	}

	now := timeNow()
	session := domain.Session{
		SessionID: sessionID,
		AccountID: account.AccountID,
		Token:     t,
		CreatedAt: now,
		ExpiredAt: now.Add(u.sessionTTL),
	}

	if err := u.sessionRepo.Set(ctx, sessionID, session, u.sessionTTL); err != nil {
		return nil, errprocess.Set(errprocess.KindAuth, err, "Sign in failed")
	}

	return &session, nil
}

// currentSession 解析 token 並確認對應的會話仍然存在
func (u *aoraUseCase) currentSession(ctx context.Context, t string) (*domain.Session, error) {
	claims, err := token.ParseJWTWrapper(t)
	if err != nil {
		return nil, err
	}

	session, err := u.sessionRepo.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// GetCurrentAccount 取得目前會話所屬的帳號
func (u *aoraUseCase) GetCurrentAccount(ctx context.Context, t string) (*domain.Account, error) {
	session, err := u.currentSession(ctx, t)
	if err != nil {
		return nil, errprocess.Set(errprocess.KindAuth, err, "Failed to get account")
	}

	account, err := u.accountRepo.FindByAccount(ctx, &domain.AccountQuery{AccountID: &session.AccountID})
	if err != nil {
		return nil, errprocess.Set(errprocess.KindAuth, err, "Failed to get account")
	}

	return account, nil
}

// GetCurrentUser 取得目前會話對應的使用者文件
// 查詢失敗一律轉為 nil 回傳，呼叫端把「未登入」和「查詢失敗」視為同一件事
func (u *aoraUseCase) GetCurrentUser(ctx context.Context, t string) (*domain.User, error) {
	account, err := u.GetCurrentAccount(ctx, t)
	if err != nil {
		logger.Log.Error(fmt.Sprintf("GetCurrentUser: %v", err))
		return nil, nil
	}

	user, err := u.userRepo.FindByAccountID(ctx, account.AccountID)
	if err != nil {
		logger.Log.Error(fmt.Sprintf("GetCurrentUser: %v", err))
		return nil, nil
	}

	return user, nil
}

// SignOut 只刪除目前的會話，同帳號其他會話不受影響
func (u *aoraUseCase) SignOut(ctx context.Context, t string) error {
	session, err := u.currentSession(ctx, t)
	if err != nil {
		return errprocess.Set(errprocess.KindAuth, err, "Sign out failed")
	}

	if err := u.sessionRepo.Del(ctx, session.SessionID); err != nil {
		return errprocess.Set(errprocess.KindAuth, err, "Sign out failed")
	}

	return nil
}

// UploadFile 儲存檔案並回傳可解析的參照
// 影片給直接播放參照，其他媒體給縮放裁切後的預覽參照
// file 為 nil 時視為 no-op，回空參照且不發出任何遠端呼叫
func (u *aoraUseCase) UploadFile(ctx context.Context, file *domain.FileAsset) (string, error) {
	if file == nil {
		return "", nil
	}

	objectName := newID()
	if err := u.fileRepo.Put(ctx, objectName, file); err != nil {
		return "", errprocess.Set(errprocess.KindUpload, err, "File upload failed")
	}

	var (
		ref string
		err error
	)
	if file.IsVideo() {
		ref, err = u.fileRepo.ViewURL(ctx, objectName)
	} else {
		ref, err = u.fileRepo.PreviewURL(ctx, objectName)
	}
	if err != nil {
		return "", errprocess.Set(errprocess.KindUpload, err, "Failed to get file preview")
	}

	return ref, nil
}

// CreateVideoPost 同時上傳縮圖與影片，兩者都成功才建立影片文件
// 任一上傳失敗整個操作失敗，已完成的另一半不做清理
func (u *aoraUseCase) CreateVideoPost(ctx context.Context, form *domain.VideoForm) (*domain.Video, error) {
	var thumbnailURL, videoURL string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ref, err := u.UploadFile(gctx, form.Thumbnail)
		thumbnailURL = ref
		return err
	})
	g.Go(func() error {
		ref, err := u.UploadFile(gctx, form.Video)
		videoURL = ref
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errprocess.Set(errprocess.KindPostCreation, err, "Failed to create video post")
	}

	video := domain.Video{
		ID:        newID(),
		Title:     form.Title,
		Thumbnail: thumbnailURL,
		Video:     videoURL,
		Prompt:    form.Prompt,
		CreatorID: form.CreatorID,
		CreatedAt: timeNow(),
	}

	if err := u.videoRepo.Create(ctx, &video); err != nil {
		return nil, errprocess.Set(errprocess.KindPostCreation, err, "Failed to create video post")
	}

	return &video, nil
}

// GetAllPosts 取得全部影片文件
func (u *aoraUseCase) GetAllPosts(ctx context.Context) ([]domain.Video, error) {
	posts, err := u.videoRepo.FindAll(ctx)
	if err != nil {
		return nil, errprocess.Set(errprocess.KindQuery, err, "Failed to fetch posts")
	}
	return posts, nil
}

// GetUserPosts 取得指定建立者的影片文件
func (u *aoraUseCase) GetUserPosts(ctx context.Context, creatorID string) ([]domain.Video, error) {
	posts, err := u.videoRepo.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, errprocess.Set(errprocess.KindQuery, err, "Failed to fetch user posts")
	}
	return posts, nil
}

// SearchPosts 標題模糊搜尋
func (u *aoraUseCase) SearchPosts(ctx context.Context, keyword string) ([]domain.Video, error) {
	posts, err := u.videoRepo.SearchByTitle(ctx, keyword)
	if err != nil {
		return nil, errprocess.Set(errprocess.KindQuery, err, "Search failed")
	}
	return posts, nil
}

// GetLatestPosts 依建立時間降序取最新影片，上限七筆
func (u *aoraUseCase) GetLatestPosts(ctx context.Context) ([]domain.Video, error) {
	posts, err := u.videoRepo.FindLatest(ctx, domain.LatestPostsLimit)
	if err != nil {
		return nil, errprocess.Set(errprocess.KindQuery, err, "Failed to fetch latest posts")
	}
	return posts, nil
}

// DeletePost 刪除指定影片文件
func (u *aoraUseCase) DeletePost(ctx context.Context, postID string) (bool, error) {
	if err := u.videoRepo.Delete(ctx, postID); err != nil {
		return false, errprocess.Set(errprocess.KindDeletion, err, "Failed to delete post")
	}
	return true, nil
}
