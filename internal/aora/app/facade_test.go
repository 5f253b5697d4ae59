package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"aora_backend/internal/aora/domain"
	"aora_backend/internal/aora/repository"
	"aora_backend/pkg/encrypt"
	errprocess "aora_backend/pkg/err"
	"aora_backend/pkg/logger"
	token "aora_backend/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepo Mock AccountRepository
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error) {
	args := m.Called(ctx, accountQuery)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUserRepo Mock UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByAccountID(ctx context.Context, accountID string) (*domain.User, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockVideoRepo Mock VideoRepository
type MockVideoRepo struct {
	mock.Mock
}

func (m *MockVideoRepo) Create(ctx context.Context, video *domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepo) FindAll(ctx context.Context) ([]domain.Video, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVideoRepo) FindByCreator(ctx context.Context, creatorID string) ([]domain.Video, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVideoRepo) SearchByTitle(ctx context.Context, keyword string) ([]domain.Video, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVideoRepo) FindLatest(ctx context.Context, limit int64) ([]domain.Video, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVideoRepo) Delete(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockFileRepo Mock FileRepository
type MockFileRepo struct {
	mock.Mock
}

func (m *MockFileRepo) Put(ctx context.Context, objectName string, asset *domain.FileAsset) error {
	args := m.Called(ctx, objectName, asset)
	return args.Error(0)
}

func (m *MockFileRepo) ViewURL(ctx context.Context, objectName string) (string, error) {
	args := m.Called(ctx, objectName)
	return args.String(0), args.Error(1)
}

func (m *MockFileRepo) PreviewURL(ctx context.Context, objectName string) (string, error) {
	args := m.Called(ctx, objectName)
	return args.String(0), args.Error(1)
}

// MockSessionRepo 針對 Session 的 Mock
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Set(ctx context.Context, key string, value domain.Session, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockSessionRepo) Get(ctx context.Context, key string) (domain.Session, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionRepo) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockSessionRepo) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

func (m *MockSessionRepo) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

type mocks struct {
	account *MockAccountRepo
	user    *MockUserRepo
	video   *MockVideoRepo
	file    *MockFileRepo
	session *MockSessionRepo
}

func newUseCase() (AoraUseCase, *mocks) {
	m := &mocks{
		account: new(MockAccountRepo),
		user:    new(MockUserRepo),
		video:   new(MockVideoRepo),
		file:    new(MockFileRepo),
		session: new(MockSessionRepo),
	}
	uc := NewAoraUseCase(m.account, m.user, m.video, m.file, m.session,
		time.Hour, "https://aora.example.com/v1", "aora-project", "aora_service")
	return uc, m
}

// sequentialID 讓測試可以預期每次產生的識別碼
func sequentialID(t *testing.T) {
	t.Helper()
	orig := newID
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = orig })
}

func TestAoraUseCase_Register(t *testing.T) {
	ctx := context.Background()
	email := "alice@example.com"
	password := "secret123"
	username := "alice"

	logger.SetNewNop()

	t.Run("成功註冊", func(t *testing.T) {
		sequentialID(t)
		uc, m := newUseCase()

		hashed, err := encrypt.HashPassword(password)
		assert.NoError(t, err)

		// Register 產生的第一個識別碼是帳號 ID
		account := &domain.Account{AccountID: "id-1", Email: email, Password: hashed}

		m.account.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(nil, repository.ErrAccountNotFound).Once()
		m.account.On("CreateAccount", ctx, mock.Anything).Return(nil).Once()
		// SignIn 階段再查一次帳號
		m.account.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(account, nil).Once()
		m.session.On("Set", ctx, mock.Anything, mock.Anything, time.Hour).Return(nil).Once()

		var created *domain.User
		m.user.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*domain.User)
			}).Return(nil).Once()

		user, session, err := uc.Register(ctx, email, password, username)

		assert.NoError(t, err)
		assert.NotNil(t, session)
		assert.Equal(t, created, user)
		assert.Equal(t, "id-1", user.AccountID, "user document must reference the newly created account")
		assert.Equal(t, email, user.Email)
		assert.Equal(t, username, user.Username)
		assert.Contains(t, user.Avatar, "/avatars/initials")
		assert.Contains(t, user.Avatar, "name=A")

		// 註冊完成後立即處於登入狀態
		assert.Equal(t, "id-1", session.AccountID)
		claims, err := token.ParseJWT(session.Token)
		assert.NoError(t, err)
		assert.Equal(t, "id-1", claims.AccountID)

		m.account.AssertExpectations(t)
		m.user.AssertExpectations(t)
		m.session.AssertExpectations(t)
	})

	t.Run("Email 已存在", func(t *testing.T) {
		uc, m := newUseCase()

		existing := &domain.Account{AccountID: "AAA", Email: email}
		m.account.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(existing, nil).Once()

		_, _, err := uc.Register(ctx, email, password, username)

		assert.Error(t, err)
		assert.Equal(t, "email already exists", err.Error())
		assert.Equal(t, errprocess.KindRegistration, errprocess.KindOf(err))
		m.account.AssertExpectations(t)
	})

	t.Run("使用者文件建立失敗", func(t *testing.T) {
		sequentialID(t)
		uc, m := newUseCase()

		hashed, _ := encrypt.HashPassword(password)
		account := &domain.Account{AccountID: "id-1", Email: email, Password: hashed}

		m.account.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(nil, repository.ErrAccountNotFound).Once()
		m.account.On("CreateAccount", ctx, mock.Anything).Return(nil).Once()
		m.account.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(account, nil).Once()
		m.session.On("Set", ctx, mock.Anything, mock.Anything, time.Hour).Return(nil).Once()
		m.user.On("Create", ctx, mock.Anything).Return(errors.New("db error")).Once()

		// 帳號已建立但文件沒建立，不回滾
		_, _, err := uc.Register(ctx, email, password, username)

		assert.Error(t, err)
		assert.Equal(t, "db error", err.Error())
		assert.Equal(t, errprocess.KindRegistration, errprocess.KindOf(err))
		m.user.AssertExpectations(t)
	})
}

func TestAoraUseCase_SignIn(t *testing.T) {
	ctx := context.Background()
	email := "alice@example.com"
	password := "secret123"

	logger.SetNewNop()

	t.Run("成功登入", func(t *testing.T) {
		uc, m := newUseCase()

		hashed, _ := encrypt.HashPassword(password)
		account := &domain.Account{AccountID: "acc-1", Email: email, Password: hashed}

		m.account.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(account, nil).Once()
		m.session.On("Set", ctx, mock.Anything, mock.Anything, time.Hour).Return(nil).Once()

		session, err := uc.SignIn(ctx, email, password)

		assert.NoError(t, err)
		assert.Equal(t, "acc-1", session.AccountID)
		assert.NotEmpty(t, session.Token)
		m.session.AssertExpectations(t)
	})

	t.Run("密碼錯誤", func(t *testing.T) {
		uc, m := newUseCase()

		hashed, _ := encrypt.HashPassword(password)
		account := &domain.Account{AccountID: "acc-1", Email: email, Password: hashed}

		m.account.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(account, nil).Once()

		_, err := uc.SignIn(ctx, email, "wrongpass")

		assert.Error(t, err)
		assert.Equal(t, errprocess.KindAuth, errprocess.KindOf(err))
		// 登入失敗時不得建立任何會話
		m.session.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("帳號不存在", func(t *testing.T) {
		uc, m := newUseCase()

		m.account.On("FindByAccount", ctx, &domain.AccountQuery{Email: &email}).
			Return(nil, repository.ErrAccountNotFound).Once()

		_, err := uc.SignIn(ctx, email, password)

		assert.Error(t, err)
		assert.Equal(t, errprocess.KindAuth, errprocess.KindOf(err))
		m.session.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAoraUseCase_GetCurrentAccount(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("取得目前帳號", func(t *testing.T) {
		uc, m := newUseCase()

		tk, err := token.GenerateJWT("acc-1", "sess-1", "aora_service")
		assert.NoError(t, err)

		accountID := "acc-1"
		m.session.On("Get", ctx, "sess-1").
			Return(domain.Session{SessionID: "sess-1", AccountID: accountID}, nil).Once()
		m.account.On("FindByAccount", ctx, &domain.AccountQuery{AccountID: &accountID}).
			Return(&domain.Account{AccountID: accountID}, nil).Once()

		account, err := uc.GetCurrentAccount(ctx, tk)

		assert.NoError(t, err)
		assert.Equal(t, accountID, account.AccountID)
	})

	t.Run("沒有會話", func(t *testing.T) {
		uc, m := newUseCase()

		tk, _ := token.GenerateJWT("acc-1", "sess-gone", "aora_service")
		m.session.On("Get", ctx, "sess-gone").
			Return(domain.Session{}, errors.New("redis.Nil")).Once()

		_, err := uc.GetCurrentAccount(ctx, tk)

		assert.Error(t, err)
		assert.Equal(t, errprocess.KindAuth, errprocess.KindOf(err))
	})
}

func TestAoraUseCase_GetCurrentUser(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("沒有會話時回空而不是錯誤", func(t *testing.T) {
		uc, _ := newUseCase()

		user, err := uc.GetCurrentUser(ctx, "not-a-token")

		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("查詢失敗時回空而不是錯誤", func(t *testing.T) {
		uc, m := newUseCase()

		tk, _ := token.GenerateJWT("acc-1", "sess-1", "aora_service")
		accountID := "acc-1"
		m.session.On("Get", ctx, "sess-1").
			Return(domain.Session{SessionID: "sess-1", AccountID: accountID}, nil).Once()
		m.account.On("FindByAccount", ctx, &domain.AccountQuery{AccountID: &accountID}).
			Return(&domain.Account{AccountID: accountID}, nil).Once()
		m.user.On("FindByAccountID", ctx, accountID).
			Return(nil, errors.New("mongo down")).Once()

		user, err := uc.GetCurrentUser(ctx, tk)

		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("取得目前使用者", func(t *testing.T) {
		uc, m := newUseCase()

		tk, _ := token.GenerateJWT("acc-1", "sess-1", "aora_service")
		accountID := "acc-1"
		m.session.On("Get", ctx, "sess-1").
			Return(domain.Session{SessionID: "sess-1", AccountID: accountID}, nil).Once()
		m.account.On("FindByAccount", ctx, &domain.AccountQuery{AccountID: &accountID}).
			Return(&domain.Account{AccountID: accountID}, nil).Once()
		m.user.On("FindByAccountID", ctx, accountID).
			Return(&domain.User{ID: "u-1", AccountID: accountID, Username: "alice"}, nil).Once()

		user, err := uc.GetCurrentUser(ctx, tk)

		assert.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})
}

func TestAoraUseCase_SignOut(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("只刪除目前會話", func(t *testing.T) {
		uc, m := newUseCase()

		tk, _ := token.GenerateJWT("acc-1", "sess-1", "aora_service")
		m.session.On("Get", ctx, "sess-1").
			Return(domain.Session{SessionID: "sess-1", AccountID: "acc-1"}, nil).Once()
		m.session.On("Del", ctx, "sess-1").Return(nil).Once()

		err := uc.SignOut(ctx, tk)

		assert.NoError(t, err)
		m.session.AssertExpectations(t)
	})

	t.Run("沒有會話可刪", func(t *testing.T) {
		uc, m := newUseCase()

		tk, _ := token.GenerateJWT("acc-1", "sess-gone", "aora_service")
		m.session.On("Get", ctx, "sess-gone").
			Return(domain.Session{}, errors.New("redis.Nil")).Once()

		err := uc.SignOut(ctx, tk)

		assert.Error(t, err)
		assert.Equal(t, errprocess.KindAuth, errprocess.KindOf(err))
		m.session.AssertNotCalled(t, "Del", mock.Anything, mock.Anything)
	})
}

func TestAoraUseCase_UploadFile(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("沒有檔案時是 no-op", func(t *testing.T) {
		uc, m := newUseCase()

		ref, err := uc.UploadFile(ctx, nil)

		assert.NoError(t, err)
		assert.Empty(t, ref)
		m.file.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("影片給直接播放參照", func(t *testing.T) {
		sequentialID(t)
		uc, m := newUseCase()

		asset := &domain.FileAsset{Name: "clip.mp4", MIMEType: "video/mp4", Size: 4, Content: bytes.NewReader([]byte("data"))}
		m.file.On("Put", ctx, "id-1", asset).Return(nil).Once()
		m.file.On("ViewURL", ctx, "id-1").Return("https://files/id-1", nil).Once()

		ref, err := uc.UploadFile(ctx, asset)

		assert.NoError(t, err)
		assert.Equal(t, "https://files/id-1", ref)
		m.file.AssertNotCalled(t, "PreviewURL", mock.Anything, mock.Anything)
	})

	t.Run("圖片給縮圖預覽參照", func(t *testing.T) {
		sequentialID(t)
		uc, m := newUseCase()

		asset := &domain.FileAsset{Name: "thumb.png", MIMEType: "image/png", Size: 4, Content: bytes.NewReader([]byte("data"))}
		m.file.On("Put", ctx, "id-1", asset).Return(nil).Once()
		m.file.On("PreviewURL", ctx, "id-1").Return("https://files/id-1?width=2000", nil).Once()

		ref, err := uc.UploadFile(ctx, asset)

		assert.NoError(t, err)
		assert.Equal(t, "https://files/id-1?width=2000", ref)
		m.file.AssertNotCalled(t, "ViewURL", mock.Anything, mock.Anything)
	})

	t.Run("上傳失敗", func(t *testing.T) {
		sequentialID(t)
		uc, m := newUseCase()

		asset := &domain.FileAsset{Name: "clip.mp4", MIMEType: "video/mp4", Size: 4, Content: bytes.NewReader([]byte("data"))}
		m.file.On("Put", ctx, "id-1", asset).Return(errors.New("quota exceeded")).Once()

		_, err := uc.UploadFile(ctx, asset)

		assert.Error(t, err)
		assert.Equal(t, errprocess.KindUpload, errprocess.KindOf(err))
	})
}

func TestAoraUseCase_CreateVideoPost(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	form := func() *domain.VideoForm {
		return &domain.VideoForm{
			Title:     "Sunset Drive",
			Prompt:    "evening drive along the coast",
			CreatorID: "user-1",
			Thumbnail: &domain.FileAsset{Name: "thumb.png", MIMEType: "image/png", Size: 4, Content: bytes.NewReader([]byte("data"))},
			Video:     &domain.FileAsset{Name: "clip.mp4", MIMEType: "video/mp4", Size: 4, Content: bytes.NewReader([]byte("data"))},
		}
	}

	t.Run("兩個檔案都成功才建立文件", func(t *testing.T) {
		uc, m := newUseCase()

		m.file.On("Put", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.FileAsset")).Return(nil).Twice()
		m.file.On("PreviewURL", mock.Anything, mock.Anything).Return("https://files/thumb?width=2000", nil).Once()
		m.file.On("ViewURL", mock.Anything, mock.Anything).Return("https://files/video", nil).Once()

		var created *domain.Video
		m.video.On("Create", ctx, mock.AnythingOfType("*domain.Video")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*domain.Video)
			}).Return(nil).Once()

		post, err := uc.CreateVideoPost(ctx, form())

		assert.NoError(t, err)
		assert.Equal(t, created, post)
		assert.Equal(t, "Sunset Drive", post.Title)
		assert.Equal(t, "https://files/thumb?width=2000", post.Thumbnail)
		assert.Equal(t, "https://files/video", post.Video)
		assert.Equal(t, "user-1", post.CreatorID)
		m.video.AssertExpectations(t)
	})

	t.Run("縮圖上傳失敗時不建立文件", func(t *testing.T) {
		uc, m := newUseCase()

		m.file.On("Put", mock.Anything, mock.Anything, mock.MatchedBy(func(a *domain.FileAsset) bool {
			return a.MIMEType == "image/png"
		})).Return(errors.New("thumbnail upload failed")).Once()
		// 影片那一半可能已經完成，不做清理
		m.file.On("Put", mock.Anything, mock.Anything, mock.MatchedBy(func(a *domain.FileAsset) bool {
			return a.MIMEType == "video/mp4"
		})).Return(nil).Maybe()
		m.file.On("ViewURL", mock.Anything, mock.Anything).Return("https://files/video", nil).Maybe()

		_, err := uc.CreateVideoPost(ctx, form())

		assert.Error(t, err)
		assert.Equal(t, errprocess.KindPostCreation, errprocess.KindOf(err))
		m.video.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAoraUseCase_Queries(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("最新影片最多七筆且由新到舊", func(t *testing.T) {
		uc, m := newUseCase()

		now := time.Now()
		latest := make([]domain.Video, domain.LatestPostsLimit)
		for i := range latest {
			latest[i] = domain.Video{ID: fmt.Sprintf("v-%d", i), CreatedAt: now.Add(-time.Duration(i) * time.Minute)}
		}
		m.video.On("FindLatest", ctx, int64(domain.LatestPostsLimit)).Return(latest, nil).Once()

		posts, err := uc.GetLatestPosts(ctx)

		assert.NoError(t, err)
		assert.LessOrEqual(t, len(posts), domain.LatestPostsLimit)
		for i := 0; i < len(posts)-1; i++ {
			assert.True(t, !posts[i].CreatedAt.Before(posts[i+1].CreatedAt), "posts must be ordered newest first")
		}
		m.video.AssertExpectations(t)
	})

	t.Run("標題搜尋只回符合的文件", func(t *testing.T) {
		uc, m := newUseCase()

		match := domain.Video{ID: "v-1", Title: "Sunset Drive"}
		m.video.On("SearchByTitle", ctx, "sunset").Return([]domain.Video{match}, nil).Once()

		posts, err := uc.SearchPosts(ctx, "sunset")

		assert.NoError(t, err)
		assert.Len(t, posts, 1)
		assert.Equal(t, "Sunset Drive", posts[0].Title)
	})

	t.Run("沒有符合的文件時回空序列", func(t *testing.T) {
		uc, m := newUseCase()

		m.video.On("SearchByTitle", ctx, "nothing").Return([]domain.Video{}, nil).Once()

		posts, err := uc.SearchPosts(ctx, "nothing")

		assert.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("查詢失敗", func(t *testing.T) {
		uc, m := newUseCase()

		m.video.On("FindAll", ctx).Return(nil, errors.New("mongo down")).Once()

		_, err := uc.GetAllPosts(ctx)

		assert.Error(t, err)
		assert.Equal(t, errprocess.KindQuery, errprocess.KindOf(err))
	})

	t.Run("指定建立者的影片", func(t *testing.T) {
		uc, m := newUseCase()

		m.video.On("FindByCreator", ctx, "user-1").
			Return([]domain.Video{{ID: "v-1", CreatorID: "user-1"}}, nil).Once()

		posts, err := uc.GetUserPosts(ctx, "user-1")

		assert.NoError(t, err)
		assert.Len(t, posts, 1)
	})
}

func TestAoraUseCase_DeletePost(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("刪除成功", func(t *testing.T) {
		uc, m := newUseCase()

		m.video.On("Delete", ctx, "v-1").Return(nil).Once()

		ok, err := uc.DeletePost(ctx, "v-1")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("文件不存在", func(t *testing.T) {
		uc, m := newUseCase()

		m.video.On("Delete", ctx, "missing").Return(repository.ErrPostNotFound).Once()

		ok, err := uc.DeletePost(ctx, "missing")

		assert.Error(t, err)
		assert.False(t, ok)
		assert.Equal(t, errprocess.KindDeletion, errprocess.KindOf(err))
	})
}
