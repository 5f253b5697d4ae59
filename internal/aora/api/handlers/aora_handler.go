package handlers

import (
	"fmt"

	"aora_backend/internal/aora/app"
	"aora_backend/internal/aora/domain"
	errprocess "aora_backend/pkg/err"
	"aora_backend/pkg/logger"
	"aora_backend/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AoraHandler 处理用户与影片相关的 HTTP 请求
type AoraHandler struct {
	Usecase app.AoraUseCase
}

// NewAoraHandler 创建新的 AoraHandler
func NewAoraHandler(usecase app.AoraUseCase) *AoraHandler {
	return &AoraHandler{
		Usecase: usecase,
	}
}

// formFileAsset 從 multipart 表單取出一個檔案，欄位不存在時回 nil
func formFileAsset(c *fiber.Ctx, field string) (*domain.FileAsset, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}

	asset := &domain.FileAsset{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get(fiber.HeaderContentType),
		Size:     fh.Size,
		Content:  f,
	}
	return asset, func() { f.Close() }, nil
}

// currentToken 取出由 JWT middleware 放入的原始 token
func currentToken(c *fiber.Ctx) (string, bool) {
	t, ok := c.Locals(middlewares.TokenRaw).(string)
	return t, ok
}

// Register 注册新用户
// @Summary Register a new user
// @Tags Users
// @Accept json
// @Produce json
// @Router /user/register [post]
func (h *AoraHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Register request", zap.String("email", req.Email), zap.String("username", req.Username))

	user, session, err := h.Usecase.Register(c.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	logger.Log.Info(fmt.Sprintf("Register success account[%s]", user.AccountID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": session.Token,
	})
}

// Login 用户登录
// @Summary Sign in with email and password
// @Tags Users
// @Accept json
// @Produce json
// @Router /user/login [post]
func (h *AoraHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Login", zap.String("Email", req.Email))

	session, err := h.Usecase.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"token": session.Token, "message": "login success"})
}

// Logout 用户登出
// @Summary Delete the current session
// @Tags Users
// @Produce json
// @Router /user/logout [post]
func (h *AoraHandler) Logout(c *fiber.Ctx) error {
	t, ok := currentToken(c)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenRaw)})
	}

	if err := h.Usecase.SignOut(c.Context(), t); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "logout success"})
}

// Me 取得目前登入的使用者文件
// @Summary Get the current user document
// @Tags Users
// @Produce json
// @Router /user/me [get]
func (h *AoraHandler) Me(c *fiber.Ctx) error {
	t, ok := currentToken(c)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenRaw)})
	}

	user, _ := h.Usecase.GetCurrentUser(c.Context(), t)
	if user == nil {
		// 「未登入」和「查詢失敗」同樣回空結果
		return c.JSON(fiber.Map{"user": nil})
	}

	return c.JSON(fiber.Map{"user": user})
}

// UploadFile 上傳單一檔案並回傳參照
// @Summary Upload a file and get back a resolvable reference
// @Tags Files
// @Accept mpfd
// @Produce json
// @Router /upload [post]
func (h *AoraHandler) UploadFile(c *fiber.Ctx) error {
	asset, closeFn, err := formFileAsset(c, "file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid file"})
	}
	defer closeFn()

	ref, err := h.Usecase.UploadFile(c.Context(), asset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"url": ref})
}

// CreateVideoPost 發佈影片
// @Summary Publish a video post with thumbnail and video files
// @Tags Videos
// @Accept mpfd
// @Produce json
// @Router /video [post]
func (h *AoraHandler) CreateVideoPost(c *fiber.Ctx) error {
	thumbnail, closeThumb, err := formFileAsset(c, "thumbnail")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid thumbnail"})
	}
	defer closeThumb()

	video, closeVideo, err := formFileAsset(c, "video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid video"})
	}
	defer closeVideo()

	accountID, _ := c.Locals(middlewares.TokenAccountID).(string)
	form := &domain.VideoForm{
		Title:     c.FormValue("title"),
		Prompt:    c.FormValue("prompt"),
		CreatorID: c.FormValue("creator", accountID),
		Thumbnail: thumbnail,
		Video:     video,
	}

	post, err := h.Usecase.CreateVideoPost(c.Context(), form)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetAllPosts 取得全部影片
// @Summary List all video posts
// @Tags Videos
// @Produce json
// @Router /video [get]
func (h *AoraHandler) GetAllPosts(c *fiber.Ctx) error {
	posts, err := h.Usecase.GetAllPosts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(posts)
}

// GetLatestPosts 取得最新影片
// @Summary List the latest video posts (at most 7, newest first)
// @Tags Videos
// @Produce json
// @Router /video/latest [get]
func (h *AoraHandler) GetLatestPosts(c *fiber.Ctx) error {
	posts, err := h.Usecase.GetLatestPosts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(posts)
}

// SearchPosts 標題搜尋
// @Summary Search video posts by title
// @Tags Videos
// @Produce json
// @Param q query string true "search term"
// @Router /video/search [get]
func (h *AoraHandler) SearchPosts(c *fiber.Ctx) error {
	keyword := c.Query("q")
	posts, err := h.Usecase.SearchPosts(c.Context(), keyword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(posts)
}

// GetUserPosts 取得指定使用者的影片
// @Summary List video posts created by a user
// @Tags Videos
// @Produce json
// @Router /video/user/{id} [get]
func (h *AoraHandler) GetUserPosts(c *fiber.Ctx) error {
	posts, err := h.Usecase.GetUserPosts(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(posts)
}

// DeletePost 刪除影片
// @Summary Delete a video post by ID
// @Tags Videos
// @Produce json
// @Router /video/{id} [delete]
func (h *AoraHandler) DeletePost(c *fiber.Ctx) error {
	ok, err := h.Usecase.DeletePost(c.Context(), c.Params("id"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errprocess.KindOf(err) == errprocess.KindDeletion {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": ok})
}
