package domain

import (
	"time"

	"aora_backend/pkg/encrypt"
)

// Account 用來表示遠端帳號，密碼只存 bcrypt 雜湊
type Account struct {
	ID        int64
	AccountID string
	Email     string
	Password  string
	CreatedAt time.Time
}

// User 使用者文件，註冊完成後與 Account 以 accountId 連結
type User struct {
	ID        string    `bson:"_id"`
	AccountID string    `bson:"account_id"`
	Email     string    `bson:"email"`
	Username  string    `bson:"username"`
	Avatar    string    `bson:"avatar"`
	CreatedAt time.Time `bson:"created_at"`
}

// Session 用來表示一次登入的會話，key 為 SessionID
type Session struct {
	SessionID string    `json:"SessionID"`
	AccountID string    `json:"AccountID"`
	Token     string    `json:"Token"`
	CreatedAt time.Time `json:"CreatedAt"`
	ExpiredAt time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch 密碼驗證
func (a *Account) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(a.Password, inputPwd)
}

// IsExpired 檢查 Session 是否已過期
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// AccountQuery join conditions are used to query accounts
type AccountQuery struct {
	ID        *int64  `db:"id"`
	AccountID *string `db:"account_id"`
	Email     *string `db:"email"`
}
