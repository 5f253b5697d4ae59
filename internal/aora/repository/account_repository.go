package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"aora_backend/internal/aora/domain"
)

// ErrAccountNotFound no account matched the query conditions
var ErrAccountNotFound = errors.New("no account found with given criteria")

// AccountRepository definition get Account info
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error)
}

type accountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository create a AccountRepository
func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO account(account_id, email, password, created_at) VALUES ($1, $2, $3, $4)",
		account.AccountID, account.Email, account.Password, account.CreatedAt)
	return err
}

func (r *accountRepository) FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error) {
	queryStr := "SELECT id, account_id, email, password, created_at FROM account WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if accountQuery.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *accountQuery.Email)
		paramCount++
	}
	if accountQuery.AccountID != nil {
		queryStr += fmt.Sprintf(" AND account_id = $%d", paramCount)
		params = append(params, *accountQuery.AccountID)
		paramCount++
	}
	if accountQuery.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *accountQuery.ID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var account domain.Account
	err := row.Scan(&account.ID, &account.AccountID, &account.Email, &account.Password, &account.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &account, nil
}
