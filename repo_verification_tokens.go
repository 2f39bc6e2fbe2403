package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type VerificationTokens interface {
	repository.Repository[*VerificationToken]

	GetByTokenTx(ctx context.Context, tx bun.IDB, token string) (*VerificationToken, error)
	SupersedePendingTx(ctx context.Context, tx bun.IDB, recipientID uuid.UUID) (int64, error)
	UpdateStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status string) error
}

type verificationTokens struct {
	repository.Repository[*VerificationToken]
	db *bun.DB
}

var _ VerificationTokens = (*verificationTokens)(nil)

func NewVerificationTokensRepository(db *bun.DB) VerificationTokens {
	repo := repository.NewRepository[*VerificationToken](db, repository.ModelHandlers[*VerificationToken]{
		NewRecord: func() *VerificationToken { return &VerificationToken{} },
		GetID: func(record *VerificationToken) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *VerificationToken, id uuid.UUID) {
			if record != nil {
				record.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &verificationTokens{
		Repository: repo,
		db:         db,
	}
}

// GetByTokenTx finds a token record. Malformed tokens are reported as not found.
func (r *verificationTokens) GetByTokenTx(ctx context.Context, tx bun.IDB, token string) (*VerificationToken, error) {
	id, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, goerrors.New("verification token not found", goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound)
	}

	record := &VerificationToken{}
	err = tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerrors.New("verification token not found", goerrors.CategoryNotFound).
				WithCode(goerrors.CodeNotFound)
		}
		return nil, err
	}

	return record, nil
}

func (r *verificationTokens) SupersedePendingTx(ctx context.Context, tx bun.IDB, recipientID uuid.UUID) (int64, error) {
	res, err := tx.NewUpdate().
		Model((*VerificationToken)(nil)).
		Set("status = ?", VerificationSupersededStatus).
		Set("updated_at = ?", time.Now().UTC()).
		Where("recipient_id = ?", recipientID).
		Where("status = ?", VerificationPendingStatus).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *verificationTokens) UpdateStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status string) error {
	now := time.Now().UTC()
	q := tx.NewUpdate().
		Model((*VerificationToken)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", now).
		Where("id = ?", id)

	if status == VerificationVerifiedStatus {
		q = q.Set("verified_at = ?", now)
	}

	_, err := q.Exec(ctx)
	return err
}
