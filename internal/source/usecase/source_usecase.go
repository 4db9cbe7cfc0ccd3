package usecase

import (
	"errors"
	"time"

	ingestdomain "aura-backend/internal/ingest/domain"
	sourcedomain "aura-backend/internal/source/domain"
	"aura-backend/internal/source/repository"
	"aura-backend/pkg/crypto"
)

var ErrSourceNotFound = errors.New("data source not found")

// RegisterSourceRequest carries the plaintext credentials handed over at
// connect time; they never leave this layer unencrypted.
type RegisterSourceRequest struct {
	SourceType   ingestdomain.SourceType
	DisplayName  string
	AccessToken  string
	RefreshToken string
	TokenExpiry  *time.Time
}

// SourceUsecase manages connected accounts
type SourceUsecase interface {
	Register(userID string, req RegisterSourceRequest) (*sourcedomain.DataSource, error)
	List(userID string) ([]*sourcedomain.DataSource, error)
	Toggle(userID string, sourceType ingestdomain.SourceType) (*sourcedomain.DataSource, error)
	Remove(userID string, sourceType ingestdomain.SourceType) error
}

type sourceUsecase struct {
	sourceRepo    repository.DataSourceRepository
	encryptionKey string
}

func NewSourceUsecase(sourceRepo repository.DataSourceRepository, encryptionKey string) SourceUsecase {
	return &sourceUsecase{sourceRepo: sourceRepo, encryptionKey: encryptionKey}
}

func (u *sourceUsecase) Register(userID string, req RegisterSourceRequest) (*sourcedomain.DataSource, error) {
	encryptedAccess, err := crypto.Encrypt(req.AccessToken, u.encryptionKey)
	if err != nil {
		return nil, err
	}

	encryptedRefresh := ""
	if req.RefreshToken != "" {
		encryptedRefresh, err = crypto.Encrypt(req.RefreshToken, u.encryptionKey)
		if err != nil {
			return nil, err
		}
	}

	source := &sourcedomain.DataSource{
		UserID:       userID,
		SourceType:   req.SourceType,
		DisplayName:  req.DisplayName,
		AccessToken:  encryptedAccess,
		RefreshToken: encryptedRefresh,
		TokenExpiry:  req.TokenExpiry,
		IsActive:     true,
	}
	return u.sourceRepo.Save(source)
}

func (u *sourceUsecase) List(userID string) ([]*sourcedomain.DataSource, error) {
	return u.sourceRepo.ListByUser(userID)
}

func (u *sourceUsecase) Toggle(userID string, sourceType ingestdomain.SourceType) (*sourcedomain.DataSource, error) {
	source, err := u.sourceRepo.GetByUserAndType(userID, sourceType)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrSourceNotFound
	}
	if err := u.sourceRepo.SetActive(userID, sourceType, !source.IsActive); err != nil {
		return nil, err
	}
	source.IsActive = !source.IsActive
	return source, nil
}

func (u *sourceUsecase) Remove(userID string, sourceType ingestdomain.SourceType) error {
	source, err := u.sourceRepo.GetByUserAndType(userID, sourceType)
	if err != nil {
		return err
	}
	if source == nil {
		return ErrSourceNotFound
	}
	return u.sourceRepo.Delete(userID, sourceType)
}
