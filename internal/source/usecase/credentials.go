package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"aura-backend/internal/ingest/connector"
	ingestdomain "aura-backend/internal/ingest/domain"
	"aura-backend/internal/source/repository"
	"aura-backend/pkg/crypto"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CredentialProvider hands out a plaintext access token for one source,
// refreshing Google tokens when they are about to expire. A missing,
// disabled, or unrefreshable source surfaces as ErrAuthExpired so the
// sync layer treats it like any other credential failure.
type CredentialProvider struct {
	sourceRepo    repository.DataSourceRepository
	encryptionKey string
	oauthConfig   *oauth2.Config
	now           func() time.Time
}

func NewCredentialProvider(sourceRepo repository.DataSourceRepository, encryptionKey, googleClientID, googleClientSecret string) *CredentialProvider {
	return &CredentialProvider{
		sourceRepo:    sourceRepo,
		encryptionKey: encryptionKey,
		oauthConfig: &oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			Endpoint:     google.Endpoint,
		},
		now: time.Now,
	}
}

func (p *CredentialProvider) GetAccessCredential(ctx context.Context, userID string, sourceType ingestdomain.SourceType) (string, error) {
	source, err := p.sourceRepo.GetByUserAndType(userID, sourceType)
	if err != nil {
		return "", err
	}
	if source == nil {
		return "", fmt.Errorf("%w: no %s source connected", connector.ErrAuthExpired, sourceType)
	}
	if !source.IsActive {
		return "", fmt.Errorf("%w: %s source is disabled", connector.ErrAuthExpired, sourceType)
	}

	accessToken, err := crypto.Decrypt(source.AccessToken, p.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: stored token unreadable", connector.ErrAuthExpired)
	}

	if !isGoogleSource(sourceType) || !source.TokenExpired(p.now()) {
		return accessToken, nil
	}

	if source.RefreshToken == "" {
		return "", fmt.Errorf("%w: token expired and no refresh token stored", connector.ErrAuthExpired)
	}
	refreshToken, err := crypto.Decrypt(source.RefreshToken, p.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: stored refresh token unreadable", connector.ErrAuthExpired)
	}

	refreshed, err := p.oauthConfig.TokenSource(ctx, &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Expiry:       *source.TokenExpiry,
	}).Token()
	if err != nil {
		return "", fmt.Errorf("%w: refresh failed: %v", connector.ErrAuthExpired, err)
	}

	if err := p.persistRefreshed(source.UserID, sourceType, refreshed); err != nil {
		// The fresh token is still usable this run
		log.Printf("[CredentialProvider] failed to persist refreshed token for %s/%s: %v", userID, sourceType, err)
	}

	return refreshed.AccessToken, nil
}

func (p *CredentialProvider) persistRefreshed(userID string, sourceType ingestdomain.SourceType, token *oauth2.Token) error {
	source, err := p.sourceRepo.GetByUserAndType(userID, sourceType)
	if err != nil || source == nil {
		return err
	}

	encryptedAccess, err := crypto.Encrypt(token.AccessToken, p.encryptionKey)
	if err != nil {
		return err
	}
	source.AccessToken = encryptedAccess
	if token.RefreshToken != "" {
		encryptedRefresh, err := crypto.Encrypt(token.RefreshToken, p.encryptionKey)
		if err != nil {
			return err
		}
		source.RefreshToken = encryptedRefresh
	}
	expiry := token.Expiry
	source.TokenExpiry = &expiry

	_, err = p.sourceRepo.Save(source)
	return err
}

func isGoogleSource(sourceType ingestdomain.SourceType) bool {
	return sourceType == ingestdomain.SourceMail || sourceType == ingestdomain.SourceDrive
}
