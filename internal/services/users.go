package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NickEsColR/link-shorterer-seo/internal/models"
	"github.com/NickEsColR/link-shorterer-seo/pkg/utils"

	"gorm.io/gorm"
)

var ErrUnknownAPIKey = errors.New("unknown API key")

// UserService provisions local user rows for identities verified by the
// external provider. The provider owns credentials and lifecycle; the
// local row only anchors link ownership and the API key.
type UserService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserService(db *gorm.DB, logger *slog.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

// EnsureUser finds or creates the user for an external subject. The row
// is created on the first authenticated action; a racing first action
// loses the unique(external_id) insert and re-reads.
func (s *UserService) EnsureUser(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		ExternalID: externalID,
		APIKey:     utils.GenerateAPIKey(),
	}
	err = s.db.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Provisioned user for external identity", "user_id", user.ID)
	return &user, nil
}

func (s *UserService) FindByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownAPIKey
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) RotateAPIKey(ctx context.Context, userID uint) (string, error) {
	newKey := utils.GenerateAPIKey()
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("api_key", newKey).Error; err != nil {
		return "", err
	}
	return newKey, nil
}
