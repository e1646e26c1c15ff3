package services

import (
	"context"

	"github.com/dkovalev-net/vizlab/internal/client/api"
	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/logging"
)

// SettingsService updates the caller's profile and password.
type SettingsService struct {
	api    *api.Client
	log    logging.Logger
	notify Notifier
}

func NewSettingsService(client *api.Client, log logging.Logger, notify Notifier) *SettingsService {
	return &SettingsService{api: client, log: log.With("service", "settings"), notify: notify}
}

// UpdateProfile applies a partial profile update and returns the fresh
// user record.
func (s *SettingsService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	var user models.User
	if err := s.api.PutJSON(ctx, "/api/settings/profile", upd, &user); err != nil {
		s.log.Error(ctx, "update profile", "error", err)
		s.notify.Error("Failed to update profile")
		return models.User{}, err
	}
	s.notify.Success("Profile updated successfully")
	return user, nil
}

// ChangePassword replaces the account password.
func (s *SettingsService) ChangePassword(ctx context.Context, current, next []byte) error {
	payload := models.PasswordChange{CurrentPassword: string(current), NewPassword: string(next)}
	if err := s.api.PutJSON(ctx, "/api/settings/password", payload, nil); err != nil {
		s.log.Error(ctx, "change password", "error", err)
		s.notify.Error("Failed to change password")
		return err
	}
	s.notify.Success("Password changed successfully")
	return nil
}
