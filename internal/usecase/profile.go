package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
	"github.com/pcbuilder/storefront/internal/domain/repository"
)

// ProfileUseCase manages account details and roles.
type ProfileUseCase struct {
	profiles repository.ProfileRepository
}

// NewProfileUseCase constructs ProfileUseCase.
func NewProfileUseCase(profiles repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{profiles: profiles}
}

func (u *ProfileUseCase) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	return u.profiles.Get(ctx, userID)
}

// Update stores the editable fields, creating the profile when missing.
func (u *ProfileUseCase) Update(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (*model.Profile, error) {
	update.DisplayName = strings.TrimSpace(update.DisplayName)
	update.Username = strings.TrimSpace(update.Username)
	update.AvatarURL = strings.TrimSpace(update.AvatarURL)
	update.Phone = strings.TrimSpace(update.Phone)
	update.Address = strings.TrimSpace(update.Address)
	return u.profiles.Upsert(ctx, userID, update)
}

func (u *ProfileUseCase) List(ctx context.Context) ([]model.Profile, error) {
	list, err := u.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Profile{}
	}
	return list, nil
}

// IsAdmin reports whether the user carries the admin role. A user without a
// profile is not an admin.
func (u *ProfileUseCase) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	profile, err := u.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.IsAdmin(), nil
}
