package dto

import "github.com/pcbuilder/storefront/internal/domain/model"

// ProfileRequest carries the editable profile fields.
type ProfileRequest struct {
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatarUrl"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// Update converts the request into a domain update.
func (r ProfileRequest) Update() model.ProfileUpdate {
	return model.ProfileUpdate{
		DisplayName: r.DisplayName,
		Username:    r.Username,
		AvatarURL:   r.AvatarURL,
		Phone:       r.Phone,
		Address:     r.Address,
	}
}
