package auth

import (
	"time"

	"github.com/google/uuid"
)

type Strategy interface {
	IssueToken(userID uuid.UUID) (string, error)
	ParseToken(token string) (uuid.UUID, error)
	Name() string
}

type Options struct {
	TTL    time.Duration
	Issuer string
}
