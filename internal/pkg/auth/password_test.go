package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasherCost(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "zero falls back", in: 0, want: bcrypt.DefaultCost},
		{name: "below minimum falls back", in: bcrypt.MinCost - 1, want: bcrypt.DefaultCost},
		{name: "custom", in: bcrypt.MinCost + 1, want: bcrypt.MinCost + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBcryptHasher(tt.in).cost; got != tt.want {
				t.Fatalf("unexpected cost: %d", got)
			}
		})
	}
}

func TestBcryptHasherHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "" || hash == "correct-horse" {
		t.Fatalf("unexpected hash %q", hash)
	}
	if err := hasher.Compare(hash, "correct-horse"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestBcryptHasherCompareMalformedHash(t *testing.T) {
	err := NewBcryptHasher(bcrypt.MinCost).Compare("not-a-bcrypt-hash", "secret")
	if err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected malformed hash error, got %v", err)
	}
}

func TestBcryptHasherHashErrors(t *testing.T) {
	hasher := &BcryptHasher{cost: bcrypt.MaxCost + 1}
	if _, err := hasher.Hash("password"); err == nil {
		t.Fatal("expected hash error for invalid cost")
	}

	long := strings.Repeat("a", 73)
	if _, err := NewBcryptHasher(bcrypt.MinCost).Hash(long); !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Fatalf("expected too long error, got %v", err)
	}
}
