package model

import (
	"strings"
	"time"

	"github.com/vela-social/vela/pkg/domain/types"
)

// User is the application's copy of an identity-provider account. It is
// created, updated and deleted only by the user sync workflows; the rest of
// the application reads it.
type User struct {
	ID             types.UserID
	Username       string
	Email          string
	FullName       string
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ComposeFullName joins first and last name with a single space, skipping
// empty parts.
func ComposeFullName(firstName, lastName string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{firstName, lastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
