package workflow

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
)

// deriveUsername builds the candidate username from the email local-part,
// falling back to "user_" plus the first 6 characters of the external ID when
// no email is present.
func deriveUsername(email, externalID string) string {
	if email != "" {
		if local, _, found := strings.Cut(email, "@"); found && local != "" {
			return local
		}
	}

	id := externalID
	if len(id) > 6 {
		id = id[:6]
	}
	return "user_" + id
}

// resolveUsername disambiguates a colliding username by appending a random
// numeric suffix in [0,9999]. The check-then-write is not transactional, so
// concurrent signups with the same derived name can still collide; that race
// is accepted.
func resolveUsername(ctx context.Context, users interfaces.UserRepository, candidate string) (string, error) {
	_, err := users.GetByUsername(ctx, candidate)
	if errors.Is(err, interfaces.ErrNotFound) {
		return candidate, nil
	}
	if err != nil {
		return "", goerr.Wrap(err, "failed to check username", goerr.V("username", candidate))
	}

	return fmt.Sprintf("%s_%d", candidate, rand.IntN(10000)), nil
}
