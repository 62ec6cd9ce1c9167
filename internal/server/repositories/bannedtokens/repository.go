// Package bannedtokens records identifiers that must never be accepted
// again: superseded by login/register, revoked by logout, or expired.
package bannedtokens

import "context"

type Repository interface {
	// Ban is idempotent.
	Ban(ctx context.Context, token string) error
	IsBanned(ctx context.Context, token string) (bool, error)
}
