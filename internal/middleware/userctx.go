package middleware

import (
	"context"

	"github.com/pandenic/media-review-board/internal/access"
)

type principalKey struct{}

func WithPrincipal(ctx context.Context, p access.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller stored by Authenticate, or the anonymous
// principal.
func PrincipalFrom(ctx context.Context) access.Principal {
	if v := ctx.Value(principalKey{}); v != nil {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.Principal{}
}
