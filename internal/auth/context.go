package auth

import "context"

type contextKey string

const (
	contextKeyEmail contextKey = "auth.email"
	contextKeyRole  contextKey = "auth.role"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, email string, role Role) context.Context {
	ctx = context.WithValue(ctx, contextKeyEmail, email)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	return ctx
}

// EmailFromContext extracts the user email from context.
func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if email, ok := ctx.Value(contextKeyEmail).(string); ok {
		return email
	}
	return ""
}

// RoleFromContext extracts role from context.
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeyRole)
	if role, ok := value.(Role); ok {
		return role
	}
	if role, ok := value.(string); ok {
		if normalized, valid := NormalizeRole(role); valid {
			return normalized
		}
	}
	return ""
}
