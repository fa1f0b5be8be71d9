// Package middleware carries request identity and client metadata between the
// HTTP layer and the services.
package middleware

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const (
	contextKeyUserID    contextKey = "user_id"
	contextKeyUserEmail contextKey = "user_email"
	contextKeyUserRole  contextKey = "user_role"
	contextKeyClientIP  contextKey = "client_ip"
	contextKeyUserAgent contextKey = "user_agent"
)

// ClientInfo describes the calling client.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// WithIdentity returns a context carrying the authenticated user.
func WithIdentity(ctx context.Context, userID, email, role string) context.Context {
	ctx = context.WithValue(ctx, contextKeyUserID, userID)
	ctx = context.WithValue(ctx, contextKeyUserEmail, email)
	return context.WithValue(ctx, contextKeyUserRole, role)
}

// WithClientInfo returns a context carrying client metadata.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP, info.IPAddress)
	return context.WithValue(ctx, contextKeyUserAgent, info.UserAgent)
}

// UserIDFromContext extracts the authenticated user's ID.
func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	raw, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// UserRoleFromContext extracts the authenticated user's account role.
func UserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(contextKeyUserRole).(string)
	return role, ok
}

// UserEmailFromContext extracts the authenticated user's email.
func UserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(contextKeyUserEmail).(string)
	return email, ok
}

// ClientInfoFromContext extracts client metadata, empty when absent.
func ClientInfoFromContext(ctx context.Context) ClientInfo {
	info := ClientInfo{}
	if ip, ok := ctx.Value(contextKeyClientIP).(string); ok {
		info.IPAddress = ip
	}
	if ua, ok := ctx.Value(contextKeyUserAgent).(string); ok {
		info.UserAgent = ua
	}
	return info
}
