// Package common contains shared constants and sentinel errors used across
// profilehub components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on inbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is the scheme prefix expected in the authorization header.
	BearerPrefix = "Bearer "

	// RoleAdmin is the role name allowed through admin-only routes.
	RoleAdmin = "admin"

	// RoleUser is the role assigned to newly registered accounts.
	RoleUser = "user"
)
