// Package hostctx is the previewer's view of the host application: which project is active
// and which run, result and sub-result the host selected.
package hostctx

import (
	"context"

	"github.com/previewer-dev/previewer/shared/domain"
	"github.com/previewer-dev/previewer/shared/jwt"
)

// Provider answers the host context questions for one mount.
type Provider interface {
	// ActiveProject returns nil when the host has no active project.
	ActiveProject(ctx context.Context) (*domain.Project, error)
	Identity(ctx context.Context) (domain.RunIdentity, error)
	// AccessToken is the bearer token the host granted for the results service, if any.
	AccessToken() string
}

// Handshake is a Provider backed by verified handshake claims.
type Handshake struct {
	claims jwt.HandshakeClaims
}

func FromClaims(claims jwt.HandshakeClaims) *Handshake {
	return &Handshake{claims: claims}
}

func (h *Handshake) ActiveProject(ctx context.Context) (*domain.Project, error) {
	if h.claims.Project == "" {
		return nil, nil
	}
	return &domain.Project{Name: h.claims.Project, Host: h.claims.Host}, nil
}

func (h *Handshake) Identity(ctx context.Context) (domain.RunIdentity, error) {
	return domain.RunIdentity{
		RunID:     h.claims.RunID,
		ResultID:  h.claims.ResultID,
		SubResult: domain.SubResultFromWire(h.claims.SubResultID),
	}, nil
}

func (h *Handshake) AccessToken() string {
	return h.claims.AccessToken
}
