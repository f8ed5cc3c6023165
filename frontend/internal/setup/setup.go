package setup

import (
	"fmt"
	"time"

	"github.com/previewer-dev/previewer/frontend/internal/handler"
	"github.com/previewer-dev/previewer/frontend/internal/markdown"
	"github.com/previewer-dev/previewer/frontend/internal/session"
	"github.com/previewer-dev/previewer/frontend/templates"
	"github.com/previewer-dev/previewer/shared/config"
	"github.com/previewer-dev/previewer/shared/jwt"
	mw "github.com/previewer-dev/previewer/shared/middleware"
	"github.com/previewer-dev/previewer/shared/middleware/ratelimiter"
)

const mountLimiterExpiration = time.Hour

type Dependencies struct {
	Handler      *handler.Handler
	Handshake    *mw.Handshake
	MountLimiter *ratelimiter.KeyedRateLimiter
	Public       config.Public
	Sessions     *session.Store
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	tmpl, err := handler.ParseTemplates(templates.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	sessions := session.NewStore(cfg.Public.Preview.MaxSessions, cfg.Public.Preview.SessionTTL)
	h := handler.New(
		tmpl,
		cfg.Public,
		markdown.New(),
		sessions,
		handler.NewMachineBuilder(cfg.Public.Results, cfg.Public.Preview.Locale),
	)

	// Handshake tokens are minted by the host; the previewer only verifies them.
	handshake := jwt.New(cfg.HandshakeKey(), 0)

	security := cfg.Public.Security
	return &Dependencies{
		Handler:      h,
		Handshake:    mw.NewHandshake(handshake),
		MountLimiter: ratelimiter.New(security.MountRate, float64(security.MountBurst), mountLimiterExpiration),
		Public:       cfg.Public,
		Sessions:     sessions,
	}, nil
}
