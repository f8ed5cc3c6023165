package handler

import (
	"net/http"

	"github.com/previewer-dev/previewer/frontend/internal/apiclient"
	"github.com/previewer-dev/previewer/frontend/internal/loader"
	"github.com/previewer-dev/previewer/frontend/internal/preview"
	"github.com/previewer-dev/previewer/frontend/internal/resolver"
	"github.com/previewer-dev/previewer/frontend/internal/session"
	"github.com/previewer-dev/previewer/shared/config"
	"github.com/previewer-dev/previewer/shared/hostctx"
	"github.com/previewer-dev/previewer/shared/jwt"
)

// NewMachineBuilder wires each mount to the results service. The API root follows the page
// that embedded the previewer, so cloud hosts reach their attachment sub-domain.
func NewMachineBuilder(results config.Results, locale string) MachineBuilder {
	return func(r *http.Request, claims *jwt.HandshakeClaims) session.MachineFactory {
		client := apiclient.ForMount(results.DefaultRoot, r.Referer(), claims.Host, claims.AccessToken, results.Timeout)
		host := hostctx.FromClaims(*claims)
		return func(handles *preview.HandleStore) *preview.Machine {
			return preview.New(host, resolver.New(client), loader.New(client, locale), handles)
		}
	}
}
