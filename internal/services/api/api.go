// Package api assembles the HTTP API for the application
package api

import (
	"classboard/internal/platform/config"
	"classboard/internal/platform/logger"
	phttp "classboard/internal/platform/net/http"
	"classboard/internal/platform/store"

	"classboard/internal/core/rules"
	"classboard/internal/modkit"
	"classboard/internal/modkit/httpkit"
	"classboard/internal/modkit/module"
	"classboard/internal/modkit/swaggerkit"

	apiingest "classboard/internal/services/api/ingest/module"
	metamod "classboard/internal/services/api/meta/module"
	portalmod "classboard/internal/services/api/portal/module"

	auditmod "classboard/internal/services/audit/module"
	ingestmod "classboard/internal/services/ingest/module"
	postsmod "classboard/internal/services/posts/module"
	"classboard/internal/services/sentiment"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	pack, err := rules.Load()
	if err != nil {
		panic("api: rule pack: " + err.Error())
	}

	// core modules first so their ports can feed the API verticals
	posts := postsmod.New(deps)
	postsPorts := module.MustPortsOf[postsmod.Ports](posts)

	audit := auditmod.New(deps)
	auditPorts := module.MustPortsOf[auditmod.Ports](audit)

	ingest := ingestmod.New(deps, postsPorts.Store, auditPorts.Recorder)
	ingestPorts := module.MustPortsOf[ingestmod.Ports](ingest)

	portal := portalmod.New(deps, modkit.WithPorts(portalmod.Ports{
		Query:     postsPorts.Query,
		Sentiment: sentiment.New(postsPorts.Store, nil),
	}))
	ingestAPI := apiingest.New(deps, modkit.WithPorts(apiingest.Ports{
		Ingest: ingestPorts.Ingest,
	}))
	meta := metamod.New(deps, opt.Store, pack)

	mods := []module.Module{
		posts,
		audit,
		ingest,
		meta,
		portal,
		ingestAPI,
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
