package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"classboard/internal/modkit"
	"classboard/internal/modkit/module"
	"classboard/internal/platform/config"
	"classboard/internal/platform/logger"
	"classboard/internal/platform/store"

	"classboard/internal/adapters/edfeed"
	auditmod "classboard/internal/services/audit/module"
	ingestmod "classboard/internal/services/ingest/module"
	postsmod "classboard/internal/services/posts/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	feedCfg := root.Prefix("CORE_EDFEED_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		AppName: "classboard-watch",
		PG: store.PGConfig{
			Enabled:     pgCfg.MayString("DBURL", "") != "",
			URL:         pgCfg.MayString("DBURL", ""),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: chCfg.MayString("DBURL", "") != "",
			URL:     chCfg.MayString("DBURL", ""),
			Role:    "watch",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var (
		fInterval = flag.Duration("interval", feedCfg.MayDuration("POLL_INTERVAL", 30*time.Second), "poll interval")
		fBaseURL  = flag.String("base-url", feedCfg.MayString("BASE_URL", ""), "forum API base url")
		fCourse   = flag.String("course", feedCfg.MayString("COURSE_ID", ""), "course id")
		fToken    = flag.String("token", feedCfg.MayString("TOKEN", ""), "API bearer token")
	)
	flag.Parse()

	deps := modkit.Deps{
		Cfg: root,
		Log: *l,
		PG:  st.PG,
		CH:  st.CH,
	}

	posts := postsmod.New(deps)
	postsPorts := module.MustPortsOf[postsmod.Ports](posts)
	audit := auditmod.New(deps)
	auditPorts := module.MustPortsOf[auditmod.Ports](audit)
	ing := ingestmod.New(deps, postsPorts.Store, auditPorts.Recorder)

	module.Register(posts.Name(), posts.Ports())
	module.Register(audit.Name(), audit.Ports())
	module.Register(ing.Name(), ing.Ports())

	ports := module.MustPortsOf[ingestmod.Ports](ing)

	client, err := edfeed.NewClient(edfeed.Options{
		BaseURL:  *fBaseURL,
		CourseID: *fCourse,
		Token:    *fToken,
	})
	if err != nil {
		l.Panic().Err(err).Msg("edfeed client init failed")
	}

	l.Info().Dur("interval", *fInterval).Str("course", *fCourse).Msg("watch loop starting")

	tick := time.NewTicker(*fInterval)
	defer tick.Stop()

	// transient poll failures back the loop off up to a minute;
	// the next healthy poll resets it
	failures := 0
	for {
		evs, err := client.Poll(ctx)
		switch {
		case err == nil:
			failures = 0
			for _, ev := range evs {
				if _, err := ports.Ingest.Ingest(ctx, ev); err != nil {
					l.Error().Err(err).Str("event_id", ev.ID).Str("kind", string(ev.Kind)).Msg("ingest failed")
				}
			}
			if len(evs) > 0 {
				l.Info().Int("events", len(evs)).Msg("poll applied")
			}
		case ctx.Err() != nil:
			l.Info().Msg("watch loop stopping")
			return
		default:
			failures++
			back := time.Duration(failures) * (*fInterval)
			if back > time.Minute {
				back = time.Minute
			}
			l.Warn().Err(err).Dur("backoff", back).Msg("poll failed")
			select {
			case <-time.After(back):
			case <-ctx.Done():
				l.Info().Msg("watch loop stopping")
				return
			}
		}

		select {
		case <-tick.C:
		case <-ctx.Done():
			l.Info().Msg("watch loop stopping")
			return
		}
	}
}
