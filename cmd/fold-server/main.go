package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foldcms/fold/internal/api"
	"github.com/foldcms/fold/internal/api/handlers"
	"github.com/foldcms/fold/internal/auth"
	"github.com/foldcms/fold/internal/config"
	"github.com/foldcms/fold/internal/edit"
	"github.com/foldcms/fold/internal/flash"
	"github.com/foldcms/fold/internal/i18n"
	"github.com/foldcms/fold/internal/platform/factory"
	"github.com/foldcms/fold/internal/platform/logger"
	"github.com/foldcms/fold/internal/schema"
	"github.com/foldcms/fold/internal/services"
	"github.com/foldcms/fold/internal/store"
	"github.com/foldcms/fold/internal/users"
)

func main() {
	// Optional driver override (sqlite | postgres)
	dbDriver := flag.String("db-driver", "", "Override FOLD_DB_DRIVER (sqlite, postgres)")
	flag.Parse()

	log := logger.New("fold-server")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Environment == config.EnvDevelopment {
		log = logger.NewConsole("fold-server")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Fold content service starting…")

	st, err := factory.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Storage unavailable")
	}

	registry, err := schema.Load(cfg.ContentTypesPath, cfg.TaxonomyPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ContentTypesPath).Msg("Invalid contenttype configuration")
	}

	var translator *i18n.Translator
	if cfg.MessagesPath != "" {
		translator, err = i18n.Load(cfg.Locale, cfg.MessagesPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.MessagesPath).Msg("Invalid message catalog")
		}
	} else {
		translator = i18n.New(cfg.Locale, nil)
	}

	var authorizer edit.Authorizer
	if cfg.AuthServiceURL != "" {
		authorizer = auth.NewRemoteAuthorizer(cfg.AuthServiceURL, cfg.AuthServiceKey)
	} else {
		authorizer = auth.NewRoleAuthorizer()
	}

	content := services.NewContentService(st, registry)
	assembler := edit.NewAssembler(edit.Deps{
		Auth:              authorizer,
		Users:             users.NewDirectory(st.Users()),
		Translator:        translator,
		Notifier:          flash.NewLogger(log),
		Source:            content,
		FieldTypes:        registry.FieldTypes(),
		Taxonomies:        registry.Taxonomies(),
		Policy:            edit.GroupingPolicy(cfg.GroupingPolicy),
		SkipSelfRelations: cfg.SkipSelfRelations,
	})

	var pinger store.HealthPinger
	if hp, ok := st.(store.HealthPinger); ok {
		pinger = hp
	}

	router := api.NewRouter(api.Deps{
		Health:       handlers.NewHealthHandler(pinger),
		ContentTypes: handlers.NewContentTypesHandler(registry),
		Content:      handlers.NewContentHandler(content),
		Edit:         handlers.NewEditHandler(registry, content, assembler),
		Keyring:      auth.NewDevKeyring(),
	})

	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
