package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/fatimaschool/website/apps/api/echo"
	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/admin"
	"github.com/fatimaschool/website/core/feedback"
	"github.com/fatimaschool/website/core/gallery"
	emailsvc "github.com/fatimaschool/website/services/email"
	logsvc "github.com/fatimaschool/website/services/logger"
	"github.com/fatimaschool/website/storage/database"
	inmemdb "github.com/fatimaschool/website/storage/database/inmem"
	sqlxrepos "github.com/fatimaschool/website/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(os.Stdout, "API", conf)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(os.Stdout, "DB", conf)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	var (
		feedbackRepo feedback.Repository
		galleryRepo  gallery.Repository
		healthCheck  func(ctx context.Context) error
	)
	if conf.Database.InMemory() {
		db := inmemdb.NewDB()
		feedbackRepo = inmemdb.NewFeedbackRepository(db)
		galleryRepo = inmemdb.NewGalleryRepository(db)
		logger.Warn("using the in-memory database: data will not survive a restart")
	} else {
		if err := database.CreateIfNotExist(conf); err != nil {
			dbLogger.Fatal(fmt.Sprintf("creating database: %v", err), err)
		}
		db, err := database.Open(conf)
		if err != nil {
			dbLogger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Error("Failed to close", err)
			}
		}()
		if err = database.Migrate(db.DB); err != nil {
			dbLogger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
		}
		healthCheck = func(ctx context.Context) error { return database.StatusCheck(ctx, db) }
		feedbackRepo = sqlxrepos.NewFeedbackRepository(db)
		galleryRepo = sqlxrepos.NewGalleryRepository(db)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug && conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	defer mailSvc.Close()

	feedbackSvc := feedback.NewService(feedbackRepo, mailSvc, conf)
	gallerySvc := gallery.NewService(galleryRepo)

	auth := admin.NewAuthenticator(conf.Admin)
	if !auth.Configured() {
		logger.Warn("admin credentials not configured: admin login is disabled")
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	gallery.InitValidators(validate, translator)

	if err := core.ParseEmailTemplates(); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	if conf.Gallery.Seed {
		n, err := gallerySvc.Seed(context.Background(), false)
		if err != nil {
			logger.Fatal(fmt.Sprintf("seeding gallery: %v", err), err)
		}
		if n > 0 {
			logger.Info(fmt.Sprintf("gallery seeded with %d items", n))
		}
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			Auth:        auth,
			FeedbackSvc: feedbackSvc,
			GallerySvc:  gallerySvc,
			Validate:    validate,
			Translator:  translator,
			HealthCheck: healthCheck,
		},
	)

	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
