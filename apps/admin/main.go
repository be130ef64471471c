package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/gallery"
	logsvc "github.com/fatimaschool/website/services/logger"
	"github.com/fatimaschool/website/storage/database"
	inmemdb "github.com/fatimaschool/website/storage/database/inmem"
	sqlxrepos "github.com/fatimaschool/website/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(os.Stderr, "ADMIN", conf)
	logger.Enable(!conf.Debug)

	cli := commandLine{adminEmail: conf.Admin.Email, out: os.Stdout}

	// set up DB
	needsDB := len(os.Args) > 1 && os.Args[1] != "hashpassword"
	if conf.Database.InMemory() || !needsDB {
		cli.gallerySvc = gallery.NewService(inmemdb.NewGalleryRepository(inmemdb.NewDB()))
	} else {
		if err := database.CreateIfNotExist(conf); err != nil {
			logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
		}
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer func() { _ = db.Close() }()

		cli.db = db.DB
		cli.gallerySvc = gallery.NewService(sqlxrepos.NewGalleryRepository(db))
	}

	// start CLI
	if err := cli.run(os.Args); err != nil {
		var vErr *core.ValidationError
		switch {
		case err == errHelp:
		case errors.As(err, &vErr):
			for _, fld := range vErr.Fields {
				_, _ = fmt.Fprintf(os.Stderr, "%s: %s\n", fld.Field, fld.Error)
			}
		default:
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
