package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/fatimaschool/website/core/gallery"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
	errNoDB = errors.New("this command needs the postgres database engine")
)

type commandLine struct {
	db         *sql.DB // nil with the in-memory engine
	gallerySvc gallery.Service
	adminEmail string
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a migration command: up, up-by-one, up-to VERSION, down, down-to VERSION, redo, reset, status, version, create NAME [go|sql], fix")
	_, _ = fmt.Fprintln(cli.out, "  hashpassword - hash a password for the admin.passwordHash setting")
	_, _ = fmt.Fprintln(cli.out, "  seedgallery [-force] - add the initial gallery catalog")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedGalleryCmd := flag.NewFlagSet("seedgallery", flag.ContinueOnError)
	seedGalleryCmd.SetOutput(cli.out)
	seedGalleryForce := seedGalleryCmd.Bool("force", false, "Add the catalog even if the gallery is not empty.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "hashpassword":
		_, _ = fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		_, _ = fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.hashPassword(string(pwd))
	case "seedgallery":
		if err := seedGalleryCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seedGallery(*seedGalleryForce)
	default:
		cli.printUsage()
		return errHelp
	}
}
