package main

import (
	"fmt"

	"github.com/fatimaschool/website/core/admin"
)

func (cli *commandLine) hashPassword(pwd string) error {
	if err := admin.CheckPassword(pwd, cli.adminEmail); err != nil {
		return err
	}
	hash, err := admin.HashPassword(pwd)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.out, hash)
	return nil
}
