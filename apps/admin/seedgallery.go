package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) seedGallery(force bool) error {
	n, err := cli.gallerySvc.Seed(context.Background(), force)
	if err != nil {
		return err
	}
	if n == 0 {
		_, _ = fmt.Fprintln(cli.out, "gallery is not empty, nothing added (use -force to add the catalog anyway)")
		return nil
	}
	_, _ = fmt.Fprintf(cli.out, "%d gallery items added\n", n)
	return nil
}
