package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every platform in the active catalog",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			catalog, err := loadCatalog(a.cfg)
			if err != nil {
				return err
			}
			a.out.Muted(fmt.Sprintf("release %s", catalog.Release()))
			for _, rec := range catalog.AllEntries() {
				_, _ = fmt.Fprintf(a.stdout, "%-22s %s  %s\n", rec.Key, rec.Entry.ExpectedDigestHex, rec.Entry.URL())
			}
			return nil
		},
	}
}
