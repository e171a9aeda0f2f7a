package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/addrunner/internal/domain-adapters/gateways"
)

func newDigestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "digest <file>...",
		Short: "Print the SHA-256 digest of local files",
		Long:  "Print the lowercase hex SHA-256 digest of each file, in the format pinned by the catalog.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			verifier := gateways.NewChecksumVerifier()
			for _, path := range args {
				sum, err := verifier.Digest(path)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "%s  %s\n", sum, path)
			}
			return nil
		},
	}
}
