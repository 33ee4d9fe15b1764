package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/credops/store"
)

func newKeygenCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a config key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := store.GenerateKey()
			if err != nil {
				return err
			}
			if err := store.WriteKeyFile(out, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Key written to %s (%s)\n", out, key.Hint())
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", defaultKeyPath, "File to write the key to; must not exist")

	return cmd
}
