package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/credops/credential"
	"github.com/jonwraymond/credops/store"
)

const defaultKeyPath = "config.key"

func newSetupCmd() *cobra.Command {
	var (
		configPath string
		keyPath    string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create an encrypted config file for the legacy config method",
		Long: `Prompt for the MooMoo API password, generate a fresh key, save the encrypted
config file and write the key to a file with mode 0600. The key is never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !force {
				for _, path := range []string{configPath, keyPath} {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("%s already exists; use --force to overwrite it", path)
					}
				}
			}

			password, err := promptPassword(cmd.ErrOrStderr(), "Enter MooMoo API password: ")
			if err != nil {
				return err
			}
			if password == "" {
				return errors.New("empty password; nothing saved")
			}

			key, err := store.GenerateKey()
			if err != nil {
				return err
			}
			if err := saveWithKey(configPath, keyPath, password, key); err != nil {
				return err
			}

			fmt.Fprintf(out, "Encrypted config saved to %s\n", configPath)
			fmt.Fprintf(out, "Legacy credential warning: %s is not the recommended OpenClaw deployment mode.\n", configPath)
			fmt.Fprintf(out, "Generated %s saved to %s with mode 600.\n", credential.ConfigKeyEnvVar, keyPath)
			fmt.Fprintln(out, "Move that key into a secret manager or OS keychain before using the config method.")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", store.DefaultPath, "Encrypted config file to write")
	cmd.Flags().StringVar(&keyPath, "key-path", defaultKeyPath, "File to write the generated key to")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config and key file")

	return cmd
}

// saveWithKey stages the key next to keyPath, saves the config, then moves
// the key into place. A failed save leaves the previous key in place, so a
// config is never left without its key.
func saveWithKey(configPath, keyPath, password string, key store.Key) error {
	staged := filepath.Join(filepath.Dir(keyPath), "."+filepath.Base(keyPath)+".new")
	if err := os.Remove(staged); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale staged key: %w", err)
	}
	if err := store.WriteKeyFile(staged, key); err != nil {
		return err
	}

	if err := store.New(configPath).Save(store.Config{store.PasswordField: password}, key); err != nil {
		_ = os.Remove(staged)
		return err
	}
	if err := os.Rename(staged, keyPath); err != nil {
		return fmt.Errorf("config saved but key left at %s: %w", staged, err)
	}
	return nil
}
