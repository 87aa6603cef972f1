package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/secmetrics-io/kb4/internal/constants"
	"github.com/secmetrics-io/kb4/pkg/kb4"
	"github.com/secmetrics-io/kb4/pkg/kb4client"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store and verify a reporting API key",
		Long: `Store a reporting API key in the kb4 config file and verify it against
the account endpoint. With --reset the stored key is discarded instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reset {
				return resetKey()
			}

			apiKey := viper.GetString("key")
			if apiKey == "" {
				var err error

				apiKey, err = promptKey()
				if err != nil {
					return err
				}
			}

			if apiKey == "" {
				return kb4.ErrAPIKeyRequired
			}

			client, err := kb4client.New(&kb4.Config{
				APIKey:      apiKey,
				Region:      viper.GetString("region"),
				APIEndpoint: viper.GetString("api"),
			})
			if err != nil {
				return err
			}

			account, err := client.Account().Get(context.Background(), false)
			if err != nil {
				return fmt.Errorf("verifying API key: %w", err)
			}

			viper.Set("key", apiKey)

			if err := persistConfig(); err != nil {
				return err
			}

			fmt.Printf("Logged in to %s (%d seats)\n", account.Name, account.NumberOfSeats)

			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "discard the stored API key")

	return cmd
}

// promptKey reads the API key from the terminal without echo.
func promptKey() (string, error) {
	fmt.Fprint(os.Stderr, "KnowBe4 API key: ")

	raw, err := term.ReadPassword(int(syscall.Stdin))

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

// resetKey removes the stored key from the config file and the environment.
func resetKey() error {
	viper.Set("key", "")

	if err := persistConfig(); err != nil {
		return err
	}

	_ = os.Unsetenv(constants.APIKeyEnvVar)

	fmt.Println("API key cleared")

	return nil
}

// persistConfig writes the active viper settings to the config file, creating
// it on first use.
func persistConfig() error {
	err := viper.WriteConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("writing config: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}

	path := filepath.Join(home, ".kb4", "config.yml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
