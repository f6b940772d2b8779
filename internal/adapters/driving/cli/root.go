// Package cli provides the docsync command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docsync/internal/adapters/driven/fetch"
	"github.com/custodia-labs/docsync/internal/connectors/lark"
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/core/services"
	"github.com/custodia-labs/docsync/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var (
	verbose   bool
	configDir string

	configStore     *file.ConfigStore
	larkConfig      domain.LarkConfig
	documentService driving.DocumentService
)

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Sync markdown with Feishu/Lark documents",
	Long: `docsync writes markdown into Feishu/Lark docx documents and reads them back.

Documents are converted block by block, remote images are uploaded and
attached, and the same operations are exposed as MCP tools for AI assistants.

Credentials are read from ~/.docsync/config.toml or from the
DOCSYNC_APP_ID, DOCSYNC_APP_SECRET and DOCSYNC_DOMAIN environment variables.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.docsync)")
}

// Execute runs the root command. Failures from the open platform are
// followed by a hint on how to resolve them.
func Execute() error {
	err := rootCmd.Execute()
	if hint := errorHint(err); hint != "" {
		rootCmd.PrintErrln(hint)
	}
	return err
}

// errorHint suggests a next step for well-known failures.
func errorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case domain.IsCleared(err):
		return "The document was left empty. Run the write again to restore its content."
	case lark.IsUnauthorized(err):
		return "Authentication failed. Check the app id and secret with 'docsync config show'."
	case lark.IsForbidden(err):
		return "The app is missing a permission. Run 'docsync scopes' to see pending scopes."
	case lark.IsRateLimited(err):
		return "Rate limited by the open platform. Wait and retry, or lower requests_per_second."
	case lark.IsNotFound(err):
		return "Not found. Check the document token and block id, and that the app can access the document."
	}
	return ""
}

// loadConfig opens the config store and resolves the Lark configuration.
func loadConfig() error {
	if configStore == nil {
		dir := configDir
		if dir == "" {
			var err error
			if dir, err = file.DefaultConfigDir(); err != nil {
				return err
			}
		}
		store, err := file.NewConfigStore(dir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		configStore = store
	}
	larkConfig = file.LoadLarkConfig(configStore, os.Getenv)
	return nil
}

// documents returns the document service, building it from configuration on
// first use.
func documents(ctx context.Context) (driving.DocumentService, error) {
	if documentService != nil {
		return documentService, nil
	}
	if err := loadConfig(); err != nil {
		return nil, err
	}
	if ok, reason := larkConfig.DocToolsCapability(); !ok {
		missing := strings.TrimPrefix(reason, domain.ErrCredentialsMissing.Error()+": ")
		return nil, fmt.Errorf("%w: %s (run 'docsync config set-credentials')", domain.ErrCredentialsMissing, missing)
	}

	client := lark.NewClient(ctx, larkConfig)
	fetcher := fetch.New(fetch.Config{
		Timeout:  larkConfig.Timeout,
		MaxBytes: larkConfig.MediaMaxBytes(),
	})
	documentService = services.NewDocumentService(client, services.NewImageResolver(client, fetcher), larkConfig)
	logger.Debug("Document service ready for %s", larkConfig.APIBaseURL())
	return documentService, nil
}
