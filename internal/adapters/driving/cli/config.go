package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docsync/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and change the app credentials and client options.`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCredentialsCmd = &cobra.Command{
	Use:   "set-credentials",
	Short: "Store the app id and secret",
	Long: `Store the self-built app credentials used to obtain tenant access tokens.

Values not passed as flags are prompted for. The secret is read without echo
when stdin is a terminal.`,
	Args: cobra.NoArgs,
	RunE: runConfigSetCredentials,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a client option",
	Long: `Set a client option.

Use -- before negative or flag-like values.

Available keys:
  domain               - feishu or lark
  base_url             - API base URL override
  media_max_mb         - Maximum image download size in MB
  requests_per_second  - Client side rate limit
  timeout_seconds      - HTTP timeout`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// settableKeys maps option names to config keys and value kinds.
var settableKeys = map[string]struct {
	key  string
	kind string
}{
	"domain":              {file.KeyDomain, "domain"},
	"base_url":            {file.KeyBaseURL, "string"},
	"media_max_mb":        {file.KeyMediaMaxMB, "int"},
	"requests_per_second": {file.KeyRequestsPerSecond, "float"},
	"timeout_seconds":     {file.KeyTimeoutSeconds, "int"},
}

func init() {
	configSetCredentialsCmd.Flags().String("app-id", "", "App id (cli_...)")
	configSetCredentialsCmd.Flags().String("app-secret", "", "App secret")
	configSetCredentialsCmd.Flags().String("domain", "", "feishu or lark")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCredentialsCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	cfg := larkConfig

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()
	cmd.Printf("  File:        %s\n", configStore.Path())
	cmd.Printf("  Domain:      %s\n", cfg.Domain)
	cmd.Printf("  API:         %s\n", cfg.APIBaseURL())
	if cfg.AppID != "" {
		cmd.Printf("  App ID:      %s\n", cfg.AppID)
	} else {
		cmd.Printf("  App ID:      (not set)\n")
	}
	if cfg.AppSecret != "" {
		cmd.Printf("  App Secret:  %s\n", maskSecret(cfg.AppSecret))
	} else {
		cmd.Printf("  App Secret:  (not set)\n")
	}
	cmd.Printf("  Media limit: %d MB\n", cfg.MediaMaxMB)
	cmd.Printf("  Rate limit:  %g req/s\n", cfg.RequestsPerSecond)
	cmd.Printf("  Timeout:     %s\n", cfg.Timeout)
	cmd.Println()

	if ok, reason := cfg.DocToolsCapability(); ok {
		cmd.Println("Document tools are enabled.")
	} else {
		cmd.Printf("Document tools are disabled: %s\n", reason)
		cmd.Println("Run 'docsync config set-credentials' to configure them.")
	}
	return nil
}

func runConfigSetCredentials(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	appID, _ := cmd.Flags().GetString("app-id")
	appSecret, _ := cmd.Flags().GetString("app-secret")
	larkDomain, _ := cmd.Flags().GetString("domain")

	reader := bufio.NewReader(cmd.InOrStdin())
	if strings.TrimSpace(appID) == "" {
		cmd.Print("App ID: ")
		appID = readLine(reader)
	}
	if strings.TrimSpace(appSecret) == "" {
		cmd.Print("App Secret: ")
		appSecret = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	appID, appSecret = strings.TrimSpace(appID), strings.TrimSpace(appSecret)
	if appID == "" || appSecret == "" {
		return fmt.Errorf("%w: app id and app secret are required", domain.ErrInvalidInput)
	}

	if err := file.SaveCredentials(configStore, appID, appSecret); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	if larkDomain != "" {
		if err := setOption("domain", larkDomain); err != nil {
			return err
		}
	}

	// Rebuild the service with the new credentials on next use.
	documentService = nil
	larkConfig = file.LoadLarkConfig(configStore, os.Getenv)

	cmd.Printf("Credentials saved to %s\n", configStore.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if err := setOption(args[0], args[1]); err != nil {
		return err
	}

	documentService = nil
	larkConfig = file.LoadLarkConfig(configStore, os.Getenv)

	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func setOption(name, raw string) error {
	opt, ok := settableKeys[name]
	if !ok {
		return fmt.Errorf("%w: unknown option %q", domain.ErrInvalidInput, name)
	}

	raw = strings.TrimSpace(raw)
	var value any
	switch opt.kind {
	case "domain":
		d := domain.LarkDomain(strings.ToLower(raw))
		if d != domain.DomainFeishu && d != domain.DomainLark {
			return fmt.Errorf("%w: domain must be %q or %q", domain.ErrInvalidInput, domain.DomainFeishu, domain.DomainLark)
		}
		value = string(d)
	case "int":
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
		}
		value = n
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, name)
		}
		value = f
	default:
		value = raw
	}

	if err := configStore.Set(opt.key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads without echo when in is a terminal and falls back to a
// plain line read otherwise.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
