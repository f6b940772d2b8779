package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Browse drive folders",
}

var folderListCmd = &cobra.Command{
	Use:   "list [folder-token]",
	Short: "List the files of a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolderList,
}

var scopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "Show the application's permission scopes",
	Args:  cobra.NoArgs,
	RunE:  runScopes,
}

func init() {
	folderCmd.AddCommand(folderListCmd)
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(scopesCmd)
}

func runFolderList(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}

	files, err := svc.ListFolder(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list folder: %w", err)
	}

	if len(files) == 0 {
		cmd.Printf("Folder %s is empty\n", args[0])
		return nil
	}

	for _, f := range files {
		cmd.Printf("  %-10s %-28s %s\n", f.Type, f.Token, f.Name)
		if f.URL != "" {
			cmd.Printf("             %s\n", f.URL)
		}
	}
	cmd.Printf("\nTotal: %d files\n", len(files))
	return nil
}

func runScopes(cmd *cobra.Command, _ []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}

	result, err := svc.AppScopes(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list scopes: %w", err)
	}

	cmd.Printf("Scopes: %s\n", result.Summary)
	if len(result.Granted) > 0 {
		cmd.Println("\nGranted:")
		for _, s := range result.Granted {
			cmd.Printf("  %s (%s)\n", s.Name, s.Type)
		}
	}
	if len(result.Pending) > 0 {
		cmd.Println("\nPending:")
		for _, s := range result.Pending {
			cmd.Printf("  %s (%s)\n", s.Name, s.Type)
		}
	}
	return nil
}
