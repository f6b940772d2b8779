package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// previewLength is the number of characters shown per block by "doc blocks".
const previewLength = 50

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Read and write documents",
	Long:  `Read, create, replace, append to and edit Feishu/Lark docx documents.`,
}

var docReadCmd = &cobra.Command{
	Use:   "read [document-id]",
	Short: "Print document text and block statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocRead,
}

var docCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create an empty document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocCreate,
}

var docWriteCmd = &cobra.Command{
	Use:   "write [document-id]",
	Short: "Replace document content with markdown",
	Long: `Replace the whole content of a document with markdown.

Markdown is read from --file, or from stdin when --file is omitted or "-".
Existing blocks are deleted before the new content is inserted.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocWrite,
}

var docAppendCmd = &cobra.Command{
	Use:   "append [document-id]",
	Short: "Append markdown to the end of a document",
	Long:  `Append markdown to a document. Markdown is read from --file or stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocAppend,
}

var docUpdateBlockCmd = &cobra.Command{
	Use:   "update-block [document-id] [block-id] [text]",
	Short: "Replace the text of a block",
	Args:  cobra.ExactArgs(3),
	RunE:  runDocUpdateBlock,
}

var docDeleteBlockCmd = &cobra.Command{
	Use:   "delete-block [document-id] [block-id]",
	Short: "Delete a block",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocDeleteBlock,
}

var docBlocksCmd = &cobra.Command{
	Use:   "blocks [document-id]",
	Short: "List the blocks of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocBlocks,
}

var docBlockCmd = &cobra.Command{
	Use:   "block [document-id] [block-id]",
	Short: "Print a block as JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocBlock,
}

func init() {
	docCreateCmd.Flags().String("folder", "", "Folder token to create the document in")
	docWriteCmd.Flags().StringP("file", "f", "", "Markdown file (default stdin)")
	docAppendCmd.Flags().StringP("file", "f", "", "Markdown file (default stdin)")

	docCmd.AddCommand(docReadCmd)
	docCmd.AddCommand(docCreateCmd)
	docCmd.AddCommand(docWriteCmd)
	docCmd.AddCommand(docAppendCmd)
	docCmd.AddCommand(docUpdateBlockCmd)
	docCmd.AddCommand(docDeleteBlockCmd)
	docCmd.AddCommand(docBlocksCmd)
	docCmd.AddCommand(docBlockCmd)
	rootCmd.AddCommand(docCmd)
}

func runDocRead(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}

	result, err := svc.Read(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	cmd.Printf("Title:    %s\n", result.Title)
	cmd.Printf("Revision: %d\n", result.RevisionID)
	cmd.Printf("Blocks:   %d\n", result.BlockCount)

	names := make([]string, 0, len(result.BlockTypes))
	for name := range result.BlockTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.Printf("  %-12s %d\n", name, result.BlockTypes[name])
	}
	if result.Hint != "" {
		cmd.Printf("\nNote: %s\n", result.Hint)
	}

	cmd.Println()
	cmd.Println(result.Content)
	return nil
}

func runDocCreate(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}

	folder, _ := cmd.Flags().GetString("folder")
	result, err := svc.Create(cmd.Context(), args[0], folder)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	cmd.Printf("Created document %s\n", result.DocumentID)
	cmd.Printf("  Title: %s\n", result.Title)
	cmd.Printf("  URL:   %s\n", result.URL)
	return nil
}

func runDocWrite(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}
	markdown, err := readMarkdown(cmd)
	if err != nil {
		return err
	}

	result, err := svc.Write(cmd.Context(), args[0], markdown)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	cmd.Printf("Replaced document %s\n", args[0])
	cmd.Printf("  Blocks deleted: %d\n", result.BlocksDeleted)
	cmd.Printf("  Blocks added:   %d\n", result.BlocksAdded)
	printImages(cmd, result.ImagesProcessed, result.Images)
	printWarning(cmd, result.Warning)
	return nil
}

func runDocAppend(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}
	markdown, err := readMarkdown(cmd)
	if err != nil {
		return err
	}

	result, err := svc.Append(cmd.Context(), args[0], markdown)
	if err != nil {
		return fmt.Errorf("failed to append to document: %w", err)
	}

	cmd.Printf("Appended %d block(s) to %s\n", result.BlocksAdded, args[0])
	for _, id := range result.BlockIDs {
		cmd.Printf("  %s\n", id)
	}
	printImages(cmd, result.ImagesProcessed, result.Images)
	printWarning(cmd, result.Warning)
	return nil
}

func runDocUpdateBlock(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}

	if err := svc.UpdateBlock(cmd.Context(), args[0], args[1], args[2]); err != nil {
		return fmt.Errorf("failed to update block: %w", err)
	}

	cmd.Printf("Updated block %s\n", args[1])
	return nil
}

func runDocDeleteBlock(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}

	if err := svc.DeleteBlock(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}

	cmd.Printf("Deleted block %s\n", args[1])
	return nil
}

func runDocBlocks(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}

	blocks, err := svc.ListBlocks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list blocks: %w", err)
	}

	for i := range blocks {
		cmd.Printf("  %-24s %-12s %s\n", blocks[i].BlockID, blocks[i].BlockType, blocks[i].Preview(previewLength))
	}
	cmd.Printf("\nTotal: %d blocks\n", len(blocks))
	return nil
}

func runDocBlock(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}

	block, err := svc.GetBlock(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to get block: %w", err)
	}

	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode block: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// readMarkdown reads the --file flag, falling back to stdin.
func readMarkdown(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("file")

	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read markdown: %w", err)
	}
	return string(data), nil
}

func printImages(cmd *cobra.Command, processed int, report domain.ImageReport) {
	if report.Attempted() == 0 {
		return
	}
	cmd.Printf("  Images:         %d of %d\n", processed, report.Attempted())
	for _, f := range report.Failures() {
		cmd.Printf("    image %d (%s) failed at %s: %v\n", f.Index, f.URL, f.Stage, f.Err)
	}
}

func printWarning(cmd *cobra.Command, warning string) {
	if warning != "" {
		cmd.Printf("\nWarning: %s\n", warning)
	}
}
