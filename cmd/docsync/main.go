// Command docsync syncs markdown with Feishu/Lark docx documents.
package main

import (
	"os"

	"github.com/custodia-labs/docsync/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
