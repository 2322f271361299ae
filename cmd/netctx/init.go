package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/netctx/internal/config"
)

//go:embed templates/netctx.yaml
var workspaceTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new netctx workspace file",
		Long: `Initialize creates a new .netctx workspace file in the current directory.

The generated file includes:
- Build identifiers shown in reports
- The mock section for overriding session classification
- Comments describing every option

Examples:
  # Create .netctx in current directory
  netctx init

  # Create the workspace file at a specific path
  netctx init -o myworkspace.yaml

  # Force overwrite existing file
  netctx init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultWorkspaceFile,
		"Output file path for the workspace file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing workspace file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("workspace file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := workspaceTemplate.ReadFile("templates/netctx.yaml")
	if err != nil {
		return fmt.Errorf("failed to read workspace template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write workspace file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created workspace file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - Build identifiers shown in reports")
	fmt.Fprintln(out, "  - Session mocks (maskAs, maskAsHttps)")

	return nil
}
