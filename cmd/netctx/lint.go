package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/netctx/internal/model"
	"github.com/nao1215/netctx/internal/resolver"
)

// errLintFailed is returned when at least one error-level issue was found.
var errLintFailed = errors.New("lint found errors")

// NewLintCmd creates the lint command.
func NewLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check package interfaces and addresses",
		Long: `Lint checks every package for problems that stop or change how it
launches: installed packages without an address table, UI interfaces
without an address, malformed or deprecated onion addresses, invalid LAN
addresses and more than one UI interface.

The command exits with a non-zero status when an error-level issue is found.

Examples:
  netctx lint --catalog packages.yaml
  netctx lint --markdown -o lint.md`,
		Args: cobra.NoArgs,
		RunE: runLintCmd,
	}
	addCatalogFlags(cmd)
	addReportFlags(cmd)
	return cmd
}

// runLintCmd executes the lint command.
func runLintCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := baseConfig(cmd)
	if err != nil {
		return err
	}
	if err := readCatalogFlags(cmd, cfg); err != nil {
		return err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return err
	}
	logger, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	pkgs, err := loadPackages(commandContext(cmd), cfg)
	if err != nil {
		return err
	}

	issues := make([]model.Issue, 0)
	for i := range pkgs {
		issues = append(issues, resolver.Lint(&pkgs[i])...)
	}
	logger.Debug("lint finished", "packages", len(pkgs), "issues", len(issues))

	doc := newDocument(cfg, classifier.Facts())
	doc.Issues = issues
	if err := writeReport(cmd, cfg, doc); err != nil {
		return err
	}

	if model.HasErrors(issues) {
		return fmt.Errorf("%w: %d error(s)", errLintFailed, model.CountBySeverity(issues)[model.SeverityError])
	}
	return nil
}
