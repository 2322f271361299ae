package main

import (
	"github.com/spf13/cobra"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a dashboard session",
		Long: `Classify reports how a session reached the device: over a Tor onion
service, a .local LAN name, localhost or anything else, and whether the
transport is secure.

The workspace mock section (useMocks, ui.mocks) overrides the result.

Examples:
  # A LAN session over plain HTTP
  netctx classify --location http://embassy.local

  # A Tor session, reported as JSON
  netctx classify -l http://abcdef...xyz.onion --json`,
		Args: cobra.NoArgs,
		RunE: runClassifyCmd,
	}
	addReportFlags(cmd)
	return cmd
}

// runClassifyCmd executes the classify command.
func runClassifyCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := baseConfig(cmd)
	if err != nil {
		return err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return err
	}

	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}
	facts := classifier.Facts()
	warnInsecureSession(cmd, cfg, facts)

	return writeReport(cmd, cfg, newDocument(cfg, facts))
}
