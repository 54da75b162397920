package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agoric-labs/govtx/internal/bundle"
	"github.com/agoric-labs/govtx/internal/chain"
	"github.com/agoric-labs/govtx/internal/config"
	"github.com/agoric-labs/govtx/internal/proposal"
	"github.com/agoric-labs/govtx/internal/watch"
)

func newInstallBundleCmd() *cobra.Command {
	var doWatch bool

	cmd := &cobra.Command{
		Use:   "install-bundle <bundle-file>",
		Short: "Install a code bundle on chain",
		Long: `Install a code bundle on chain.

The bundle file is compressed and submitted as an install message. Inclusion
of the transaction does not mean the bundle is usable yet; the chain
validates and activates it asynchronously. With --watch, govtx follows the
chain's bundle feed until the install is confirmed or rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read bundle file: %w", err)
			}
			packed, err := bundle.Pack(payload)
			if err != nil {
				return err
			}

			receipt, err := runSubmissionReceipt(cmd, func(config.Config) (proposal.Proposal, error) {
				return proposal.NewInstallBundle(packed.Compressed, packed.UncompressedSize), nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bundle submitted, content hash %s\n", packed.ContentHash)

			if !doWatch {
				return nil
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return watchBundle(cmd, cfg, packed.ContentHash, receipt.Height)
		},
	}
	cmd.Flags().BoolVar(&doWatch, "watch", false, "Wait for the chain to activate the bundle")
	return cmd
}

func newWatchBundleCmd() *cobra.Command {
	var height int64

	cmd := &cobra.Command{
		Use:   "watch-bundle <content-hash>",
		Short: "Wait for a submitted bundle to activate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return watchBundle(cmd, cfg, args[0], height)
		},
	}
	cmd.Flags().Int64Var(&height, "height", 0, "Block height to start reading the bundle feed from (inclusive)")
	return cmd
}

// watchBundle follows the bundle feed until contentHash resolves. fromHeight
// is inclusive: the install outcome may be recorded in the very block that
// included the install transaction. Ctrl-C cancels the watch through the
// command context.
func watchBundle(cmd *cobra.Command, cfg config.Config, contentHash string, fromHeight int64) error {
	logger := newLogger()
	source := chain.NewBundleSource(cfg.Chain.REST, logger)
	feed := watch.NewPollingFeed(source, fromHeight-1, watch.DefaultPollInterval)

	fmt.Fprintf(cmd.OutOrStdout(), "Waiting for bundle %s to activate...\n", contentHash)
	w := watch.Start(cmd.Context(), feed, contentHash)
	defer w.Stop()

	if err := w.Wait(cmd.Context()); err != nil {
		return fmt.Errorf("bundle installation failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Bundle %s installed\n", contentHash)
	return nil
}
