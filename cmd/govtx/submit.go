package main

import (
	"fmt"
	"os"
	"strings"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/agoric-labs/govtx/internal/config"
	"github.com/agoric-labs/govtx/internal/notify"
	"github.com/agoric-labs/govtx/internal/proposal"
	"github.com/agoric-labs/govtx/internal/submit"
	"github.com/agoric-labs/govtx/internal/swingset"
)

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a governance proposal",
	}
	cmd.PersistentFlags().StringVar(&depositFlag, "deposit", "", "Initial deposit in display units, e.g. 50 for 50 BLD")

	cmd.AddCommand(newSubmitTextCmd())
	cmd.AddCommand(newSubmitParamChangeCmd())
	cmd.AddCommand(newSubmitCoreEvalCmd())
	cmd.AddCommand(newSubmitPoolSpendCmd())
	cmd.AddCommand(newSubmitFundPoolCmd())
	return cmd
}

func newSubmitTextCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "text",
		Short: "Submit a plain text proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmission(cmd, func(config.Config) (proposal.Proposal, error) {
				return proposal.NewText(title, description), nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Proposal title")
	cmd.Flags().StringVar(&description, "description", "", "Proposal description")
	return cmd
}

func newSubmitParamChangeCmd() *cobra.Command {
	var title, description string
	var changes []string

	cmd := &cobra.Command{
		Use:   "param-change",
		Short: "Submit a parameter change proposal",
		Long: `Submit a parameter change proposal.

Each --change takes the form subspace:key:value, where value may itself
contain colons (e.g. JSON):

  govtx submit param-change --title "..." --description "..." \
    --change 'swingset:beans_per_unit:[{"key":"blockComputeLimit","beans":"65000000"}]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseChanges(changes)
			if err != nil {
				return err
			}
			return runSubmission(cmd, func(config.Config) (proposal.Proposal, error) {
				return proposal.NewParameterChange(title, description, parsed), nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Proposal title")
	cmd.Flags().StringVar(&description, "description", "", "Proposal description")
	cmd.Flags().StringArrayVar(&changes, "change", nil, "Parameter change as subspace:key:value (repeatable)")
	return cmd
}

func newSubmitCoreEvalCmd() *cobra.Command {
	var title, description string
	var evals []string

	cmd := &cobra.Command{
		Use:   "core-eval",
		Short: "Submit a SwingSet core eval proposal",
		Long: `Submit a SwingSet core eval proposal.

Each --eval names a permit file and a code file separated by a colon:

  govtx submit core-eval --title "..." --description "..." \
    --eval permits.json:proposal.js`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := readEvals(evals)
			if err != nil {
				return err
			}
			return runSubmission(cmd, func(config.Config) (proposal.Proposal, error) {
				return proposal.NewCoreEval(title, description, parsed), nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Proposal title")
	cmd.Flags().StringVar(&description, "description", "", "Proposal description")
	cmd.Flags().StringArrayVar(&evals, "eval", nil, "Permit and code file pair as permits.json:code.js (repeatable)")
	return cmd
}

func newSubmitPoolSpendCmd() *cobra.Command {
	var title, description, recipient, amount string

	cmd := &cobra.Command{
		Use:   "pool-spend",
		Short: "Submit a community pool spend proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmission(cmd, func(config.Config) (proposal.Proposal, error) {
				return proposal.NewCommunityPoolSpend(title, description, recipient, amount), nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Proposal title")
	cmd.Flags().StringVar(&description, "description", "", "Proposal description")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Recipient address")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in display units, e.g. 1500 for 1500 IST")
	return cmd
}

func newSubmitFundPoolCmd() *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "fund-pool",
		Short: "Deposit into the community pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmission(cmd, func(config.Config) (proposal.Proposal, error) {
				return proposal.NewFundCommunityPool(amount), nil
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in display units, e.g. 10 for 10 IST")
	return cmd
}

// runSubmission is the shared submit path: connect, build messages, and run
// the orchestrator. Progress and errors are surfaced through the console
// notifier; the returned error keeps the process exit code honest.
func runSubmission(cmd *cobra.Command, build func(config.Config) (proposal.Proposal, error)) error {
	_, err := runSubmissionReceipt(cmd, build)
	return err
}

func runSubmissionReceipt(cmd *cobra.Command, build func(config.Config) (proposal.Proposal, error)) (*submit.Receipt, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger()

	conn, err := dial(cmd, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	proposer, err := conn.Address()
	if err != nil {
		return nil, err
	}

	p, err := build(cfg)
	if err != nil {
		return nil, err
	}
	msgs, err := builderFor(cfg).Build(p, proposer, depositFlag)
	if err != nil {
		return nil, err
	}

	adjustment, err := math.LegacyNewDecFromStr(cfg.Gas.Adjustment)
	if err != nil {
		return nil, fmt.Errorf("invalid gas adjustment %q: %w", cfg.Gas.Adjustment, err)
	}

	orch := submit.NewOrchestrator(conn, notify.NewConsole(), submit.Config{GasAdjustment: adjustment}, logger)
	return orch.Submit(cmd.Context(), msgs)
}

// parseChanges parses subspace:key:value entries. The value keeps any
// further colons intact so JSON passes through unharmed.
func parseChanges(raw []string) ([]proposal.ParamChange, error) {
	changes := make([]proposal.ParamChange, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --change %q, want subspace:key:value", entry)
		}
		changes = append(changes, proposal.ParamChange{
			Subspace: parts[0],
			Key:      parts[1],
			Value:    parts[2],
		})
	}
	return changes, nil
}

// readEvals loads permit and code file pairs named as permits.json:code.js.
func readEvals(raw []string) ([]swingset.CoreEval, error) {
	evals := make([]swingset.CoreEval, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --eval %q, want permits.json:code.js", entry)
		}
		permits, err := os.ReadFile(parts[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read permit file: %w", err)
		}
		code, err := os.ReadFile(parts[1])
		if err != nil {
			return nil, fmt.Errorf("failed to read code file: %w", err)
		}
		evals = append(evals, swingset.CoreEval{
			JSONPermits: string(permits),
			JSCode:      string(code),
		})
	}
	return evals, nil
}
