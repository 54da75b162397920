package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// promptApprover asks for confirmation before the key signs anything. It is
// the CLI stand-in for a wallet approval dialog.
type promptApprover struct {
	out io.Writer
}

func newPromptApprover(out io.Writer) *promptApprover {
	return &promptApprover{out: out}
}

// Approve shows the transaction summary and asks y/N. Declining or aborting
// the prompt means no approval, not an error.
func (p *promptApprover) Approve(summary string) (bool, error) {
	fmt.Fprintln(p.out, summary)

	prompt := promptui.Prompt{
		Label:     "Sign and broadcast",
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return true, nil
}
