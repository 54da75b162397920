package submit

import (
	"strconv"

	abci "github.com/cometbft/cometbft/abci/types"
)

const (
	eventTypeSubmitProposal = "submit_proposal"
	attributeKeyProposalID  = "proposal_id"
)

// proposalIDFromEvents scans broadcast events for the governance module's
// submit_proposal event and returns the assigned proposal id.
func proposalIDFromEvents(events []abci.Event) (uint64, bool) {
	for _, ev := range events {
		if ev.Type != eventTypeSubmitProposal {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key != attributeKeyProposalID {
				continue
			}
			id, err := strconv.ParseUint(attr.Value, 10, 64)
			if err != nil {
				continue
			}
			return id, true
		}
	}
	return 0, false
}
