// Package classify translates raw chain and RPC error text into short
// messages fit for end users. Raw errors from a node interleave gRPC status
// plumbing with ABCI log output; only a few fragments carry meaning for the
// person submitting a proposal.
package classify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"cosmossdk.io/math"
)

// Category identifies the recognized failure class.
type Category int

const (
	// CategoryUnknown means no pattern matched; the raw text is passed
	// through.
	CategoryUnknown Category = iota
	// CategoryAccountNotFound means the signing account has never been seen
	// by the chain.
	CategoryAccountNotFound
	// CategoryInsufficientFunds means the account balance cannot cover the
	// transaction.
	CategoryInsufficientFunds
	// CategoryQueryFailed means a node query failed; the node's own
	// description is extracted.
	CategoryQueryFailed
)

func (c Category) String() string {
	switch c {
	case CategoryAccountNotFound:
		return "account-not-found"
	case CategoryInsufficientFunds:
		return "insufficient-funds"
	case CategoryQueryFailed:
		return "query-failed"
	default:
		return "unknown"
	}
}

// Classification carries the matched category and the user-facing message.
type Classification struct {
	Category Category
	Message  string
}

// UserMessage returns the text to show the user.
func (c Classification) UserMessage() string { return c.Message }

const unitScale = 1_000_000

var (
	insufficientFundsRe = regexp.MustCompile(`insufficient funds: (\d+)(\w+) is smaller than (\d+)(\w+)`)
	queryFailedRe       = regexp.MustCompile(`Query failed with .*?desc = ([^:]*):`)
)

// Classify matches raw against the recognized patterns in priority order.
// A nil error classifies as unknown with an empty message.
func Classify(err error) Classification {
	if err == nil {
		return Classification{Category: CategoryUnknown}
	}
	return ClassifyText(err.Error())
}

// ClassifyText is Classify for error text that arrives as a string, such as
// an ABCI log line.
func ClassifyText(raw string) Classification {
	if strings.Contains(raw, "does not exist on chain") {
		return Classification{
			Category: CategoryAccountNotFound,
			Message:  "Account does not exist. Please provision smart wallet.",
		}
	}

	if m := insufficientFundsRe.FindStringSubmatch(raw); m != nil {
		available := displayCoin(m[1], m[2])
		required := displayCoin(m[3], m[4])
		return Classification{
			Category: CategoryInsufficientFunds,
			Message:  fmt.Sprintf("Insufficient funds. %s required, only %s available.", required, available),
		}
	}

	if m := queryFailedRe.FindStringSubmatch(raw); m != nil {
		return Classification{
			Category: CategoryQueryFailed,
			Message:  capitalize(strings.TrimSpace(m[1])),
		}
	}

	return Classification{Category: CategoryUnknown, Message: raw}
}

// displayCoin renders a minimal-denomination amount in display units, e.g.
// "500000" + "uist" becomes "0.5 IST".
func displayCoin(amount, denom string) string {
	return displayAmount(amount) + " " + displayDenom(denom)
}

func displayAmount(amount string) string {
	n, ok := math.NewIntFromString(amount)
	if !ok {
		return amount
	}
	scale := math.NewInt(unitScale)
	whole := n.Quo(scale)
	frac := n.Mod(scale)
	if frac.IsZero() {
		return whole.String()
	}
	fracStr := strings.TrimRight(fmt.Sprintf("%06d", frac.Int64()), "0")
	return whole.String() + "." + fracStr
}

func displayDenom(denom string) string {
	return strings.ToUpper(strings.TrimPrefix(denom, "u"))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
