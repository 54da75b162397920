package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"cosmossdk.io/log"

	"github.com/agoric-labs/govtx/internal/watch"
)

// DefaultBundlePath is the vstorage path publishing bundle installation
// outcomes.
const DefaultBundlePath = "/agoric/vstorage/data/bundles"

// blockHeightHeader requests a query at a historical height, per the Cosmos
// REST convention.
const blockHeightHeader = "x-cosmos-block-height"

// BundleSource reads bundle installation statuses from a node's REST API.
// The node publishes a stream cell per block: a JSON envelope holding the
// block height and the status values recorded at that height. The block
// height doubles as the read cursor so restarts never replay old statuses.
//
// Only the latest cell is reachable at the head of the path, so when more
// than one block published between reads the source walks the gap with
// height-qualified queries. Each cell read at height h carries the height of
// the publish at or before h, which lets the walk jump straight from cell to
// cell instead of probing every block.
type BundleSource struct {
	baseURL string
	path    string
	client  *http.Client
	logger  log.Logger
}

// NewBundleSource creates a source reading from the node at baseURL, e.g.
// "http://localhost:1317".
func NewBundleSource(baseURL string, logger log.Logger) *BundleSource {
	return &BundleSource{
		baseURL: baseURL,
		path:    DefaultBundlePath,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With("component", "bundle-source"),
	}
}

// streamCell mirrors the vstorage publication envelope.
type streamCell struct {
	BlockHeight string   `json:"blockHeight"`
	Values      []string `json:"values"`
}

type bundleRecord struct {
	ContentHash string `json:"contentHash"`
	Installed   bool   `json:"installed"`
	Error       string `json:"error"`
}

// parsedCell is one decoded publication.
type parsedCell struct {
	height   int64
	statuses []watch.BundleStatus
}

// ReadAfter implements watch.Source. It returns every status published at
// heights strictly greater than cursor, oldest first.
func (s *BundleSource) ReadAfter(ctx context.Context, cursor int64) ([]watch.BundleStatus, int64, error) {
	head, err := s.fetchCell(ctx, 0)
	if err != nil {
		return nil, cursor, err
	}
	if head == nil || head.height <= cursor {
		return nil, cursor, nil
	}

	cells := []parsedCell{*head}
	for h := head.height - 1; h > cursor; {
		prev, err := s.fetchCell(ctx, h)
		if err != nil {
			return nil, cursor, err
		}
		if prev == nil || prev.height <= cursor {
			break
		}
		cells = append(cells, *prev)
		h = prev.height - 1
	}

	// The walk collected newest first; the feed contract is oldest first.
	var statuses []watch.BundleStatus
	for i := len(cells) - 1; i >= 0; i-- {
		statuses = append(statuses, cells[i].statuses...)
	}
	return statuses, head.height, nil
}

// fetchCell reads the cell as of height, or the latest cell when height is
// zero. A missing or empty cell returns nil without error.
func (s *BundleSource) fetchCell(ctx context.Context, height int64) (*parsedCell, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+s.path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build bundle status request: %w", err)
	}
	if height > 0 {
		req.Header.Set(blockHeightHeader, strconv.FormatInt(height, 10))
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query bundle statuses: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		// Nothing published yet.
		return nil, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bundle status query returned %s", res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle status response: %w", err)
	}
	return s.parse(body)
}

func (s *BundleSource) parse(body []byte) (*parsedCell, error) {
	var envelope struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode vstorage envelope: %w", err)
	}
	if envelope.Value == "" {
		return nil, nil
	}

	var cell streamCell
	if err := json.Unmarshal([]byte(envelope.Value), &cell); err != nil {
		return nil, fmt.Errorf("failed to decode stream cell: %w", err)
	}
	height, err := strconv.ParseInt(cell.BlockHeight, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stream cell height %q: %w", cell.BlockHeight, err)
	}

	parsed := &parsedCell{height: height}
	for _, raw := range cell.Values {
		var record bundleRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			s.logger.Debug("skipping malformed bundle record", "error", err)
			continue
		}
		parsed.statuses = append(parsed.statuses, watch.BundleStatus{
			ContentHash: record.ContentHash,
			Installed:   record.Installed,
			Error:       record.Error,
		})
	}
	return parsed, nil
}
