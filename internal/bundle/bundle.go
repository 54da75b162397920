// Package bundle prepares code bundles for installation: compression for the
// wire and a content hash for matching the chain's asynchronous installation
// feed.
package bundle

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashPrefix marks the digest algorithm in a content hash.
const HashPrefix = "sha256:"

// Packed is a bundle ready to submit. ContentHash is computed over the
// uncompressed payload so it matches what the chain reports after it inflates
// and installs the bundle.
type Packed struct {
	Compressed       []byte
	UncompressedSize int64
	ContentHash      string
}

// ContentHash returns the "sha256:" prefixed hex digest of payload.
func ContentHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return HashPrefix + hex.EncodeToString(sum[:])
}

// Compress gzips payload at best compression. Bundles are large JSON blobs
// and the chain charges by the byte.
func Compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := zw.Write(payload); err != nil {
		return nil, fmt.Errorf("failed to compress bundle: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize compressed bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// Pack compresses payload and computes its content hash.
func Pack(payload []byte) (Packed, error) {
	if len(payload) == 0 {
		return Packed{}, fmt.Errorf("bundle payload is empty")
	}
	compressed, err := Compress(payload)
	if err != nil {
		return Packed{}, err
	}
	return Packed{
		Compressed:       compressed,
		UncompressedSize: int64(len(payload)),
		ContentHash:      ContentHash(payload),
	}, nil
}
