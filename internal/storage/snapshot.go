package storage

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// SnapshotWriter persists zstd-compressed HTML snapshots of pages that
// failed to parse, for offline debugging. Snapshots are best-effort and
// never block a harvester run.
type SnapshotWriter struct {
	store   FileStore
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewSnapshotWriter(store FileStore) (*SnapshotWriter, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &SnapshotWriter{store: store, encoder: encoder, decoder: decoder}, nil
}

// Save compresses and writes a snapshot under "<tag>.html.zst".
func (w *SnapshotWriter) Save(tag string, html string) error {
	raw := []byte(html)
	compressed := w.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))
	return w.store.Write(tag+".html.zst", compressed)
}

// Load reads back and decompresses a snapshot written by Save.
func (w *SnapshotWriter) Load(tag string) (string, error) {
	data, err := w.store.Read(tag + ".html.zst")
	if err != nil {
		return "", err
	}
	raw, err := w.decoder.DecodeAll(data, nil)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
