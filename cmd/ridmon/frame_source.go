package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileFrameSource replays raw 802.11 action frames recorded one
// hex-encoded line per frame, the non-hardware counterpart to a live
// capture. It exists so ridmon can be exercised without a monitor-mode
// interface or the pcap build tag, the same role gnssfeed.ReplaySource
// plays on the broadcast side.
type FileFrameSource struct {
	f      *os.File
	reader *bufio.Reader
}

// OpenFileFrameSource opens path for line-delimited hex frame replay.
func OpenFileFrameSource(path string) (*FileFrameSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ridmon: opening frame file %s: %w", path, err)
	}
	return &FileFrameSource{f: f, reader: bufio.NewReader(f)}, nil
}

// Close releases the underlying file.
func (s *FileFrameSource) Close() error {
	return s.f.Close()
}

// ReadFrame implements rid.RawFrameSource.
func (s *FileFrameSource) ReadFrame(ctx context.Context) ([]byte, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, err := s.reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("ridmon: reading frame file: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		frame, err := hex.DecodeString(line)
		if err != nil {
			continue // skip malformed lines rather than aborting the whole replay
		}
		return frame, nil
	}
}
