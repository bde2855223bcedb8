//go:build pcap
// +build pcap

package main

import (
	"context"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// PcapFrameSource captures raw 802.11 frames off a monitor-mode interface,
// filtered to wifi management/action frames by a BPF expression, mirroring
// the open/BPF-filter/PacketSource idiom in
// internal/lidar/network/pcap_realtime.go but reading live traffic instead
// of a recorded file.
type PcapFrameSource struct {
	handle *pcap.Handle
	source *gopacket.PacketSource
}

// OpenPcapFrameSource opens ifaceName for live capture and filters for
// 802.11 management action frames. ifaceName must already be in monitor
// mode; it is not switched into it here.
func OpenPcapFrameSource(ifaceName string) (*PcapFrameSource, error) {
	handle, err := pcap.OpenLive(ifaceName, 2048, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("ridmon: opening %s: %w", ifaceName, err)
	}

	if err := handle.SetBPFFilter("type mgt subtype action"); err != nil {
		handle.Close()
		return nil, fmt.Errorf("ridmon: setting BPF filter on %s: %w", ifaceName, err)
	}

	return &PcapFrameSource{
		handle: handle,
		source: gopacket.NewPacketSource(handle, handle.LinkType()),
	}, nil
}

// Close releases the underlying pcap handle.
func (s *PcapFrameSource) Close() error {
	s.handle.Close()
	return nil
}

// ReadFrame implements rid.RawFrameSource.
func (s *PcapFrameSource) ReadFrame(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case packet, ok := <-s.source.Packets():
		if !ok {
			return nil, fmt.Errorf("ridmon: capture source closed")
		}
		return packet.Data(), nil
	}
}
