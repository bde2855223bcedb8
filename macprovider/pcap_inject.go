//go:build pcap
// +build pcap

package macprovider

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/google/gopacket/pcap"
)

// PcapProvider injects frames onto a monitor-mode wifi interface via
// libpcap, the same open/send idiom the rest of the pack uses for PCAP
// replay (gopacket/pcap.OpenLive + WritePacketData), pointed at a live
// interface instead of a capture file.
type PcapProvider struct {
	mac    [6]byte
	handle *pcap.Handle

	mu     sync.Mutex
	closed bool
}

// NewPcapProvider opens ifaceName with pcap.OpenLive and returns a Provider
// that injects frames onto it. ifaceName must already be in monitor mode;
// this package does not change interface modes itself.
func NewPcapProvider(ifaceName string) (*PcapProvider, error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("macprovider: looking up %s: %w", ifaceName, err)
	}

	var mac [6]byte
	copy(mac[:], iface.HardwareAddr)

	handle, err := pcap.OpenLive(ifaceName, 2048, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("macprovider: opening %s: %w", ifaceName, err)
	}

	return &PcapProvider{mac: mac, handle: handle}, nil
}

// MAC implements Provider.
func (p *PcapProvider) MAC() [6]byte { return p.mac }

// Inject implements Provider by writing frame directly onto the wire.
func (p *PcapProvider) Inject(ctx context.Context, frame []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	if err := p.handle.WritePacketData(frame); err != nil {
		return fmt.Errorf("macprovider: injecting frame: %w", err)
	}
	return nil
}

// Close implements Provider.
func (p *PcapProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.handle.Close()
	return nil
}
