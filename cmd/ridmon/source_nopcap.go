//go:build !pcap
// +build !pcap

package main

import (
	"fmt"

	"remoteid/rid"
)

func openPcapSource(iface string) (rid.RawFrameSource, func(), error) {
	return nil, nil, fmt.Errorf("ridmon: --iface requires building with -tags pcap (libpcap + gopacket)")
}
