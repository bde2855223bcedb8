//go:build pcap
// +build pcap

package main

import "remoteid/rid"

func openPcapSource(iface string) (rid.RawFrameSource, func(), error) {
	fs, err := OpenPcapFrameSource(iface)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() { fs.Close() }, nil
}
