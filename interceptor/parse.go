package interceptor

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ParsePacket sizes a raw IP packet as delivered by the kernel queue.
//
// The network header length comes from the decoded IPv4 or IPv6 layer. Data
// that does not decode as IP is counted entirely as payload.
func ParsePacket(id uint32, data []byte) Packet {
	pkt := Packet{ID: id, PayloadSize: len(data)}
	if len(data) == 0 {
		return pkt
	}

	var first gopacket.LayerType
	switch data[0] >> 4 {
	case 4:
		first = layers.LayerTypeIPv4
	case 6:
		first = layers.LayerTypeIPv6
	default:
		return pkt
	}

	decoded := gopacket.NewPacket(data, first, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	network := decoded.NetworkLayer()
	if network == nil {
		return pkt
	}
	pkt.HeaderSize = len(network.LayerContents())
	pkt.PayloadSize = len(data) - pkt.HeaderSize
	return pkt
}
