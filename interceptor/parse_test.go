package interceptor

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

func serialize(t *testing.T, network gopacket.SerializableLayer, udp *layers.UDP, payload []byte) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, network, udp, gopacket.Payload(payload)); err != nil {
		t.Fatalf("SerializeLayers failed: %v", err)
	}
	return buf.Bytes()
}

func TestParsePacket_IPv4(t *testing.T) {
	ipv4 := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IPv4(11, 0, 0, 1),
		DstIP:    net.IPv4(11, 0, 0, 2),
	}
	udp := &layers.UDP{SrcPort: 5000, DstPort: 5001}
	udp.SetNetworkLayerForChecksum(ipv4)
	data := serialize(t, ipv4, udp, make([]byte, 100))

	pkt := ParsePacket(7, data)

	if pkt.ID != 7 {
		t.Errorf("ID = %d, want 7", pkt.ID)
	}
	if pkt.HeaderSize != 20 {
		t.Errorf("HeaderSize = %d, want 20", pkt.HeaderSize)
	}
	// UDP header plus payload
	if pkt.PayloadSize != 108 {
		t.Errorf("PayloadSize = %d, want 108", pkt.PayloadSize)
	}
	if pkt.Size() != len(data) {
		t.Errorf("Size() = %d, want %d", pkt.Size(), len(data))
	}
}

func TestParsePacket_IPv6(t *testing.T) {
	ipv6 := &layers.IPv6{
		Version:    6,
		HopLimit:   64,
		NextHeader: layers.IPProtocolUDP,
		SrcIP:      net.ParseIP("fd00::1"),
		DstIP:      net.ParseIP("fd00::2"),
	}
	udp := &layers.UDP{SrcPort: 5000, DstPort: 5001}
	udp.SetNetworkLayerForChecksum(ipv6)
	data := serialize(t, ipv6, udp, make([]byte, 32))

	pkt := ParsePacket(1, data)

	if pkt.HeaderSize != 40 {
		t.Errorf("HeaderSize = %d, want 40", pkt.HeaderSize)
	}
	if pkt.PayloadSize != 40 {
		t.Errorf("PayloadSize = %d, want 40", pkt.PayloadSize)
	}
}

func TestParsePacket_NotIP(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "unknown version", data: []byte{0x10, 0x00, 0x00}},
		{name: "truncated ipv4", data: []byte{0x45, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt := ParsePacket(1, tt.data)
			if pkt.HeaderSize != 0 {
				t.Errorf("HeaderSize = %d, want 0", pkt.HeaderSize)
			}
			if pkt.PayloadSize != len(tt.data) {
				t.Errorf("PayloadSize = %d, want %d", pkt.PayloadSize, len(tt.data))
			}
		})
	}
}
