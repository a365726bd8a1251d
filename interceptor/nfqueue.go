package interceptor

// NFQueueConfig selects the kernel queue to bind
type NFQueueConfig struct {
	QueueNum     uint16 // iptables --queue-num
	QueueDepth   uint32 // Kernel queue length and userspace buffer
	MaxPacketLen uint32 // Bytes copied per packet (0 = 0xffff)
}
