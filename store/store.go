package store

import "github.com/yourusername/eprbridge/core"

// Store defines the interface for pool snapshot storage
type Store interface {
	Get(key string) *core.PoolSnapshot
	Set(key string, snapshot *core.PoolSnapshot)
	Delete(key string)
	Clear()
}
