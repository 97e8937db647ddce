package db

import (
	"encoding/binary"
	"hash/fnv"

	"gorm.io/gorm"
)

// advisoryKey derives a stable 64-bit advisory lock key from a scope
// label and an ID pair
func advisoryKey(scope string, a, b int64) int64 {
	h := fnv.New64a()
	h.Write([]byte(scope))
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(a))
	binary.BigEndian.PutUint64(buf[8:], uint64(b))
	h.Write(buf[:])
	return int64(h.Sum64())
}

// lockPair serializes transactions working on the same scoped ID pair.
// Postgres releases the lock when the transaction commits or rolls back.
func lockPair(tx *gorm.DB, scope string, a, b int64) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryKey(scope, a, b)).Error
}
