package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// hashKey encodes parts as one msgpack array and returns
// "prefix:<sha256 hex>". The array keeps part boundaries, so
// ("(0,1,2)", "[1,0,1]") and ("(0,1,2)[1", ",0,1]") hash apart. Structs
// such as ClassifyKeyOpts are hashed through their msgpack tags.
func hashKey(prefix string, parts ...any) string {
	data, _ := msgpack.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the SHA-256 of data in hex. FileCache shards entries by it
// and the pipeline uses it to digest packed encodings before keying them.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
