package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters. Changing them only affects new hashes;
// Verify reads the costs back out of the encoded form.
const (
	timeCost  uint32 = 1
	memoryKiB uint32 = 64 * 1024
	threads   uint8  = 4
	keyLen    uint32 = 32
	saltLen          = 16
)

// Hash derives an Argon2id hash in the standard $argon2id$ encoded form.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, timeCost, memoryKiB, threads, keyLen)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memoryKiB, timeCost, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether the password matches the encoded hash. The key
// comparison is constant time; malformed encodings never match.
func Verify(password, encoded string) bool {
	parsed, ok := decode(encoded)
	if !ok {
		return false
	}
	check := argon2.IDKey([]byte(password), parsed.salt, parsed.time, parsed.memory, parsed.threads, uint32(len(parsed.key)))
	return subtle.ConstantTimeCompare(parsed.key, check) == 1
}

type encodedHash struct {
	salt    []byte
	key     []byte
	memory  uint32
	time    uint32
	threads uint8
}

func decode(encoded string) (encodedHash, bool) {
	var parsed encodedHash

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" || parts[2] != "v=19" {
		return parsed, false
	}

	costs := strings.Split(parts[3], ",")
	if len(costs) != 3 {
		return parsed, false
	}
	memory, okM := parseCost(costs[0], "m=", 32)
	time, okT := parseCost(costs[1], "t=", 32)
	thread, okP := parseCost(costs[2], "p=", 8)
	if !okM || !okT || !okP {
		return parsed, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return parsed, false
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return parsed, false
	}

	parsed.salt = salt
	parsed.key = key
	parsed.memory = uint32(memory)
	parsed.time = uint32(time)
	parsed.threads = uint8(thread)
	return parsed, true
}

func parseCost(field, prefix string, bits int) (uint64, bool) {
	value, ok := strings.CutPrefix(field, prefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(value, 10, bits)
	if err != nil {
		return 0, false
	}
	return n, true
}
