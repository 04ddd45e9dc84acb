// Package gameid names games with 26-character base32 strings derived from
// UUIDs, in the style of TypeID.
package gameid

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in a game ID
const Length = 26

// namespace scopes the name-based IDs of seeded games
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/lox/hanabot/games"))

// Generate creates a new, time-ordered game ID from a UUIDv7
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Encode(id)
}

// FromSeed returns the ID of the game dealt from seed. The same seed always
// yields the same ID, so seeded self-play runs can be replayed by ID.
func FromSeed(seed int64) string {
	var name [8]byte
	binary.BigEndian.PutUint64(name[:], uint64(seed))
	return Encode(uuid.NewSHA1(namespace, name[:]))
}

// Encode writes a UUID as 26 base32 characters: two zero bits followed by
// the 128 bits of the UUID
func Encode(id uuid.UUID) string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])

	var out [Length]byte
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// Parse decodes a game ID back into its UUID
func Parse(s string) (uuid.UUID, error) {
	if err := Validate(s); err != nil {
		return uuid.Nil, err
	}
	var hi, lo uint64
	for i := 0; i < len(s); i++ {
		v := uint64(strings.IndexByte(alphabet, s[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	return id, nil
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}

	// the two padding bits keep the first character within 0-7
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}

	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
