package sessionid

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource interface for dependency injection of randomness
type RandSource interface {
	Intn(n int) int
}

// Generator handles session ID generation with configurable randomness
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a new generator with optional RandSource
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new session ID using UUIDv7 encoded as a 26-character
// base32 string. IDs sort by creation time, which keeps session listings
// and logs chronological for free.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new session ID using the generator's RandSource
func (g *Generator) Generate() string {
	uuid := g.generateUUIDv7()
	return encodeBase32(uuid)
}

func (g *Generator) generateUUIDv7() [16]byte {
	var uuid [16]byte

	// 48-bit millisecond timestamp, then version/variant bits over random data
	now := time.Now().UnixMilli()
	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(g.randSource.Intn(256))
		}
	} else {
		if _, err := rand.Read(uuid[6:]); err != nil {
			panic("failed to generate random bytes: " + err.Error())
		}
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid
}

func encodeBase32(data [16]byte) string {
	result := make([]byte, 26)

	// 128 bits in 5-bit groups, most significant first
	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8

		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}

		result[i] = alphabet[value]
	}

	return string(result)
}

// Validate checks if a session ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("session ID must be exactly 26 characters, got %d", len(id))
	}

	// First character above '7' would encode more than 128 bits
	if id[0] > '7' {
		return fmt.Errorf("session ID first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		valid := false
		for _, validChar := range alphabet {
			if char == validChar {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
