package crypto

import (
	"crypto/rand"
	"errors"
	"math/bits"
)

const (
	urlAlphabet     string = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	defaultIDSize   int    = 21
	maxAlphabetSize int    = 255
	minAlphabetSize int    = 8
)

var (
	ErrAlphabetTooLong  = errors.New("alphabet must contain no more than 255 characters")
	ErrAlphabetTooShort = errors.New("alphabet must contain at least 8 characters")
	ErrAlphabetNotASCII = errors.New("alphabet must contain only ASCII characters")
	ErrInvalidIDSize    = errors.New("id size must be positive")
)

// IDGenerator produces nanoid-style random identifiers. Used for request IDs.
type IDGenerator struct {
	alphabet string
	mask     byte
	size     int
}

// mask is the smallest all-ones byte covering every alphabet index, so
// rejected samples stay below one half.
func mask(alphabetLen int) byte {
	n := bits.Len(uint(alphabetLen - 1))
	return byte(uint(1)<<n - 1)
}

// NewIDGenerator validates alphabet and size. An empty alphabet selects the
// URL-safe default; size 0 selects 21 characters.
func NewIDGenerator(alphabet string, size int) (*IDGenerator, error) {
	if alphabet == "" {
		alphabet = urlAlphabet
	}
	if size == 0 {
		size = defaultIDSize
	}
	if size < 0 {
		return nil, ErrInvalidIDSize
	}

	// Generate() indexes by byte position
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] > 127 {
			return nil, ErrAlphabetNotASCII
		}
	}

	if len(alphabet) > maxAlphabetSize {
		return nil, ErrAlphabetTooLong
	}
	if len(alphabet) < minAlphabetSize {
		return nil, ErrAlphabetTooShort
	}

	return &IDGenerator{
		alphabet: alphabet,
		mask:     mask(len(alphabet)),
		size:     size,
	}, nil
}

func (g *IDGenerator) Generate() (string, error) {
	id := make([]byte, g.size)
	buffer := make([]byte, g.size*2)

	for position := 0; position < g.size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		for _, b := range buffer {
			index := b & g.mask
			if int(index) >= len(g.alphabet) {
				continue
			}
			id[position] = g.alphabet[index]
			position++
			if position == g.size {
				break
			}
		}
	}

	return string(id), nil
}
