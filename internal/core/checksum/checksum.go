package checksum

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/Ning0612/pcclean/internal/domain"
)

// Algorithm represents the hashing algorithm to use
type Algorithm string

const (
	// MD5 algorithm (default, matches the digests older runs logged)
	MD5 Algorithm = "md5"
	// SHA256 algorithm
	SHA256 Algorithm = "sha256"
	// XXHash is the non-cryptographic 64-bit xxHash, fastest for large trees
	XXHash Algorithm = "xxhash"
)

// DefaultBufferSize is the chunk size used when streaming file content
const DefaultBufferSize = 4096

// Options configures the checksum calculator
type Options struct {
	// BufferSize: size of buffer for streaming reads
	BufferSize int
}

// DefaultOptions returns the recommended default options
func DefaultOptions() Options {
	return Options{BufferSize: DefaultBufferSize}
}

// Calculator computes content digests
type Calculator interface {
	// Calculate consumes reader to EOF and returns the hex digest
	Calculate(ctx context.Context, reader io.Reader, algo Algorithm) (string, error)
}

// DefaultCalculator implements Calculator with streaming support
type DefaultCalculator struct {
	opts Options
}

// NewCalculator creates a new calculator with the given options
func NewCalculator(opts Options) *DefaultCalculator {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	return &DefaultCalculator{opts: opts}
}

// NewDefaultCalculator creates a calculator with default options
func NewDefaultCalculator() *DefaultCalculator {
	return NewCalculator(DefaultOptions())
}

// Calculate implements the Calculator interface
func (c *DefaultCalculator) Calculate(ctx context.Context, reader io.Reader, algo Algorithm) (string, error) {
	h, err := newHash(algo)
	if err != nil {
		return "", err
	}

	buffer := make([]byte, c.opts.BufferSize)
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			if _, hashErr := h.Write(buffer[:n]); hashErr != nil {
				return "", fmt.Errorf("hash write error: %w", hashErr)
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read error: %w", err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func newHash(algo Algorithm) (hash.Hash, error) {
	switch algo {
	case MD5:
		return md5.New(), nil
	case SHA256:
		return sha256.New(), nil
	case XXHash:
		return xxhash.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedAlgorithm, algo)
	}
}

// IsSupported checks if the given algorithm is supported
func IsSupported(algo Algorithm) bool {
	switch algo {
	case MD5, SHA256, XXHash:
		return true
	default:
		return false
	}
}

// ParseAlgorithm parses a case-insensitive algorithm name
func ParseAlgorithm(s string) (Algorithm, error) {
	algo := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if !IsSupported(algo) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedAlgorithm, s)
	}
	return algo, nil
}

// FileHasher hashes whole files on a filesystem
type FileHasher interface {
	HashFile(ctx context.Context, path string) (string, error)
}

// FSHasher streams files from an afero filesystem through a Calculator
type FSHasher struct {
	fs   afero.Fs
	calc Calculator
	algo Algorithm
}

// NewFSHasher creates a FileHasher bound to fs and algo
func NewFSHasher(fs afero.Fs, calc Calculator, algo Algorithm) (*FSHasher, error) {
	if !IsSupported(algo) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedAlgorithm, algo)
	}
	if calc == nil {
		calc = NewDefaultCalculator()
	}
	return &FSHasher{fs: fs, calc: calc, algo: algo}, nil
}

// HashFile returns the digest of the file's full content
func (h *FSHasher) HashFile(ctx context.Context, path string) (string, error) {
	f, err := h.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return h.calc.Calculate(ctx, f, h.algo)
}

// Algorithm returns the algorithm the hasher uses
func (h *FSHasher) Algorithm() Algorithm {
	return h.algo
}
