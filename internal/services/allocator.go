package services

import (
	"errors"

	"github.com/NickEsColR/link-shorterer-seo/pkg/utils"
)

var (
	ErrInvalidFormat    = errors.New("short code must be alphanumeric and within the configured length")
	ErrCodeTaken        = errors.New("short code already taken")
	ErrExhaustedRetries = errors.New("failed to find a free short code after max attempts")
)

const defaultMaxAttempts = 5

// CodeAllocator assigns short codes. Uniqueness is not checked up front:
// the caller supplies tryInsert, which must attempt the reservation (an
// insert guarded by the unique index on short_code) and return
// ErrCodeTaken when the code is already in use. That makes two racing
// requests for the same code collapse into one failed insert instead of
// both succeeding.
type CodeAllocator struct {
	minLen      int
	maxLen      int
	maxAttempts int
	generate    func(int) string
}

func NewCodeAllocator(minLen, maxLen int) *CodeAllocator {
	return &CodeAllocator{
		minLen:      minLen,
		maxLen:      maxLen,
		maxAttempts: defaultMaxAttempts,
		generate:    utils.GenerateShortCode,
	}
}

// Validate checks a requested code against the alphabet and length policy.
func (a *CodeAllocator) Validate(code string) error {
	if len(code) < a.minLen || len(code) > a.maxLen {
		return ErrInvalidFormat
	}
	for _, c := range code {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return ErrInvalidFormat
		}
	}
	return nil
}

// Allocate reserves a short code via tryInsert. A requested code is used
// verbatim or fails with ErrCodeTaken; with no request, random candidates
// are tried up to maxAttempts before giving up with ErrExhaustedRetries
// (the namespace is saturated for the configured length).
func (a *CodeAllocator) Allocate(requested string, tryInsert func(code string) error) (string, error) {
	if requested != "" {
		if err := a.Validate(requested); err != nil {
			return "", err
		}
		if err := tryInsert(requested); err != nil {
			return "", err
		}
		return requested, nil
	}

	for i := 0; i < a.maxAttempts; i++ {
		code := a.generate(a.minLen)
		err := tryInsert(code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrCodeTaken) {
			return "", err
		}
	}
	return "", ErrExhaustedRetries
}
