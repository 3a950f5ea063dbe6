package businessflow

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	mathrand "math/rand"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okhira/mijikai/models"
	"github.com/okhira/mijikai/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Allocation tuning. The length grows every third collision so a hot
// keyspace backs off into a larger one instead of thrashing.
const (
	allocatorMaxRetriesDefault = 10
	allocatorBaseRetryDelay    = 10 * time.Millisecond
	allocatorMaxRetryDelay     = 500 * time.Millisecond
	allocatorLengthGrowEvery   = 3
)

const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var shortCodeCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "shortcode_collisions_total",
	Help: "Total number of duplicate-key collisions hit while allocating short codes",
})

// ShortCodeAllocator reserves a globally unique short code for a link by
// inserting it. Uniqueness comes from the store's unique index; the allocator
// only generates candidates and retries on duplicate-key.
type ShortCodeAllocator interface {
	// Allocate fills link.ShortCode and persists the link
	Allocate(ctx context.Context, link *models.Link) error
	// CollisionCount reports the process-local number of collisions seen
	CollisionCount() int64
}

type ShortCodeAllocatorImpl struct {
	repo           repository.LinkRepository
	initialLength  int
	maxRetries     int
	collisionCount atomic.Int64
}

func NewShortCodeAllocator(repo repository.LinkRepository, initialLength, maxRetries int) ShortCodeAllocator {
	if initialLength <= 0 {
		initialLength = 6
	}
	if maxRetries <= 0 {
		maxRetries = allocatorMaxRetriesDefault
	}
	return &ShortCodeAllocatorImpl{
		repo:          repo,
		initialLength: initialLength,
		maxRetries:    maxRetries,
	}
}

func (a *ShortCodeAllocatorImpl) Allocate(ctx context.Context, link *models.Link) error {
	length := a.initialLength

	for attempt := 0; attempt < a.maxRetries; attempt++ {
		code, err := generateShortCode(attempt, length)
		if err != nil {
			return models.ErrInternalServer.Wrap(err)
		}

		link.ShortCode = code
		err = a.repo.Insert(ctx, link)
		if err == nil {
			if attempt > 0 {
				a.collisionCount.Add(int64(attempt))
				shortCodeCollisionsTotal.Add(float64(attempt))
			}
			return nil
		}

		if !errors.Is(err, repository.ErrDuplicateShortCode) {
			return err
		}

		next := attempt + 1
		if next%allocatorLengthGrowEvery == 0 {
			length++
		}

		select {
		case <-time.After(retryBackoff(next)):
		case <-ctx.Done():
			return models.ErrDatabaseError.Wrap(ctx.Err()).WithContext("operation", "allocate")
		}
	}

	return models.ErrInvalidInput.
		WithMessage("unable to allocate a unique short code").
		WithContext("retries", a.maxRetries)
}

func (a *ShortCodeAllocatorImpl) CollisionCount() int64 {
	return a.collisionCount.Load()
}

// retryBackoff is exponential with up to 50% jitter, capped
func retryBackoff(attempt int) time.Duration {
	delay := allocatorBaseRetryDelay << attempt
	delay += time.Duration(mathrand.Int63n(int64(delay/2) + 1))
	if delay > allocatorMaxRetryDelay {
		delay = allocatorMaxRetryDelay
	}
	return delay
}

// generateShortCode cycles four strategies so repeated collisions do not keep
// sampling the same distribution.
func generateShortCode(attempt, length int) (string, error) {
	switch attempt % 4 {
	case 1:
		return hashedUUIDCode(length)
	case 2:
		return timestampCode(length)
	default:
		return randomBase62Code(length)
	}
}

// randomBase62Code samples the 62-symbol alphabet from cryptographically
// secure bytes, one byte pair per character.
func randomBase62Code(length int) (string, error) {
	buf := make([]byte, 2*length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	code := make([]byte, length)
	for i := 0; i < length; i++ {
		pair := binary.BigEndian.Uint16(buf[2*i : 2*i+2])
		code[i] = base62Alphabet[pair%62]
	}
	return string(code), nil
}

// hashedUUIDCode derives the code from a fresh UUIDv4, hashed and
// base64url-encoded to stay inside the short-code character set.
func hashedUUIDCode(length int) (string, error) {
	sum := sha256.Sum256([]byte(uuid.New().String()))
	encoded := base64.RawURLEncoding.EncodeToString(sum[:])
	if len(encoded) < length {
		return "", fmt.Errorf("encoded hash shorter than requested length %d", length)
	}
	return encoded[:length], nil
}

// timestampCode concatenates the time in base36 with a random base62 suffix
// and keeps the last characters, so the high-entropy tail survives.
func timestampCode(length int) (string, error) {
	suffix, err := randomBase62Code(length)
	if err != nil {
		return "", err
	}
	code := strconv.FormatInt(time.Now().UnixNano(), 36) + suffix
	return code[len(code)-length:], nil
}
