package businessflow

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/okhira/mijikai/app/services"
	"github.com/okhira/mijikai/models"
	"github.com/okhira/mijikai/repository"
)

// fakeLinkRepo is an in-memory LinkRepository keyed by short code
type fakeLinkRepo struct {
	mu          sync.Mutex
	links       map[string]*models.Link
	insertCalls int
	findCalls   int
	// rejectFirst forces the first N inserts to collide regardless of contents
	rejectFirst int
	insertErr   error
	// codeLengths records the generated code length per insert attempt
	codeLengths []int
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*models.Link)}
}

func (f *fakeLinkRepo) FindByShortCode(_ context.Context, shortCode string) (*models.LinkProjection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++

	link, ok := f.links[shortCode]
	if !ok || link.IsDeleted {
		return nil, models.ErrURLNotFound.WithContext("shortCode", shortCode)
	}
	if !link.IsActive {
		return nil, models.ErrURLInactive.WithContext("shortCode", shortCode)
	}
	if link.ExpiresAt != nil && link.ExpiresAt.Before(time.Now().UTC()) {
		return nil, models.ErrURLExpired.WithContext("shortCode", shortCode)
	}
	return &models.LinkProjection{
		OriginalURL: link.OriginalURL,
		IsActive:    link.IsActive,
		OwnerID:     link.OwnerID,
		ExpiresAt:   link.ExpiresAt,
	}, nil
}

func (f *fakeLinkRepo) IncrementClickCount(_ context.Context, shortCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	link, ok := f.links[shortCode]
	if !ok {
		return models.ErrURLNotFound.WithContext("shortCode", shortCode)
	}
	link.ClickCount++
	return nil
}

func (f *fakeLinkRepo) ExistsByShortCode(_ context.Context, shortCode string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.links[shortCode]
	return ok, nil
}

func (f *fakeLinkRepo) Insert(_ context.Context, link *models.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	f.codeLengths = append(f.codeLengths, len(link.ShortCode))

	if f.insertErr != nil {
		return f.insertErr
	}
	if f.insertCalls <= f.rejectFirst {
		return repository.ErrDuplicateShortCode
	}
	if _, exists := f.links[link.ShortCode]; exists {
		return repository.ErrDuplicateShortCode
	}
	stored := *link
	f.links[link.ShortCode] = &stored
	return nil
}

// fakeClickRepo records inserted click events
type fakeClickRepo struct {
	mu        sync.Mutex
	events    []*models.ClickEvent
	insertErr error
}

func (f *fakeClickRepo) Insert(_ context.Context, event *models.ClickEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeClickRepo) Events() []*models.ClickEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.ClickEvent(nil), f.events...)
}

// fakeCache is an in-memory services.CacheService
type fakeCache struct {
	mu        sync.Mutex
	entries   map[string][]byte
	ttls      map[string]time.Duration
	refreshed map[string]int
	getErr    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:   make(map[string][]byte),
		ttls:      make(map[string]time.Duration),
		refreshed: make(map[string]int),
	}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return f.getErr
	}
	data, ok := f.entries[key]
	if !ok {
		return services.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = data
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	delete(f.ttls, key)
	return nil
}

func (f *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[key]
	return ok, nil
}

func (f *fakeCache) RefreshTTL(_ context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed[key]++
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) SetInvalidationFlag(_ context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = []byte(`"1"`)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[key]
	return ok
}

// fakeRPC scripts the reply for Call and records published click events
type fakeRPC struct {
	mu        sync.Mutex
	reply     []byte
	callErr   error
	calls     int
	published [][]byte
}

func (f *fakeRPC) Call(_ context.Context, _ string, _ any, _ time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.reply, nil
}

func (f *fakeRPC) PublishClickEvent(_ context.Context, _ string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, body)
	return nil
}

func (f *fakeRPC) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeGeoIP scripts GetLocation
type fakeGeoIP struct {
	location *models.GeoLocation
	err      error
}

func (f *fakeGeoIP) GetLocation(_ context.Context, _ string) (*models.GeoLocation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.location, nil
}
