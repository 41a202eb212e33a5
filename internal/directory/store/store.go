// Package store implements the company-record store: the sole mutator
// of the record collection and the hidden-id set. It loads from the
// remote gateway with local-cache and built-in-seed fallbacks, and
// mirrors every mutation to the cache synchronously and to the gateway
// in the background. In-memory state is authoritative for the session;
// the gateway only ever holds a best-effort mirror.
package store

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	e "github.com/euvalley/directory/internal/directory/errors"
	"github.com/euvalley/directory/internal/directory/events"
	"github.com/euvalley/directory/internal/directory/geo"
	"github.com/euvalley/directory/internal/directory/models"
	"github.com/euvalley/directory/internal/directory/seed"
	"go.uber.org/zap"
)

// State tracks the store lifecycle. Mutations are only accepted in
// StateReady.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
)

// Gateway is the remote snapshot mirror.
type Gateway interface {
	Fetch(ctx context.Context) (*models.Snapshot, error)
	Store(ctx context.Context, snapshot *models.Snapshot) error
}

// Cache is the synchronous local snapshot mirror.
type Cache interface {
	Load() ([]models.Company, []string, error)
	Save(companies []models.Company, hiddenIDs []string) error
}

// EventProducer publishes audit events for mutations.
type EventProducer interface {
	Produce(eventType events.EventType, record *models.Company)
}

// Store owns the in-memory company collection and hidden-id set.
type Store struct {
	mu        sync.Mutex
	state     State
	companies []models.Company
	hidden    map[string]struct{}

	gateway  Gateway
	cache    Cache
	producer EventProducer
	logger   *zap.Logger

	now           func() time.Time
	onSync        func(error)
	remoteTimeout time.Duration
	pending       sync.WaitGroup
}

// NewStore constructs an uninitialized Store. The producer may be nil
// to disable audit events.
func NewStore(gateway Gateway, cache Cache, producer EventProducer, logger *zap.Logger) *Store {
	return &Store{
		state:         StateUninitialized,
		hidden:        make(map[string]struct{}),
		gateway:       gateway,
		cache:         cache,
		producer:      producer,
		logger:        logger.Named("record_store"),
		now:           time.Now,
		remoteTimeout: 15 * time.Second,
	}
}

// OnSyncResult registers a callback observing the outcome of each
// background gateway write. Must be called before Init.
func (s *Store) OnSyncResult(fn func(error)) {
	s.onSync = fn
}

// Init loads the store: gateway first, then the local cache, then the
// built-in seed dataset (which is pushed to the gateway best-effort).
// The store becomes Ready exactly once, whichever path succeeded.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return fmt.Errorf("%w: store already initialized", e.ErrInvalidInput)
	}
	s.state = StateLoading

	snapshot, err := s.gateway.Fetch(ctx)
	if err == nil && remoteHasData(snapshot) {
		s.companies = append([]models.Company{}, snapshot.Companies...)
		s.hidden = toSet(snapshot.HiddenIDs)
		if cerr := s.cache.Save(s.companies, setToSorted(s.hidden)); cerr != nil {
			s.logger.Warn("failed to cache remote snapshot", zap.Error(cerr))
		}
		s.state = StateReady
		s.logger.Info("loaded snapshot from gateway", zap.Int("companies", len(s.companies)))
		return nil
	}
	if err != nil {
		s.logger.Warn("gateway fetch failed, falling back to local cache", zap.Error(err))
	}

	companies, hiddenIDs, cerr := s.cache.Load()
	if cerr == nil {
		s.companies = companies
		s.hidden = toSet(hiddenIDs)
		s.state = StateReady
		s.logger.Info("loaded snapshot from local cache", zap.Int("companies", len(s.companies)))
		return nil
	}

	// First run anywhere: seed the defaults and try to push them out.
	s.companies = seed.Companies(s.now())
	s.hidden = make(map[string]struct{})
	if serr := s.cache.Save(s.companies, nil); serr != nil {
		s.logger.Warn("failed to cache seed dataset", zap.Error(serr))
	}
	s.spawnRemoteWrite(s.currentSnapshot())
	s.state = StateReady
	s.logger.Info("seeded default dataset", zap.Int("companies", len(s.companies)))
	return nil
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Add validates and appends a new record, returning the created record.
// The remote write happens in the background; the local mutation is
// complete when Add returns.
func (s *Store) Add(input models.Company) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if input.Latitude == 0 || input.Longitude == 0 {
		return nil, fmt.Errorf("%w: coordinates are required", e.ErrInvalidInput)
	}
	if !geo.ValidCategory(input.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", e.ErrInvalidInput, input.Category)
	}
	countryCode := strings.ToUpper(strings.TrimSpace(input.CountryCode))
	if !geo.ValidCountryCode(countryCode) {
		return nil, fmt.Errorf("%w: invalid country code %q", e.ErrInvalidInput, input.CountryCode)
	}
	for _, existing := range s.companies {
		if strings.EqualFold(existing.Name, name) {
			return nil, e.ErrDuplicateName
		}
	}

	now := s.now()
	record := input
	record.Name = name
	record.CountryCode = countryCode
	if record.Country == "" {
		record.Country = geo.CountryName(countryCode)
	}
	record.ID = slugify(name) + "-" + strconv.FormatInt(now.UnixMilli(), 10)
	record.Website = normalizeWebsite(record.Website)
	if record.LogoURL == "" && record.Website != "" {
		record.LogoURL = clearbitLogoURL(record.Website)
	}
	if record.AlternativeFor == nil {
		record.AlternativeFor = []string{}
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	record.LastEditDetails = ""

	s.companies = append(s.companies, record)
	s.produce(events.RecordCreated, &record)
	s.persistLocked()

	created := record
	return &created, nil
}

// Update merges the non-nil fields of update into the record. Unknown
// ids are a silent no-op: another session may have removed the record
// already. When editDetails is empty, the summary is derived from the
// names of the fields that actually changed.
func (s *Store) Update(id string, update *models.CompanyUpdate, editDetails string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Debug("update for unknown record ignored", zap.String("id", id))
		return nil
	}

	record := &s.companies[idx]
	changed := applyUpdate(record, update)
	if len(changed) > 0 {
		if editDetails != "" {
			record.LastEditDetails = editDetails
		} else {
			record.LastEditDetails = "Updated: " + strings.Join(changed, ", ")
		}
	}
	record.UpdatedAt = s.now()

	updated := *record
	s.produce(events.RecordUpdated, &updated)
	s.persistLocked()
	return nil
}

// Remove excises the record and purges its id from the hidden set.
// Unknown ids are a silent no-op.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	removed := s.companies[idx]
	s.companies = append(s.companies[:idx], s.companies[idx+1:]...)
	delete(s.hidden, id)

	s.produce(events.RecordDeleted, &removed)
	s.persistLocked()
	return nil
}

// ToggleVisibility flips whether the record is hidden from the public
// view. Hiding is reversible and independent of deletion. Ids without a
// matching record are a no-op.
func (s *Store) ToggleVisibility(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	record := s.companies[idx]
	if _, hidden := s.hidden[id]; hidden {
		delete(s.hidden, id)
		s.produce(events.RecordShown, &record)
	} else {
		s.hidden[id] = struct{}{}
		s.produce(events.RecordHidden, &record)
	}
	s.persistLocked()
	return nil
}

// IsVisible reports whether the record is absent from the hidden set.
func (s *Store) IsVisible(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, hidden := s.hidden[id]
	return !hidden
}

// SyncNow re-fetches the gateway snapshot and adopts it wholesale,
// overwriting in-memory state and the local cache. Last writer wins at
// the gateway; there is no merge.
func (s *Store) SyncNow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return err
	}

	snapshot, err := s.gateway.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("could not refresh: %w", err)
	}

	s.companies = append([]models.Company{}, snapshot.Companies...)
	s.hidden = toSet(snapshot.HiddenIDs)
	if cerr := s.cache.Save(s.companies, setToSorted(s.hidden)); cerr != nil {
		s.logger.Warn("failed to cache refreshed snapshot", zap.Error(cerr))
	}
	return nil
}

// Companies returns a copy of the full record list, hidden included
// (the admin view).
func (s *Store) Companies() []models.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Company{}, s.companies...)
}

// VisibleCompanies returns a copy of the records not in the hidden set
// (the public view), in insertion order.
func (s *Store) VisibleCompanies() []models.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible := make([]models.Company, 0, len(s.companies))
	for _, c := range s.companies {
		if _, hidden := s.hidden[c.ID]; !hidden {
			visible = append(visible, c)
		}
	}
	return visible
}

// HiddenIDs returns the hidden-id set as a sorted slice.
func (s *Store) HiddenIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return setToSorted(s.hidden)
}

// Snapshot returns the current state as a snapshot document.
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSnapshot()
}

// Close waits for in-flight background gateway writes to settle.
func (s *Store) Close() {
	s.pending.Wait()
}

func (s *Store) requireReady() error {
	if s.state != StateReady {
		return fmt.Errorf("%w: state is %s", e.ErrNotReady, s.state)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.companies {
		if s.companies[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked mirrors the current state: cache synchronously, gateway
// in the background. Failures are logged, never returned. The local
// mutation has already happened and is not rolled back.
func (s *Store) persistLocked() {
	if err := s.cache.Save(append([]models.Company{}, s.companies...), setToSorted(s.hidden)); err != nil {
		s.logger.Warn("failed to write local cache", zap.Error(err))
	}
	s.spawnRemoteWrite(s.currentSnapshot())
}

func (s *Store) spawnRemoteWrite(snapshot *models.Snapshot) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.remoteTimeout)
		defer cancel()

		err := s.gateway.Store(ctx, snapshot)
		if err != nil {
			s.logger.Warn("background snapshot write failed", zap.Error(err))
		}
		if s.onSync != nil {
			s.onSync(err)
		}
	}()
}

func (s *Store) currentSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Companies: append([]models.Company{}, s.companies...),
		HiddenIDs: setToSorted(s.hidden),
	}
}

func (s *Store) produce(eventType events.EventType, record *models.Company) {
	if s.producer == nil {
		return
	}
	s.producer.Produce(eventType, record)
}

// remoteHasData reports whether the gateway returned a real snapshot.
// A gateway that has never been written answers an empty default with a
// null lastUpdated; that must not shadow the local cache or seed.
func remoteHasData(snapshot *models.Snapshot) bool {
	return snapshot != nil && (snapshot.LastUpdated != nil || len(snapshot.Companies) > 0)
}

// applyUpdate merges non-nil fields into record and returns the wire
// names of the fields whose value actually changed.
func applyUpdate(record *models.Company, update *models.CompanyUpdate) []string {
	var changed []string
	setString := func(name string, dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = append(changed, name)
		}
	}
	setFloat := func(name string, dst *float64, src *float64) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = append(changed, name)
		}
	}

	if update == nil {
		return nil
	}
	setString("name", &record.Name, update.Name)
	setString("category", &record.Category, update.Category)
	setString("country", &record.Country, update.Country)
	setString("countryCode", &record.CountryCode, update.CountryCode)
	setString("city", &record.City, update.City)
	setString("street", &record.Street, update.Street)
	setString("state", &record.State, update.State)
	setFloat("latitude", &record.Latitude, update.Latitude)
	setFloat("longitude", &record.Longitude, update.Longitude)
	setString("description", &record.Description, update.Description)
	setString("website", &record.Website, update.Website)
	setString("logoUrl", &record.LogoURL, update.LogoURL)
	if update.AlternativeFor != nil && !equalStrings(*update.AlternativeFor, record.AlternativeFor) {
		record.AlternativeFor = append([]string{}, (*update.AlternativeFor)...)
		changed = append(changed, "alternativeFor")
	}
	return changed
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// slugify lowercases the name and replaces every non-alphanumeric rune
// with a hyphen, matching the id shape of existing records.
func slugify(name string) string {
	lowered := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return b.String()
}

// normalizeWebsite forces an https scheme on bare hostnames.
func normalizeWebsite(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		return "https://" + website
	}
	return website
}

// clearbitLogoURL derives a logo location from the website host.
func clearbitLogoURL(website string) string {
	u, err := url.Parse(website)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	return "https://logo.clearbit.com/" + host
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func setToSorted(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
