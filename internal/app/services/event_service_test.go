package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cliqueup/cliqueup/internal/app/models"
	"github.com/cliqueup/cliqueup/internal/app/models/dto"
	"github.com/cliqueup/cliqueup/internal/app/repositories"
	"github.com/cliqueup/cliqueup/internal/db"
	"github.com/cliqueup/cliqueup/internal/pkg/apperrors"
	"github.com/cliqueup/cliqueup/internal/pkg/geo"
	"github.com/cliqueup/cliqueup/internal/pkg/geocoding"
)

// --- test doubles ---

type fakeEventStore struct {
	events []*models.Event
}

func (f *fakeEventStore) Create(ctx context.Context, q repositories.Querier, event *models.Event, categoryIDs []uuid.UUID) error {
	copied := *event
	f.events = append(f.events, &copied)
	return nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperrors.ErrEventNotFound
}

func (f *fakeEventStore) FindCandidates(ctx context.Context, text *string, tags []string) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range f.events {
		if text != nil && !strings.Contains(strings.ToLower(e.Description), *text) {
			continue
		}
		if len(tags) > 0 && !hasAnyCategory(e, tags) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func hasAnyCategory(e *models.Event, tags []string) bool {
	for _, c := range e.Categories {
		for _, tag := range tags {
			if c.Label == tag {
				return true
			}
		}
	}
	return false
}

func (f *fakeEventStore) SetActive(ctx context.Context, id uuid.UUID, active bool, disabledOn *time.Time) (bool, error) {
	for _, e := range f.events {
		if e.ID == id {
			e.IsActive = active
			e.DisabledOn = disabledOn
			return true, nil
		}
	}
	return false, nil
}

type fakeCategoryStore struct {
	byLabel map[string]*models.Category
}

func (f *fakeCategoryStore) GetOrCreateAll(ctx context.Context, q repositories.Querier, labels []string) ([]*models.Category, error) {
	if f.byLabel == nil {
		f.byLabel = map[string]*models.Category{}
	}
	var out []*models.Category
	for _, label := range labels {
		normalized := models.NormalizeCategoryLabel(label)
		if normalized == "" {
			return nil, apperrors.ErrEmptyCategoryLabel
		}
		c, ok := f.byLabel[normalized]
		if !ok {
			c = &models.Category{ID: uuid.New(), Label: normalized}
			f.byLabel[normalized] = c
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeMembershipStore struct {
	joined map[[2]uuid.UUID]bool
}

func (f *fakeMembershipStore) Create(ctx context.Context, userID, eventID uuid.UUID) error {
	if f.joined == nil {
		f.joined = map[[2]uuid.UUID]bool{}
	}
	f.joined[[2]uuid.UUID{userID, eventID}] = true
	return nil
}

type fakeMessageStore struct {
	messages []*models.EventMessage
}

func (f *fakeMessageStore) Create(ctx context.Context, message *models.EventMessage) error {
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.EventMessage, error) {
	var out []*models.EventMessage
	for _, m := range f.messages {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

type fakeGeocoder struct {
	known map[string]geo.Coordinate
}

func (f *fakeGeocoder) Resolve(ctx context.Context, address string) (geo.Coordinate, error) {
	if coord, ok := f.known[address]; ok {
		return coord, nil
	}
	return geo.Coordinate{}, geocoding.NewError(address, geocoding.ErrNoResults)
}

type fixture struct {
	events      *fakeEventStore
	categories  *fakeCategoryStore
	memberships *fakeMembershipStore
	messages    *fakeMessageStore
	geocoder    *fakeGeocoder
	svc         EventService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		events:      &fakeEventStore{},
		categories:  &fakeCategoryStore{},
		memberships: &fakeMembershipStore{},
		messages:    &fakeMessageStore{},
		geocoder:    &fakeGeocoder{known: map[string]geo.Coordinate{}},
	}
	f.svc = NewEventService(f.events, f.categories, f.memberships, f.messages, fakeTxRunner{}, f.geocoder, zerolog.Nop())
	return f
}

func (f *fixture) mustCreateEvent(t *testing.T, title, description string, categories []string, lat, lon float64) *models.Event {
	t.Helper()
	now := time.Now()
	event, err := f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{
		Title:       title,
		Description: description,
		Categories:  categories,
		StartTime:   now,
		EndTime:     now.Add(2 * time.Hour),
		Latitude:    lat,
		Longitude:   lon,
	})
	if err != nil {
		t.Fatalf("CreateEvent(%q): %v", title, err)
	}
	return event
}

// --- tests ---

func TestCreateEventValidation(t *testing.T) {
	now := time.Now()
	valid := dto.CreateEventRequest{
		Title:     "Jazz Night",
		StartTime: now,
		EndTime:   now.Add(time.Hour),
		Latitude:  40.0,
		Longitude: -74.0,
	}

	tests := []struct {
		name   string
		mutate func(*dto.CreateEventRequest)
	}{
		{"empty title", func(r *dto.CreateEventRequest) { r.Title = "   " }},
		{"end before start", func(r *dto.CreateEventRequest) { r.EndTime = r.StartTime.Add(-time.Minute) }},
		{"latitude out of range", func(r *dto.CreateEventRequest) { r.Latitude = 91 }},
		{"longitude out of range", func(r *dto.CreateEventRequest) { r.Longitude = -181 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := valid
			tt.mutate(&req)
			_, err := f.svc.CreateEvent(context.Background(), &req)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("CreateEvent error = %v, want ErrValidationFailed", err)
			}
			if len(f.events.events) != 0 {
				t.Error("invalid event was persisted")
			}
		})
	}
}

func TestCreateEventStartEqualsEndIsValid(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	event, err := f.svc.CreateEvent(context.Background(), &dto.CreateEventRequest{
		Title:     "Flash Mob",
		StartTime: now,
		EndTime:   now,
		Latitude:  40.0,
		Longitude: -74.0,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if !event.IsActive {
		t.Error("new event should be active")
	}
	if event.DisabledOn != nil {
		t.Error("new event should have no deactivation timestamp")
	}
}

func TestCreateEventNormalizesAndDeduplicatesCategories(t *testing.T) {
	f := newFixture(t)
	event := f.mustCreateEvent(t, "Jam Session", "open jam", []string{" Music ", "music", "JAZZ"}, 40.0, -74.0)

	if len(event.Categories) != 2 {
		t.Fatalf("event has %d categories, want 2", len(event.Categories))
	}
	labels := map[string]bool{}
	for _, c := range event.Categories {
		labels[c.Label] = true
	}
	if !labels["music"] || !labels["jazz"] {
		t.Errorf("category labels = %v, want music and jazz", labels)
	}
}

func TestCategoryIdentityStableAcrossEvents(t *testing.T) {
	f := newFixture(t)
	first := f.mustCreateEvent(t, "First", "", []string{"Music"}, 40.0, -74.0)
	second := f.mustCreateEvent(t, "Second", "", []string{"  MUSIC  "}, 40.0, -74.0)

	if first.Categories[0].ID != second.Categories[0].ID {
		t.Errorf("same label produced two category identities: %s vs %s",
			first.Categories[0].ID, second.Categories[0].ID)
	}
}

func TestSearchRadiusBoundaries(t *testing.T) {
	f := newFixture(t)
	origin := geo.Coordinate{Latitude: 40.0, Longitude: -74.0}
	f.mustCreateEvent(t, "At Origin", "right here", nil, 40.0, -74.0)
	f.mustCreateEvent(t, "One Degree North", "a bit away", nil, 41.0, -74.0) // ~69 miles

	tests := []struct {
		name   string
		radius float64
		want   int
	}{
		{"radius zero catches exact origin", 0, 1},
		{"radius below 69 miles excludes far event", 60, 1},
		{"radius above 69 miles includes both", 70, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := f.svc.Search(context.Background(), "", origin, tt.radius, geo.Miles)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(results) != tt.want {
				t.Errorf("got %d events, want %d", len(results), tt.want)
			}
		})
	}
}

func TestSearchScenarioJazzNight(t *testing.T) {
	f := newFixture(t)
	f.mustCreateEvent(t, "Jazz Night", "an evening of jazz", []string{"music"}, 40.0, -74.0)

	near, err := f.svc.Search(context.Background(), "", geo.Coordinate{Latitude: 40.0, Longitude: -74.0}, 10, geo.Miles)
	if err != nil {
		t.Fatalf("Search near: %v", err)
	}
	if len(near) != 1 || near[0].Title != "Jazz Night" {
		t.Errorf("search at event location returned %d results", len(near))
	}

	far, err := f.svc.Search(context.Background(), "", geo.Coordinate{Latitude: 41.0, Longitude: -74.0}, 10, geo.Miles)
	if err != nil {
		t.Fatalf("Search far: %v", err)
	}
	if len(far) != 0 {
		t.Errorf("search ~69 miles away returned %d results, want 0", len(far))
	}
}

func TestSearchTextFilterIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	origin := geo.Coordinate{Latitude: 40.0, Longitude: -74.0}
	f.mustCreateEvent(t, "A", "Live JAZZ downtown", nil, 40.0, -74.0)
	f.mustCreateEvent(t, "B", "board games", nil, 40.0, -74.0)

	results, err := f.svc.Search(context.Background(), "  Jazz  ", origin, 10, geo.Miles)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "A" {
		t.Errorf("got %d results, want only event A", len(results))
	}
}

// Tag search keeps the #-token inside the substring filter, so an event
// only matches "#music" when its description contains the literal token
// and it carries the category.
func TestSearchTagFilter(t *testing.T) {
	f := newFixture(t)
	origin := geo.Coordinate{Latitude: 40.0, Longitude: -74.0}
	f.mustCreateEvent(t, "Tagged And Categorized", "come for #music tonight", []string{"music"}, 40.0, -74.0)
	f.mustCreateEvent(t, "Tagged Wrong Category", "#music in the park", []string{"sports"}, 40.0, -74.0)
	f.mustCreateEvent(t, "Category Only", "smooth jazz show", []string{"music"}, 40.0, -74.0)

	results, err := f.svc.Search(context.Background(), "#music", origin, 10, geo.Miles)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Tagged And Categorized" {
		names := make([]string, 0, len(results))
		for _, e := range results {
			names = append(names, e.Title)
		}
		t.Errorf("results = %v, want only Tagged And Categorized", names)
	}
}

func TestSearchNoFiltersReturnsAllWithinRadius(t *testing.T) {
	f := newFixture(t)
	origin := geo.Coordinate{Latitude: 40.0, Longitude: -74.0}
	f.mustCreateEvent(t, "A", "one", nil, 40.0, -74.0)
	f.mustCreateEvent(t, "B", "two", []string{"music"}, 40.01, -74.01)
	f.mustCreateEvent(t, "C", "three", nil, 50.0, -74.0)

	results, err := f.svc.Search(context.Background(), "", origin, 10, geo.Miles)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2 (C is far outside radius)", len(results))
	}
}

func TestSearchByLocationGeocodeFailure(t *testing.T) {
	f := newFixture(t)
	f.mustCreateEvent(t, "A", "one", nil, 40.0, -74.0)

	results, err := f.svc.SearchByLocation(context.Background(), "", "nowhere, xx", 10, geo.Miles)
	if err == nil {
		t.Fatal("expected geocode failure, got nil")
	}
	var geoErr *geocoding.Error
	if !errors.As(err, &geoErr) {
		t.Fatalf("error type = %T, want *geocoding.Error", err)
	}
	if results != nil {
		t.Error("failed search must not return partial results")
	}
}

func TestSearchByLocationResolvesAndFilters(t *testing.T) {
	f := newFixture(t)
	f.geocoder.known["new york, ny"] = geo.Coordinate{Latitude: 40.0, Longitude: -74.0}
	f.mustCreateEvent(t, "A", "one", nil, 40.0, -74.0)

	results, err := f.svc.SearchByLocation(context.Background(), "", "new york, ny", 10, geo.Miles)
	if err != nil {
		t.Fatalf("SearchByLocation: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestResolveLocationFailureNeverReturnsDefaultCoordinate(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ResolveLocation(context.Background(), "unresolvable")
	if err == nil {
		t.Fatal("expected error for unresolvable address")
	}
	if !errors.Is(err, geocoding.ErrNoResults) {
		t.Errorf("error = %v, want wrapped ErrNoResults", err)
	}
}

func TestOpenAndCloseEvent(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	event := f.mustCreateEvent(t, "A", "one", nil, 40.0, -74.0)

	if err := f.svc.CloseEvent(context.Background(), userID, event.ID); err != nil {
		t.Fatalf("CloseEvent: %v", err)
	}
	stored, _ := f.events.GetByID(context.Background(), event.ID)
	if stored.IsActive {
		t.Error("event still active after close")
	}
	if stored.DisabledOn == nil {
		t.Error("close did not record a deactivation timestamp")
	}

	if err := f.svc.OpenEvent(context.Background(), userID, event.ID); err != nil {
		t.Fatalf("OpenEvent: %v", err)
	}
	stored, _ = f.events.GetByID(context.Background(), event.ID)
	if !stored.IsActive {
		t.Error("event not active after open")
	}
	if stored.DisabledOn != nil {
		t.Error("open did not clear the deactivation timestamp")
	}
}

func TestOpenCloseUnknownEvent(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	if err := f.svc.OpenEvent(context.Background(), userID, uuid.New()); !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Errorf("OpenEvent error = %v, want ErrEventNotFound", err)
	}
	if err := f.svc.CloseEvent(context.Background(), userID, uuid.New()); !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Errorf("CloseEvent error = %v, want ErrEventNotFound", err)
	}
}

func TestJoinEvent(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	event := f.mustCreateEvent(t, "A", "one", nil, 40.0, -74.0)

	if err := f.svc.JoinEvent(context.Background(), userID, event.ID); err != nil {
		t.Fatalf("JoinEvent: %v", err)
	}
	// Joining again is idempotent.
	if err := f.svc.JoinEvent(context.Background(), userID, event.ID); err != nil {
		t.Fatalf("JoinEvent (repeat): %v", err)
	}
	if len(f.memberships.joined) != 1 {
		t.Errorf("membership count = %d, want 1", len(f.memberships.joined))
	}

	if err := f.svc.JoinEvent(context.Background(), userID, uuid.New()); !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Errorf("JoinEvent unknown event error = %v, want ErrEventNotFound", err)
	}
}

func TestPostAndListMessages(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	event := f.mustCreateEvent(t, "A", "one", nil, 40.0, -74.0)

	if _, err := f.svc.PostMessage(context.Background(), userID, event.ID, "  "); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("PostMessage blank text error = %v, want ErrValidationFailed", err)
	}

	msg, err := f.svc.PostMessage(context.Background(), userID, event.ID, "see you there")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if msg.ID == uuid.Nil {
		t.Error("message has no identity")
	}

	listed, err := f.svc.ListMessages(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(listed) != 1 || listed[0].Text != "see you there" {
		t.Errorf("listed messages = %v", listed)
	}

	if _, err := f.svc.ListMessages(context.Background(), uuid.New()); !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Errorf("ListMessages unknown event error = %v, want ErrEventNotFound", err)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{"", nil},
		{"   ", nil},
		{"Jazz Night", strPtr("jazz night")},
		{"  #Music live  ", strPtr("#music live")},
	}

	for _, tt := range tests {
		got := normalizeQuery(tt.in)
		switch {
		case got == nil && tt.want != nil:
			t.Errorf("normalizeQuery(%q) = nil, want %q", tt.in, *tt.want)
		case got != nil && tt.want == nil:
			t.Errorf("normalizeQuery(%q) = %q, want nil", tt.in, *got)
		case got != nil && tt.want != nil && *got != *tt.want:
			t.Errorf("normalizeQuery(%q) = %q, want %q", tt.in, *got, *tt.want)
		}
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"jazz night", nil},
		{"#music", []string{"music"}},
		{"live #music and #food trucks", []string{"music", "food"}},
	}

	for _, tt := range tests {
		got := parseTags(strPtr(tt.in))
		if len(got) != len(tt.want) {
			t.Errorf("parseTags(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseTags(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}

	if got := parseTags(nil); got != nil {
		t.Errorf("parseTags(nil) = %v, want nil", got)
	}
}

func strPtr(s string) *string { return &s }
