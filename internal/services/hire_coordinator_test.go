package services

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/kperminova/gig-service/internal/models"
	"github.com/kperminova/gig-service/internal/notification"

	"github.com/jackc/pgx/v5/pgconn"
)

// memoryHireStore воспроизводит семантику транзакции найма в памяти:
// проверки и переходы статусов атомарны под мьютексом.
type memoryHireStore struct {
	mu   sync.Mutex
	gigs map[string]*models.Gig
	bids map[string]*models.Bid
}

func newMemoryHireStore(gigs []*models.Gig, bids []*models.Bid) *memoryHireStore {
	s := &memoryHireStore{
		gigs: make(map[string]*models.Gig),
		bids: make(map[string]*models.Bid),
	}
	for _, g := range gigs {
		copied := *g
		s.gigs[g.ID] = &copied
	}
	for _, b := range bids {
		copied := *b
		s.bids[b.ID] = &copied
	}
	return s
}

func (s *memoryHireStore) Hire(_ context.Context, bidId, callerId string) (*models.Bid, *models.Gig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bid, ok := s.bids[bidId]
	if !ok {
		return nil, nil, models.NewErrorResponse(http.StatusNotFound, "bid not found")
	}
	gig, ok := s.gigs[bid.GigID]
	if !ok {
		return nil, nil, models.NewErrorResponse(http.StatusNotFound, "gig not found")
	}
	if gig.OwnerID != callerId {
		return nil, nil, models.NewErrorResponse(http.StatusForbidden, "only the gig owner can hire")
	}
	if gig.Status != models.OpenGig {
		return nil, nil, models.NewErrorResponse(http.StatusConflict, "gig already assigned")
	}
	if bid.Status != models.PendingBid {
		return nil, nil, models.NewErrorResponse(http.StatusConflict, "bid is not pending")
	}

	gig.Status = models.AssignedGig
	bid.Status = models.HiredBid
	for _, other := range s.bids {
		if other.GigID == gig.ID && other.ID != bid.ID && other.Status == models.PendingBid {
			other.Status = models.RejectedBid
		}
	}

	hiredBid := *bid
	assignedGig := *gig
	return &hiredBid, &assignedGig, nil
}

func (s *memoryHireStore) snapshot(t *testing.T, id string) models.BidStatus {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	bid, ok := s.bids[id]
	if !ok {
		t.Fatalf("bid %s missing from store", id)
	}
	return bid.Status
}

func (s *memoryHireStore) gigStatus(t *testing.T, id string) models.GigStatus {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	gig, ok := s.gigs[id]
	if !ok {
		t.Fatalf("gig %s missing from store", id)
	}
	return gig.Status
}

// flakyHireStore проваливает первые failures попыток конфликтом сериализации.
type flakyHireStore struct {
	mu       sync.Mutex
	failures int
	attempts int
	inner    *memoryHireStore
}

func (s *flakyHireStore) Hire(ctx context.Context, bidId, callerId string) (*models.Bid, *models.Gig, error) {
	s.mu.Lock()
	s.attempts++
	fail := s.attempts <= s.failures
	s.mu.Unlock()
	if fail {
		return nil, nil, &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	}
	return s.inner.Hire(ctx, bidId, callerId)
}

// recordingPublisher запоминает опубликованные события.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	userID string
	event  notification.Event
}

func (p *recordingPublisher) Publish(userID string, event notification.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID: userID, event: event})
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "TEST: ", log.LstdFlags)
}

func marketplaceFixture() ([]*models.Gig, []*models.Bid) {
	now := time.Now().UTC()
	gigs := []*models.Gig{
		{ID: "G1", Title: "Logo design", Description: "Design a logo", Budget: 500, OwnerID: "owner", Status: models.OpenGig, CreatedAt: now},
	}
	bids := []*models.Bid{
		{ID: "B1", GigID: "G1", FreelancerID: "F1", Message: "I can do it", Price: 450, Status: models.PendingBid, CreatedAt: now},
		{ID: "B2", GigID: "G1", FreelancerID: "F2", Message: "Me too", Price: 400, Status: models.PendingBid, CreatedAt: now},
	}
	return gigs, bids
}

func TestHireSuccess(t *testing.T) {
	gigs, bids := marketplaceFixture()
	store := newMemoryHireStore(gigs, bids)
	publisher := &recordingPublisher{}
	coordinator := NewHireCoordinator(store, publisher, testLogger())

	hired, err := coordinator.Hire(context.Background(), "B1", "owner")
	if err != nil {
		t.Fatalf("hire failed: %v", err)
	}
	if hired.Status != models.HiredBid {
		t.Errorf("expected hired status, got %s", hired.Status)
	}

	if got := store.gigStatus(t, "G1"); got != models.AssignedGig {
		t.Errorf("expected gig assigned, got %s", got)
	}
	if got := store.snapshot(t, "B1"); got != models.HiredBid {
		t.Errorf("expected B1 hired, got %s", got)
	}
	if got := store.snapshot(t, "B2"); got != models.RejectedBid {
		t.Errorf("expected B2 rejected, got %s", got)
	}

	events := publisher.published()
	if len(events) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(events))
	}
	if events[0].userID != "F1" {
		t.Errorf("notification addressed to %s, want F1", events[0].userID)
	}
	if events[0].event.GigID != "G1" {
		t.Errorf("notification gigId = %s, want G1", events[0].event.GigID)
	}
	if events[0].event.Message != "You have been hired for Logo design" {
		t.Errorf("unexpected notification message: %q", events[0].event.Message)
	}
}

func TestHireIsTerminalForFurtherHires(t *testing.T) {
	gigs, bids := marketplaceFixture()
	store := newMemoryHireStore(gigs, bids)
	publisher := &recordingPublisher{}
	coordinator := NewHireCoordinator(store, publisher, testLogger())

	if _, err := coordinator.Hire(context.Background(), "B1", "owner"); err != nil {
		t.Fatalf("first hire failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		_, err := coordinator.Hire(context.Background(), "B1", "owner")
		assertStatusCode(t, err, http.StatusConflict)
	}
	_, err := coordinator.Hire(context.Background(), "B2", "owner")
	assertStatusCode(t, err, http.StatusConflict)

	if got := store.gigStatus(t, "G1"); got != models.AssignedGig {
		t.Errorf("gig status changed by rejected hires: %s", got)
	}
	if got := store.snapshot(t, "B2"); got != models.RejectedBid {
		t.Errorf("B2 status changed by rejected hires: %s", got)
	}
	if events := publisher.published(); len(events) != 1 {
		t.Errorf("expected one notification total, got %d", len(events))
	}
}

func TestHireForbiddenLeavesStateUntouched(t *testing.T) {
	gigs, bids := marketplaceFixture()
	store := newMemoryHireStore(gigs, bids)
	publisher := &recordingPublisher{}
	coordinator := NewHireCoordinator(store, publisher, testLogger())

	_, err := coordinator.Hire(context.Background(), "B1", "stranger")
	assertStatusCode(t, err, http.StatusForbidden)

	if got := store.gigStatus(t, "G1"); got != models.OpenGig {
		t.Errorf("gig status mutated on forbidden hire: %s", got)
	}
	if got := store.snapshot(t, "B1"); got != models.PendingBid {
		t.Errorf("B1 status mutated on forbidden hire: %s", got)
	}
	if got := store.snapshot(t, "B2"); got != models.PendingBid {
		t.Errorf("B2 status mutated on forbidden hire: %s", got)
	}
	if events := publisher.published(); len(events) != 0 {
		t.Errorf("expected no notifications, got %d", len(events))
	}
}

func TestHireUnknownBid(t *testing.T) {
	gigs, bids := marketplaceFixture()
	coordinator := NewHireCoordinator(newMemoryHireStore(gigs, bids), &recordingPublisher{}, testLogger())

	_, err := coordinator.Hire(context.Background(), "missing", "owner")
	assertStatusCode(t, err, http.StatusNotFound)
}

func TestHireRetriesSerializationFailures(t *testing.T) {
	gigs, bids := marketplaceFixture()
	store := &flakyHireStore{failures: 2, inner: newMemoryHireStore(gigs, bids)}
	publisher := &recordingPublisher{}
	coordinator := NewHireCoordinator(store, publisher, testLogger())

	hired, err := coordinator.Hire(context.Background(), "B1", "owner")
	if err != nil {
		t.Fatalf("hire should succeed after retries: %v", err)
	}
	if hired.Status != models.HiredBid {
		t.Errorf("expected hired status, got %s", hired.Status)
	}
	if store.attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", store.attempts)
	}
	if events := publisher.published(); len(events) != 1 {
		t.Errorf("expected one notification, got %d", len(events))
	}
}

func TestHireSurfacesConflictWhenRetriesExhaust(t *testing.T) {
	gigs, bids := marketplaceFixture()
	store := &flakyHireStore{failures: 100, inner: newMemoryHireStore(gigs, bids)}
	publisher := &recordingPublisher{}
	coordinator := NewHireCoordinator(store, publisher, testLogger())

	_, err := coordinator.Hire(context.Background(), "B1", "owner")
	assertStatusCode(t, err, http.StatusConflict)

	if store.attempts != hireRetryLimit {
		t.Errorf("expected %d attempts, got %d", hireRetryLimit, store.attempts)
	}
	if got := store.inner.gigStatus(t, "G1"); got != models.OpenGig {
		t.Errorf("gig status mutated by failed hire: %s", got)
	}
	if events := publisher.published(); len(events) != 0 {
		t.Errorf("expected no notifications, got %d", len(events))
	}
}

func TestConcurrentHiresExactlyOneWins(t *testing.T) {
	gigs, bids := marketplaceFixture()
	store := newMemoryHireStore(gigs, bids)
	publisher := &recordingPublisher{}
	coordinator := NewHireCoordinator(store, publisher, testLogger())

	type result struct {
		bidId string
		err   error
	}
	results := make(chan result, 2)

	var wg sync.WaitGroup
	for _, bidId := range []string{"B1", "B2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := coordinator.Hire(context.Background(), id, "owner")
			results <- result{bidId: id, err: err}
		}(bidId)
	}
	wg.Wait()
	close(results)

	var winners, losers int
	var winningBid string
	for res := range results {
		if res.err == nil {
			winners++
			winningBid = res.bidId
			continue
		}
		assertStatusCode(t, res.err, http.StatusConflict)
		losers++
	}
	if winners != 1 || losers != 1 {
		t.Fatalf("expected exactly one winner and one loser, got %d/%d", winners, losers)
	}

	if got := store.gigStatus(t, "G1"); got != models.AssignedGig {
		t.Errorf("expected gig assigned, got %s", got)
	}
	hiredCount := 0
	for _, id := range []string{"B1", "B2"} {
		switch store.snapshot(t, id) {
		case models.HiredBid:
			hiredCount++
			if id != winningBid {
				t.Errorf("hired bid %s does not match winner %s", id, winningBid)
			}
		case models.RejectedBid:
		default:
			t.Errorf("bid %s left in non-terminal state", id)
		}
	}
	if hiredCount != 1 {
		t.Errorf("expected exactly one hired bid, got %d", hiredCount)
	}
	if events := publisher.published(); len(events) != 1 {
		t.Errorf("expected exactly one notification, got %d", len(events))
	}
}

func assertStatusCode(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", want)
	}
	errorResponse, ok := err.(*models.ErrorResponse)
	if !ok {
		t.Fatalf("expected *models.ErrorResponse, got %T: %v", err, err)
	}
	if errorResponse.StatusCode != want {
		t.Fatalf("expected status %d, got %d (%s)", want, errorResponse.StatusCode, errorResponse.Message)
	}
}
