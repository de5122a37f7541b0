package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nestbay/api/internal/helpers"
	"github.com/nestbay/api/internal/models"
)

// fakeBookingRepo mirrors the Mongo repo's contract in memory. The mutex
// around check-and-insert stands in for the per-house serialization the real
// repo gets from writing the house document inside the reservation
// transaction.
type fakeBookingRepo struct {
	mu       sync.Mutex
	houses   *fakeHouseRepo
	bookings []*models.Booking
}

func (f *fakeBookingRepo) countOverlapping(houseID uuid.UUID, start, end time.Time) int64 {
	var n int64
	for _, b := range f.bookings {
		if b.HouseID == houseID && !b.StartDate.After(end) && !b.EndDate.Before(start) {
			n++
		}
	}
	return n
}

func (f *fakeBookingRepo) ReserveIfAvailable(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	house, ok := f.houses.houses[booking.HouseID]
	if !ok {
		return models.ErrHouseNotFound
	}
	house.ReserveSeq++
	if f.countOverlapping(booking.HouseID, booking.StartDate, booking.EndDate) > 0 {
		return models.ErrDatesUnavailable
	}
	booking.ID = primitive.NewObjectID()
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeBookingRepo) CountOverlapping(ctx context.Context, houseID uuid.UUID, start, end time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countOverlapping(houseID, start, end), nil
}

func (f *fakeBookingRepo) ListByHouseEndingAfter(ctx context.Context, houseID uuid.UUID, from time.Time) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.HouseID == houseID && !b.EndDate.Before(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkPaidBySession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.SessionID == sessionID {
			b.Paid = true
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return models.ErrBookingNotFound
}

func (f *fakeBookingRepo) DeleteUnpaidCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*models.Booking
	var purged int64
	for _, b := range f.bookings {
		if !b.Paid && b.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, b)
	}
	f.bookings = kept
	return purged, nil
}

func (f *fakeBookingRepo) ListPaidByUser(ctx context.Context, userID uuid.UUID, from time.Time) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID && b.Paid && !b.EndDate.Before(from) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeBookingRepo) ListPaidByHouses(ctx context.Context, houseIDs []uuid.UUID, from time.Time) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[uuid.UUID]struct{}, len(houseIDs))
	for _, id := range houseIDs {
		ids[id] = struct{}{}
	}
	var out []*models.Booking
	for _, b := range f.bookings {
		if _, ok := ids[b.HouseID]; ok && b.Paid && !b.EndDate.Before(from) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

type fakeHouseRepo struct {
	houses map[uuid.UUID]*models.House
}

func newFakeHouseRepo() *fakeHouseRepo {
	return &fakeHouseRepo{houses: make(map[uuid.UUID]*models.House)}
}

func (f *fakeHouseRepo) CreateHouse(ctx context.Context, house *models.House) (*models.House, error) {
	f.houses[house.Id] = house
	return house, nil
}

func (f *fakeHouseRepo) GetHouseByID(ctx context.Context, id uuid.UUID) (*models.House, error) {
	house, ok := f.houses[id]
	if !ok {
		return nil, models.ErrHouseNotFound
	}
	return house, nil
}

func (f *fakeHouseRepo) ListHouses(ctx context.Context, offset, limit int) ([]*models.House, int, error) {
	var out []*models.House
	for _, h := range f.houses {
		out = append(out, h)
	}
	return out, len(out), nil
}

func (f *fakeHouseRepo) ListHousesByHost(ctx context.Context, hostId uuid.UUID) ([]*models.House, error) {
	var out []*models.House
	for _, h := range f.houses {
		if h.HostId == hostId {
			out = append(out, h)
		}
	}
	return out, nil
}

// UpdateHouse applies every field it is handed, like the real $set does; the
// service, not the store, decides which fields are off limits.
func (f *fakeHouseRepo) UpdateHouse(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.House, error) {
	house, ok := f.houses[id]
	if !ok {
		return nil, models.ErrHouseNotFound
	}
	for key, value := range fields {
		switch key {
		case "id":
			house.Id = asUUID(value)
		case "host_id":
			house.HostId = asUUID(value)
		case "title":
			house.Title, _ = value.(string)
		case "description":
			house.Description, _ = value.(string)
		case "type":
			house.Type, _ = value.(string)
		case "town":
			house.Town, _ = value.(string)
		case "picture":
			house.Picture, _ = value.(string)
		case "price_per_night":
			house.PricePerNight, _ = value.(float64)
		}
	}
	return house, nil
}

func asUUID(value interface{}) uuid.UUID {
	switch v := value.(type) {
	case uuid.UUID:
		return v
	case string:
		id, _ := uuid.Parse(v)
		return id
	}
	return uuid.Nil
}

func newTestBookingService(hold time.Duration) (*BookingService, *fakeBookingRepo, *fakeHouseRepo) {
	houseRepo := newFakeHouseRepo()
	bookingRepo := &fakeBookingRepo{houses: houseRepo}
	return NewBookingService(bookingRepo, houseRepo, hold), bookingRepo, houseRepo
}

func seedHouse(houseRepo *fakeHouseRepo) uuid.UUID {
	house := &models.House{Id: uuid.New(), HostId: uuid.New(), Title: "Test house", Town: "Testtown"}
	houseRepo.houses[house.Id] = house
	return house.Id
}

func futureDate(daysFromNow int) time.Time {
	return helpers.DateOnly(time.Now()).AddDate(0, 0, daysFromNow)
}

func TestReserveDisjointRangesBothSucceed(t *testing.T) {
	svc, _, houseRepo := newTestBookingService(time.Hour)
	ctx := context.Background()
	house := seedHouse(houseRepo)
	user := uuid.New()

	if _, err := svc.Reserve(ctx, house, user, futureDate(1), futureDate(3), "sess-1"); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}
	if _, err := svc.Reserve(ctx, house, user, futureDate(4), futureDate(6), "sess-2"); err != nil {
		t.Fatalf("second disjoint reservation failed: %v", err)
	}
}

func TestReserveUnknownHouse(t *testing.T) {
	svc, _, _ := newTestBookingService(time.Hour)

	_, err := svc.Reserve(context.Background(), uuid.New(), uuid.New(), futureDate(1), futureDate(2), "sess")
	if !errors.Is(err, models.ErrHouseNotFound) {
		t.Errorf("expected ErrHouseNotFound, got %v", err)
	}
}

func TestCheckAvailabilityOverlap(t *testing.T) {
	svc, _, houseRepo := newTestBookingService(time.Hour)
	ctx := context.Background()
	house := seedHouse(houseRepo)
	user := uuid.New()

	if _, err := svc.Reserve(ctx, house, user, futureDate(10), futureDate(12), "sess-1"); err != nil {
		t.Fatalf("reservation failed: %v", err)
	}

	tests := []struct {
		name       string
		start, end time.Time
		wantFree   bool
	}{
		{"fully inside", futureDate(11), futureDate(11), false},
		{"straddles start", futureDate(9), futureDate(10), false},
		{"straddles end", futureDate(12), futureDate(14), false},
		{"covers whole booking", futureDate(9), futureDate(13), false},
		{"touches at start endpoint", futureDate(8), futureDate(10), false},
		{"touches at end endpoint", futureDate(12), futureDate(13), false},
		{"before", futureDate(7), futureDate(9), true},
		{"after", futureDate(13), futureDate(15), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			free, err := svc.CheckAvailability(ctx, house, tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if free != tt.wantFree {
				t.Errorf("expected free=%v, got %v", tt.wantFree, free)
			}
		})
	}
}

func TestCheckAvailabilityUnpaidBookingBlocks(t *testing.T) {
	svc, repo, _ := newTestBookingService(time.Hour)
	ctx := context.Background()
	house := uuid.New()

	repo.bookings = append(repo.bookings, &models.Booking{
		HouseID:   house,
		UserID:    uuid.New(),
		StartDate: futureDate(5),
		EndDate:   futureDate(7),
		SessionID: "sess-unpaid",
		Paid:      false,
		CreatedAt: time.Now(),
	})

	free, err := svc.CheckAvailability(ctx, house, futureDate(6), futureDate(8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free {
		t.Error("expected unpaid booking to block the range")
	}
}

func TestBookedDatesExpandsAndDeduplicates(t *testing.T) {
	svc, repo, _ := newTestBookingService(time.Hour)
	ctx := context.Background()
	house := uuid.New()

	// Two bookings sharing a calendar day, seeded directly into the store.
	repo.bookings = append(repo.bookings,
		&models.Booking{HouseID: house, StartDate: futureDate(10), EndDate: futureDate(12), Paid: true},
		&models.Booking{HouseID: house, StartDate: futureDate(12), EndDate: futureDate(13), Paid: false},
	)

	dates, err := svc.BookedDates(ctx, house)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]struct{}{
		helpers.FormatDate(futureDate(10)): {},
		helpers.FormatDate(futureDate(11)): {},
		helpers.FormatDate(futureDate(12)): {},
		helpers.FormatDate(futureDate(13)): {},
	}
	if len(dates) != len(want) {
		t.Fatalf("expected %d distinct dates, got %d: %v", len(want), len(dates), dates)
	}
	for _, d := range dates {
		if _, ok := want[d]; !ok {
			t.Errorf("unexpected date %s", d)
		}
	}
}

func TestBookedDatesExcludesPastBookings(t *testing.T) {
	svc, repo, _ := newTestBookingService(time.Hour)
	ctx := context.Background()
	house := uuid.New()

	repo.bookings = append(repo.bookings,
		&models.Booking{HouseID: house, StartDate: futureDate(-10), EndDate: futureDate(-8), Paid: true},
		&models.Booking{HouseID: house, StartDate: futureDate(2), EndDate: futureDate(2), Paid: true},
	)

	dates, err := svc.BookedDates(ctx, house)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dates) != 1 || dates[0] != helpers.FormatDate(futureDate(2)) {
		t.Errorf("expected only the upcoming booking's date, got %v", dates)
	}
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	svc, repo, houseRepo := newTestBookingService(time.Hour)
	ctx := context.Background()
	house := seedHouse(houseRepo)

	if _, err := svc.Reserve(ctx, house, uuid.New(), futureDate(1), futureDate(2), "sess-pay"); err != nil {
		t.Fatalf("reservation failed: %v", err)
	}

	if err := svc.ConfirmPayment(ctx, "sess-pay"); err != nil {
		t.Fatalf("first confirmation failed: %v", err)
	}
	if err := svc.ConfirmPayment(ctx, "sess-pay"); err != nil {
		t.Fatalf("second confirmation should be a no-op success, got: %v", err)
	}
	if !repo.bookings[0].Paid {
		t.Error("booking should be marked paid")
	}
}

func TestConfirmPaymentUnknownSession(t *testing.T) {
	svc, _, _ := newTestBookingService(time.Hour)

	err := svc.ConfirmPayment(context.Background(), "no-such-session")
	if !errors.Is(err, models.ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestCleanupUnpaidHonoursHoldWindow(t *testing.T) {
	svc, repo, _ := newTestBookingService(time.Hour)
	ctx := context.Background()
	house := uuid.New()

	repo.bookings = append(repo.bookings,
		// Old and unpaid: purged.
		&models.Booking{HouseID: house, SessionID: "old-unpaid", Paid: false, CreatedAt: time.Now().Add(-2 * time.Hour)},
		// Old but paid: survives.
		&models.Booking{HouseID: house, SessionID: "old-paid", Paid: true, CreatedAt: time.Now().Add(-2 * time.Hour)},
		// Unpaid but inside the hold window: survives.
		&models.Booking{HouseID: house, SessionID: "fresh-unpaid", Paid: false, CreatedAt: time.Now().Add(-5 * time.Minute)},
	)

	purged, err := svc.CleanupUnpaid(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged booking, got %d", purged)
	}

	remaining := make(map[string]struct{})
	for _, b := range repo.bookings {
		remaining[b.SessionID] = struct{}{}
	}
	if _, ok := remaining["old-unpaid"]; ok {
		t.Error("old unpaid booking should have been purged")
	}
	if _, ok := remaining["old-paid"]; !ok {
		t.Error("paid booking should survive cleanup")
	}
	if _, ok := remaining["fresh-unpaid"]; !ok {
		t.Error("unpaid booking inside the hold window should survive cleanup")
	}
}

func TestConcurrentReservesAllowAtMostOne(t *testing.T) {
	svc, _, houseRepo := newTestBookingService(time.Hour)
	ctx := context.Background()
	house := seedHouse(houseRepo)

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// All ranges share at least one calendar day.
			_, err := svc.Reserve(ctx, house, uuid.New(), futureDate(20), futureDate(22+i%3), uuid.NewString())
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, models.ErrDatesUnavailable):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful reservation, got %d", succeeded)
	}
	if conflicted != n-1 {
		t.Errorf("expected %d conflicts, got %d", n-1, conflicted)
	}
}

func TestReserveInvalidArguments(t *testing.T) {
	svc, _, _ := newTestBookingService(time.Hour)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, uuid.New(), uuid.New(), futureDate(5), futureDate(3), "sess")
	if !errors.Is(err, models.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}

	_, err = svc.Reserve(ctx, uuid.Nil, uuid.New(), futureDate(1), futureDate(2), "sess")
	if !errors.Is(err, models.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID for nil house, got %v", err)
	}

	_, err = svc.Reserve(ctx, uuid.New(), uuid.Nil, futureDate(1), futureDate(2), "sess")
	if !errors.Is(err, models.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID for nil user, got %v", err)
	}

	if _, err := svc.Reserve(ctx, uuid.New(), uuid.New(), futureDate(1), futureDate(2), "  "); err == nil {
		t.Error("expected error for blank session id")
	}

	if _, err := svc.CheckAvailability(ctx, uuid.New(), futureDate(5), futureDate(3)); !errors.Is(err, models.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange from CheckAvailability, got %v", err)
	}
}

func TestListUserBookingsJoinsHouses(t *testing.T) {
	svc, repo, houses := newTestBookingService(time.Hour)
	ctx := context.Background()
	user := uuid.New()

	house := &models.House{Id: uuid.New(), HostId: uuid.New(), Title: "Seaside cabin", Town: "Whitby"}
	houses.houses[house.Id] = house

	repo.bookings = append(repo.bookings,
		&models.Booking{HouseID: house.Id, UserID: user, StartDate: futureDate(5), EndDate: futureDate(7), Paid: true},
		// Unpaid bookings never show up in the guest's list.
		&models.Booking{HouseID: house.Id, UserID: user, StartDate: futureDate(9), EndDate: futureDate(10), Paid: false},
	)

	joined, err := svc.ListUserBookings(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(joined) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(joined))
	}
	if joined[0].House == nil || joined[0].House.Title != "Seaside cabin" {
		t.Error("booking should carry its house")
	}
}

func TestHostDashboard(t *testing.T) {
	svc, repo, houses := newTestBookingService(time.Hour)
	ctx := context.Background()
	host := uuid.New()

	mine := &models.House{Id: uuid.New(), HostId: host, Title: "Mine"}
	other := &models.House{Id: uuid.New(), HostId: uuid.New(), Title: "Someone else's"}
	houses.houses[mine.Id] = mine
	houses.houses[other.Id] = other

	repo.bookings = append(repo.bookings,
		&models.Booking{HouseID: mine.Id, UserID: uuid.New(), StartDate: futureDate(3), EndDate: futureDate(4), Paid: true},
		&models.Booking{HouseID: other.Id, UserID: uuid.New(), StartDate: futureDate(3), EndDate: futureDate(4), Paid: true},
	)

	hostHouses, bookings, err := svc.HostDashboard(ctx, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hostHouses) != 1 || hostHouses[0].Id != mine.Id {
		t.Fatalf("expected only the host's house, got %d houses", len(hostHouses))
	}
	if len(bookings) != 1 || bookings[0].House.Id != mine.Id {
		t.Fatalf("expected only bookings of the host's houses, got %d", len(bookings))
	}
}
