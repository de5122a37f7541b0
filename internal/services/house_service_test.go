package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nestbay/api/internal/models"
)

type fakeReviewRepo struct {
	reviews map[uuid.UUID][]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID][]*models.Review)}
}

func (f *fakeReviewRepo) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	f.reviews[review.HouseID] = append(f.reviews[review.HouseID], review)
	return review, nil
}

func (f *fakeReviewRepo) GetReviewsByHouse(ctx context.Context, houseId uuid.UUID) ([]*models.Review, int, error) {
	rs := f.reviews[houseId]
	return rs, len(rs), nil
}

// Cache is deliberately nil throughout: every cache method tolerates a nil
// receiver so the service works without Redis.
func newTestHouseService() (*HouseService, *fakeHouseRepo, *fakeReviewRepo) {
	houseRepo := newFakeHouseRepo()
	reviewRepo := newFakeReviewRepo()
	return NewHouseService(houseRepo, reviewRepo, nil), houseRepo, reviewRepo
}

func TestCreateHouseSanitizesDescription(t *testing.T) {
	svc, repo, _ := newTestHouseService()
	host := uuid.New()

	created, err := svc.CreateHouse(context.Background(), &models.House{
		Title:       "Loft with a view",
		Town:        "Bristol",
		Description: `A <strong>bright</strong> loft<script>alert(1)</script>`,
	}, host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(created.Description, "script") {
		t.Errorf("script markup survived sanitization: %q", created.Description)
	}
	if !strings.Contains(created.Description, "<strong>bright</strong>") {
		t.Errorf("allowed markup was stripped: %q", created.Description)
	}
	if created.HostId != host {
		t.Error("host id should be set from the caller, not the payload")
	}
	if created.Id == uuid.Nil {
		t.Error("a new house should get an id")
	}
	if _, ok := repo.houses[created.Id]; !ok {
		t.Error("house was not stored")
	}
}

func TestCreateHouseRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestHouseService()

	if _, err := svc.CreateHouse(context.Background(), &models.House{Title: "No town"}, uuid.New()); err == nil {
		t.Error("expected validation error for missing town")
	}
	if _, err := svc.CreateHouse(context.Background(), &models.House{Title: "T", Town: "X"}, uuid.Nil); !errors.Is(err, models.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID for nil host, got %v", err)
	}
}

func TestGetHouseReturnsReviews(t *testing.T) {
	svc, houseRepo, reviewRepo := newTestHouseService()
	house := &models.House{Id: uuid.New(), HostId: uuid.New(), Title: "Cottage", Town: "Kendal"}
	houseRepo.houses[house.Id] = house
	reviewRepo.reviews[house.Id] = []*models.Review{
		{HouseID: house.Id, UserID: uuid.New(), Comment: "Great stay", Rating: 5},
	}

	detail, err := svc.GetHouse(context.Background(), house.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.House.Id != house.Id {
		t.Error("wrong house returned")
	}
	if detail.ReviewsCount != 1 || len(detail.Reviews) != 1 {
		t.Errorf("expected 1 review, got count=%d len=%d", detail.ReviewsCount, len(detail.Reviews))
	}
}

func TestGetHouseNotFound(t *testing.T) {
	svc, _, _ := newTestHouseService()

	_, err := svc.GetHouse(context.Background(), uuid.New())
	if !errors.Is(err, models.ErrHouseNotFound) {
		t.Errorf("expected ErrHouseNotFound, got %v", err)
	}
}

func TestUpdateHouseOwnership(t *testing.T) {
	svc, houseRepo, _ := newTestHouseService()
	owner := uuid.New()
	house := &models.House{Id: uuid.New(), HostId: owner, Title: "Barn", Town: "Ludlow"}
	houseRepo.houses[house.Id] = house

	_, err := svc.UpdateHouse(context.Background(), house.Id, uuid.New(), map[string]interface{}{"title": "Hijacked"})
	if !errors.Is(err, models.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for a stranger, got %v", err)
	}

	updated, err := svc.UpdateHouse(context.Background(), house.Id, owner, map[string]interface{}{"title": "Converted barn"})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Title != "Converted barn" {
		t.Errorf("title not updated, got %q", updated.Title)
	}
}

func TestUpdateHouseSanitizesDescriptionAndProtectsIds(t *testing.T) {
	svc, houseRepo, _ := newTestHouseService()
	owner := uuid.New()
	house := &models.House{Id: uuid.New(), HostId: owner, Title: "Flat", Town: "Leeds"}
	houseRepo.houses[house.Id] = house

	fields := map[string]interface{}{
		"description": `Nice <em>flat</em><script>x()</script>`,
		"host_id":     uuid.New().String(),
	}
	updated, err := svc.UpdateHouse(context.Background(), house.Id, owner, fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(updated.Description, "script") {
		t.Errorf("script markup survived sanitization: %q", updated.Description)
	}
	if updated.HostId != owner {
		t.Error("host_id must not be writable through update")
	}
}
