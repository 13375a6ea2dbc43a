package services

import (
	"testing"
	"time"

	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
)

func sampleTrips() []models.Trip {
	departure := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	return []models.Trip{
		{
			ID:               "t1",
			FromLocation:     "الرباط",
			ToLocation:       "الدار البيضاء",
			DepartureTime:    departure,
			TotalSeats:       4,
			AvailableSeats:   3,
			PricePerSeat:     80,
			GenderPreference: domain.PreferAny,
		},
		{
			ID:               "t2",
			FromLocation:     "فاس",
			ToLocation:       "مراكش",
			DepartureTime:    departure.Add(48 * time.Hour),
			TotalSeats:       4,
			AvailableSeats:   1,
			PricePerSeat:     150,
			GenderPreference: domain.PreferWomen,
		},
	}
}

func maxPrice(v int64) *int64 { return &v }

func TestApplyFiltersMaxPrice(t *testing.T) {
	trips := sampleTrips()
	out := ApplyFilters(trips, models.SearchCriteria{MaxPrice: maxPrice(100)})
	if len(out) != 1 {
		t.Fatalf("expected 1 trip under 100 MAD, got %d", len(out))
	}
	if out[0].FromLocation != "الرباط" {
		t.Fatalf("wrong trip kept: %s", out[0].FromLocation)
	}
}

func TestApplyFiltersZeroPriceCeiling(t *testing.T) {
	trips := append(sampleTrips(), models.Trip{
		ID: "t3", FromLocation: "طنجة", ToLocation: "تطوان",
		DepartureTime:  time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC),
		TotalSeats:     3, AvailableSeats: 2,
		PricePerSeat:     0,
		GenderPreference: domain.PreferAny,
	})

	// A ceiling of zero is a real filter, not an absent one.
	out := ApplyFilters(trips, models.SearchCriteria{MaxPrice: maxPrice(0)})
	if len(out) != 1 || out[0].ID != "t3" {
		t.Fatalf("zero ceiling should keep only free trips, got %d", len(out))
	}

	// Absent ceiling keeps everything.
	if out := ApplyFilters(trips, models.SearchCriteria{}); len(out) != 3 {
		t.Fatalf("absent ceiling should keep all trips, got %d", len(out))
	}
}

func TestApplyFiltersGenderPreference(t *testing.T) {
	trips := sampleTrips()
	// A trip open to anyone satisfies every preference; a women-only trip
	// only matches the women preference.
	out := ApplyFilters(trips, models.SearchCriteria{GenderPreference: domain.PreferWomen})
	if len(out) != 2 {
		t.Fatalf("expected both trips for women preference, got %d", len(out))
	}
	out = ApplyFilters(trips, models.SearchCriteria{GenderPreference: domain.PreferMen})
	if len(out) != 1 || out[0].ID != "t1" {
		t.Fatalf("expected only the open trip for men preference, got %d", len(out))
	}
}

func TestApplyFiltersOriginSubstringCaseFold(t *testing.T) {
	trips := []models.Trip{
		{ID: "t1", FromLocation: "Rabat Agdal", ToLocation: "Casablanca", GenderPreference: domain.PreferAny},
		{ID: "t2", FromLocation: "Fes", ToLocation: "Marrakech", GenderPreference: domain.PreferAny},
	}
	out := ApplyFilters(trips, models.SearchCriteria{From: "rabat"})
	if len(out) != 1 || out[0].ID != "t1" {
		t.Fatalf("expected case-insensitive substring match on origin, got %d", len(out))
	}
}

func TestApplyFiltersDateIsOnOrAfter(t *testing.T) {
	trips := sampleTrips()
	// Same calendar day as the first trip keeps both; the day after keeps
	// only the later one.
	out := ApplyFilters(trips, models.SearchCriteria{Date: time.Date(2026, 9, 10, 23, 0, 0, 0, time.UTC)})
	if len(out) != 2 {
		t.Fatalf("same-day filter should keep both trips, got %d", len(out))
	}
	out = ApplyFilters(trips, models.SearchCriteria{Date: time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)})
	if len(out) != 1 || out[0].ID != "t2" {
		t.Fatalf("next-day filter should keep only the later trip, got %d", len(out))
	}
}

func TestApplyFiltersGroupSeats(t *testing.T) {
	trips := sampleTrips()
	// One passenger can take any listed trip; a pair needs two free seats.
	if out := ApplyFilters(trips, models.SearchCriteria{Passengers: 1}); len(out) != 2 {
		t.Fatalf("single passenger should see both trips, got %d", len(out))
	}
	out := ApplyFilters(trips, models.SearchCriteria{Passengers: 2})
	if len(out) != 1 || out[0].ID != "t1" {
		t.Fatalf("pair should only see the trip with 3 seats, got %d", len(out))
	}
}

func TestApplyFiltersIdempotent(t *testing.T) {
	trips := sampleTrips()
	criteria := models.SearchCriteria{MaxPrice: maxPrice(100), GenderPreference: domain.PreferWomen}

	once := ApplyFilters(trips, criteria)
	twice := ApplyFilters(once, criteria)
	if len(once) != len(twice) {
		t.Fatalf("re-applying the same criteria changed the result: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("order changed on re-apply at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestApplyFiltersEmptyCriteriaKeepsAll(t *testing.T) {
	trips := sampleTrips()
	out := ApplyFilters(trips, models.SearchCriteria{})
	if len(out) != len(trips) {
		t.Fatalf("empty criteria must keep every trip, got %d of %d", len(out), len(trips))
	}
}
