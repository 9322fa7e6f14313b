//go:build integration

package vessel_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vesselregistry/internal/platform/postgres"
	"vesselregistry/internal/vessel/models"
	vesselstore "vesselregistry/internal/vessel/store/vessel"
	"vesselregistry/pkg/platform/sentinel"
	"vesselregistry/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *vesselstore.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(s.postgres.DB, "file://../../../../migrations"))
	s.store = vesselstore.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(context.Background(), "vessels"))
}

func newStoredVessel(name, imoNumber string) *models.Vessel {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Vessel{
		ID:        uuid.New(),
		Name:      name,
		IMONumber: imoNumber,
		Type:      models.TypeCargoShip,
		FlagState: "Panama",
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	year := 2007
	length := 397.7
	tonnage := 170794.0
	eta := time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)

	v := newStoredVessel("Emma Maersk", "IMO9321483")
	v.Type = models.TypeContainerShip
	v.FlagState = "Denmark"
	v.YearBuilt = &year
	v.LengthMeters = &length
	v.GrossTonnage = &tonnage
	v.Status = models.StatusAtSea
	v.LastPortOfCall = "Rotterdam"
	v.NextPortOfCall = "Singapore"
	v.EstimatedArrival = &eta

	s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, v))

	found, err := s.store.FindByID(ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(v.Name, found.Name)
	s.Equal(v.IMONumber, found.IMONumber)
	s.Equal(v.Type, found.Type)
	s.Equal(v.FlagState, found.FlagState)
	s.Require().NotNil(found.YearBuilt)
	s.Equal(year, *found.YearBuilt)
	s.Require().NotNil(found.LengthMeters)
	s.InDelta(length, *found.LengthMeters, 0.001)
	s.Require().NotNil(found.GrossTonnage)
	s.InDelta(tonnage, *found.GrossTonnage, 0.001)
	s.Equal(v.Status, found.Status)
	s.Equal("Rotterdam", found.LastPortOfCall)
	s.Equal("Singapore", found.NextPortOfCall)
	s.Require().NotNil(found.EstimatedArrival)
	s.True(eta.Equal(*found.EstimatedArrival))

	byIMO, err := s.store.FindByIMONumber(ctx, v.IMONumber)
	s.Require().NoError(err)
	s.Equal(v.ID, byIMO.ID)
}

func (s *PostgresStoreSuite) TestNullableFieldsSurviveRoundTrip() {
	ctx := context.Background()

	v := newStoredVessel("Bare Hull", "IMO1234567")
	s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, v))

	found, err := s.store.FindByID(ctx, v.ID)
	s.Require().NoError(err)
	s.Nil(found.YearBuilt)
	s.Nil(found.LengthMeters)
	s.Nil(found.GrossTonnage)
	s.Nil(found.EstimatedArrival)
	s.Empty(found.LastPortOfCall)
	s.Empty(found.NextPortOfCall)
}

// TestConcurrentIMOViolation verifies that concurrent registrations of the
// same IMO number result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentIMOViolation() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			v := newStoredVessel("Racer "+uuid.NewString(), "IMO7654321")
			err := s.store.CreateIfIMOAvailable(ctx, v)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one registration should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")

	found, err := s.store.FindByIMONumber(ctx, "IMO7654321")
	s.Require().NoError(err)
	s.NotNil(found)
}

func (s *PostgresStoreSuite) TestUpdateReleasesIMONumber() {
	ctx := context.Background()

	v := newStoredVessel("Rebranded", "IMO1111111")
	s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, v))

	v.IMONumber = "IMO2222222"
	v.UpdatedAt = time.Now().UTC()
	s.Require().NoError(s.store.Update(ctx, v))

	other := newStoredVessel("Newcomer", "IMO1111111")
	s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, other))

	_, err := s.store.FindByIMONumber(ctx, "IMO2222222")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestUpdateToTakenIMOConflicts() {
	ctx := context.Background()

	first := newStoredVessel("First", "IMO1111111")
	second := newStoredVessel("Second", "IMO2222222")
	s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, first))
	s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, second))

	second.IMONumber = first.IMONumber
	err := s.store.Update(ctx, second)
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestNotFoundErrors() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByIMONumber(ctx, "IMO9999999")
	s.ErrorIs(err, sentinel.ErrNotFound)

	ghost := newStoredVessel("Ghost Ship", "IMO9999999")
	s.ErrorIs(s.store.Update(ctx, ghost), sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, ghost.ID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()

	v := newStoredVessel("Condemned", "IMO1234567")
	s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, v))
	s.Require().NoError(s.store.Delete(ctx, v.ID))

	_, err := s.store.FindByID(ctx, v.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	reused := newStoredVessel("Replacement", "IMO1234567")
	s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, reused))
}

func (s *PostgresStoreSuite) TestFilterQueries() {
	ctx := context.Background()

	seed := func(name, imo string, t models.VesselType, status models.VesselStatus, flag string, year *int, tonnage *float64) {
		v := newStoredVessel(name, imo)
		v.Type = t
		v.Status = status
		v.FlagState = flag
		v.YearBuilt = year
		v.GrossTonnage = tonnage
		s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, v))
	}
	year1995, year2010 := 1995, 2010
	big, small := 150000.0, 3000.0

	seed("Crude Carrier", "IMO1000001", models.TypeTanker, models.StatusAtSea, "Liberia", &year1995, &big)
	seed("Oil Runner", "IMO1000002", models.TypeTanker, models.StatusInPort, "Liberia", &year2010, &small)
	seed("Island Hopper", "IMO1000003", models.TypeFerry, models.StatusActive, "Greece", nil, nil)

	byType, err := s.store.FindByType(ctx, models.TypeTanker)
	s.Require().NoError(err)
	s.Len(byType, 2)

	byStatus, err := s.store.FindByStatus(ctx, models.StatusInPort)
	s.Require().NoError(err)
	s.Len(byStatus, 1)

	byFlag, err := s.store.FindByFlagState(ctx, "Liberia")
	s.Require().NoError(err)
	s.Len(byFlag, 2)

	byFlagStatus, err := s.store.FindByFlagStateAndStatus(ctx, "Liberia", models.StatusInPort)
	s.Require().NoError(err)
	s.Len(byFlagStatus, 1)
	s.Equal("Oil Runner", byFlagStatus[0].Name)

	byName, err := s.store.FindByNameContaining(ctx, "Carrier")
	s.Require().NoError(err)
	s.Len(byName, 1)

	lowercase, err := s.store.FindByNameContaining(ctx, "carrier")
	s.Require().NoError(err)
	s.Empty(lowercase)

	byYear, err := s.store.FindByYearBuiltBetween(ctx, 1995, 2010)
	s.Require().NoError(err)
	s.Len(byYear, 2)

	byTonnage, err := s.store.FindByGrossTonnageGreaterThan(ctx, 3000)
	s.Require().NoError(err)
	s.Len(byTonnage, 1)
	s.Equal("Crude Carrier", byTonnage[0].Name)

	tankers, err := s.store.CountByType(ctx, models.TypeTanker)
	s.Require().NoError(err)
	s.EqualValues(2, tankers)

	yachts, err := s.store.CountByType(ctx, models.TypeYacht)
	s.Require().NoError(err)
	s.EqualValues(0, yachts)
}

func (s *PostgresStoreSuite) TestPagination() {
	ctx := context.Background()

	names := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}
	for i, name := range names {
		v := newStoredVessel(name, "IMO100000"+string(rune('1'+i)))
		s.Require().NoError(s.store.CreateIfIMOAvailable(ctx, v))
	}

	page, err := s.store.ListPage(ctx, models.ListParams{Page: 0, Size: 2, SortBy: "name", SortDir: models.SortAsc})
	s.Require().NoError(err)
	s.EqualValues(5, page.TotalCount)
	s.Require().Len(page.Vessels, 2)
	s.Equal("Alpha", page.Vessels[0].Name)
	s.Equal("Bravo", page.Vessels[1].Name)

	last, err := s.store.ListPage(ctx, models.ListParams{Page: 2, Size: 2, SortBy: "name", SortDir: models.SortAsc})
	s.Require().NoError(err)
	s.Require().Len(last.Vessels, 1)
	s.Equal("Echo", last.Vessels[0].Name)

	desc, err := s.store.ListPage(ctx, models.ListParams{Page: 0, Size: 5, SortBy: "name", SortDir: models.SortDesc})
	s.Require().NoError(err)
	s.Equal("Echo", desc.Vessels[0].Name)
}
