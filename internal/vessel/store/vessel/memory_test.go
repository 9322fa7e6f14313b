package vessel

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vesselregistry/internal/vessel/models"
	"vesselregistry/pkg/platform/sentinel"
)

type VesselStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *VesselStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestVesselStoreSuite(t *testing.T) {
	suite.Run(t, new(VesselStoreSuite))
}

func (s *VesselStoreSuite) newVessel(name, imo string) *models.Vessel {
	now := time.Now()
	return &models.Vessel{
		ID:        uuid.New(),
		Name:      name,
		IMONumber: imo,
		Type:      models.TypeCargoShip,
		FlagState: "Panama",
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TestCreationAndLookups verifies the store correctly creates and retrieves vessels.
func (s *VesselStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds vessel by ID", func() {
		v := s.newVessel("Atlantic Star", "IMO1234567")
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))

		found, err := s.store.FindByID(s.ctx, v.ID)
		s.Require().NoError(err)
		s.Equal(v.Name, found.Name)
	})

	s.Run("finds vessel by IMO number", func() {
		v := s.newVessel("Pacific Dawn", "IMO7654321")
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))

		found, err := s.store.FindByIMONumber(s.ctx, "IMO7654321")
		s.Require().NoError(err)
		s.Equal(v.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown IMO number", func() {
		_, err := s.store.FindByIMONumber(s.ctx, "IMO9999999")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestIMOUniqueness verifies IMO number uniqueness enforcement.
func (s *VesselStoreSuite) TestIMOUniqueness() {
	s.Run("rejects duplicate IMO number", func() {
		first := s.newVessel("First", "IMO1111111")
		second := s.newVessel("Second", "IMO1111111")

		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, first))

		err := s.store.CreateIfIMOAvailable(s.ctx, second)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("rejects update stealing another vessel's IMO number", func() {
		a := s.newVessel("A", "IMO2222222")
		b := s.newVessel("B", "IMO3333333")
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, a))
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, b))

		b.IMONumber = "IMO2222222"
		err := s.store.Update(s.ctx, b)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("allows update keeping own IMO number", func() {
		v := s.newVessel("Keeper", "IMO4444444")
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))

		v.Name = "Keeper Renamed"
		s.Require().NoError(s.store.Update(s.ctx, v))

		found, err := s.store.FindByID(s.ctx, v.ID)
		s.Require().NoError(err)
		s.Equal("Keeper Renamed", found.Name)
	})

	s.Run("re-keys IMO index when number changes", func() {
		v := s.newVessel("Rekeyed", "IMO5555555")
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))

		v.IMONumber = "IMO6666666"
		s.Require().NoError(s.store.Update(s.ctx, v))

		_, err := s.store.FindByIMONumber(s.ctx, "IMO5555555")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		found, err := s.store.FindByIMONumber(s.ctx, "IMO6666666")
		s.Require().NoError(err)
		s.Equal(v.ID, found.ID)

		// Freed number is available again
		other := s.newVessel("Newcomer", "IMO5555555")
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, other))
	})
}

// TestDeletion verifies hard delete semantics.
func (s *VesselStoreSuite) TestDeletion() {
	s.Run("delete removes both indexes", func() {
		v := s.newVessel("Doomed", "IMO7777777")
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))
		s.Require().NoError(s.store.Delete(s.ctx, v.ID))

		_, err := s.store.FindByID(s.ctx, v.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindByIMONumber(s.ctx, v.IMONumber)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("second delete reports ErrNotFound", func() {
		v := s.newVessel("Twice", "IMO8888888")
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))
		s.Require().NoError(s.store.Delete(s.ctx, v.ID))
		s.Require().ErrorIs(s.store.Delete(s.ctx, v.ID), sentinel.ErrNotFound)
	})

	s.Run("update of deleted vessel reports ErrNotFound", func() {
		v := s.newVessel("Ghost", "IMO9999990")
		s.Require().ErrorIs(s.store.Update(s.ctx, v), sentinel.ErrNotFound)
	})
}

// TestFilters verifies the query surface.
func (s *VesselStoreSuite) TestFilters() {
	year := func(y int) *int { return &y }
	tons := func(x float64) *float64 { return &x }

	tanker1 := s.newVessel("Crude Carrier", "IMO1000001")
	tanker1.Type = models.TypeTanker
	tanker1.FlagState = "Liberia"
	tanker1.Status = models.StatusAtSea
	tanker1.YearBuilt = year(1995)
	tanker1.GrossTonnage = tons(150000)

	tanker2 := s.newVessel("Oil Runner", "IMO1000002")
	tanker2.Type = models.TypeTanker
	tanker2.FlagState = "Liberia"
	tanker2.Status = models.StatusInPort
	tanker2.YearBuilt = year(2010)
	tanker2.GrossTonnage = tons(90000)

	ferry := s.newVessel("Island Hopper", "IMO1000003")
	ferry.Type = models.TypeFerry
	ferry.FlagState = "Greece"
	ferry.Status = models.StatusAtSea
	ferry.YearBuilt = year(2005)

	for _, v := range []*models.Vessel{tanker1, tanker2, ferry} {
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))
	}

	s.Run("by type", func() {
		got, err := s.store.FindByType(s.ctx, models.TypeTanker)
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("by status", func() {
		got, err := s.store.FindByStatus(s.ctx, models.StatusAtSea)
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("by flag state", func() {
		got, err := s.store.FindByFlagState(s.ctx, "Liberia")
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("by flag state and status jointly", func() {
		got, err := s.store.FindByFlagStateAndStatus(s.ctx, "Liberia", models.StatusAtSea)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal("Crude Carrier", got[0].Name)
	})

	s.Run("name substring is case-sensitive and unanchored", func() {
		got, err := s.store.FindByNameContaining(s.ctx, "Carrier")
		s.Require().NoError(err)
		s.Len(got, 1)

		got, err = s.store.FindByNameContaining(s.ctx, "carrier")
		s.Require().NoError(err)
		s.Empty(got)

		got, err = s.store.FindByNameContaining(s.ctx, "Run")
		s.Require().NoError(err)
		s.Len(got, 1)
	})

	s.Run("year range bounds are inclusive", func() {
		got, err := s.store.FindByYearBuiltBetween(s.ctx, 1995, 2005)
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("vessels without year excluded from range", func() {
		noYear := s.newVessel("Undated", "IMO1000004")
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, noYear))

		got, err := s.store.FindByYearBuiltBetween(s.ctx, 1900, 2030)
		s.Require().NoError(err)
		s.Len(got, 3)
	})

	s.Run("tonnage threshold is strict", func() {
		got, err := s.store.FindByGrossTonnageGreaterThan(s.ctx, 90000)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal("Crude Carrier", got[0].Name)
	})

	s.Run("count by type", func() {
		n, err := s.store.CountByType(s.ctx, models.TypeTanker)
		s.Require().NoError(err)
		s.Equal(int64(2), n)

		n, err = s.store.CountByType(s.ctx, models.TypeYacht)
		s.Require().NoError(err)
		s.Equal(int64(0), n)
	})
}

// TestPagination verifies sorted page listings.
func (s *VesselStoreSuite) TestPagination() {
	names := []string{"Delta", "Alpha", "Echo", "Bravo", "Charlie"}
	for i, name := range names {
		v := s.newVessel(name, fmt.Sprintf("IMO200000%d", i))
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))
	}

	s.Run("sorts by name ascending", func() {
		page, err := s.store.ListPage(s.ctx, models.ListParams{
			Page: 0, Size: 3, SortBy: "name", SortDir: models.SortAsc,
		})
		s.Require().NoError(err)
		s.Equal(int64(5), page.TotalCount)
		s.Require().Len(page.Vessels, 3)
		s.Equal("Alpha", page.Vessels[0].Name)
		s.Equal("Bravo", page.Vessels[1].Name)
		s.Equal("Charlie", page.Vessels[2].Name)
	})

	s.Run("second page continues the ordering", func() {
		page, err := s.store.ListPage(s.ctx, models.ListParams{
			Page: 1, Size: 3, SortBy: "name", SortDir: models.SortAsc,
		})
		s.Require().NoError(err)
		s.Require().Len(page.Vessels, 2)
		s.Equal("Delta", page.Vessels[0].Name)
		s.Equal("Echo", page.Vessels[1].Name)
	})

	s.Run("descending reverses the order", func() {
		page, err := s.store.ListPage(s.ctx, models.ListParams{
			Page: 0, Size: 5, SortBy: "name", SortDir: models.SortDesc,
		})
		s.Require().NoError(err)
		s.Require().Len(page.Vessels, 5)
		s.Equal("Echo", page.Vessels[0].Name)
		s.Equal("Alpha", page.Vessels[4].Name)
	})

	s.Run("page past the end is empty", func() {
		page, err := s.store.ListPage(s.ctx, models.ListParams{
			Page: 9, Size: 3, SortBy: "name", SortDir: models.SortAsc,
		})
		s.Require().NoError(err)
		s.Empty(page.Vessels)
		s.Equal(int64(5), page.TotalCount)
	})
}

// TestPaginationTiebreak verifies that records with equal sort keys page in a
// stable id order, with no duplicates or gaps across pages.
func (s *VesselStoreSuite) TestPaginationTiebreak() {
	for i := 0; i < 6; i++ {
		v := s.newVessel("Sister Ship", fmt.Sprintf("IMO400000%d", i))
		s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))
	}

	collect := func(dir models.SortDir) []uuid.UUID {
		var ids []uuid.UUID
		for p := 0; p < 3; p++ {
			page, err := s.store.ListPage(s.ctx, models.ListParams{
				Page: p, Size: 2, SortBy: "name", SortDir: dir,
			})
			s.Require().NoError(err)
			s.Require().Len(page.Vessels, 2)
			for _, v := range page.Vessels {
				ids = append(ids, v.ID)
			}
		}
		return ids
	}

	first := collect(models.SortAsc)

	seen := make(map[uuid.UUID]bool, len(first))
	for _, id := range first {
		s.False(seen[id], "vessel %s appeared on more than one page", id)
		seen[id] = true
	}
	s.Len(seen, 6)

	for i := 1; i < len(first); i++ {
		s.True(first[i-1].String() < first[i].String(), "ties must order by id ascending")
	}

	s.Equal(first, collect(models.SortAsc), "paging order must be stable across calls")
	s.Equal(first, collect(models.SortDesc), "tied keys keep id ascending in either direction")
}

// TestIsolation verifies callers cannot mutate stored state through returned values.
func (s *VesselStoreSuite) TestIsolation() {
	v := s.newVessel("Immutable", "IMO3000001")
	s.Require().NoError(s.store.CreateIfIMOAvailable(s.ctx, v))

	found, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	found.Name = "Mutated"

	again, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("Immutable", again.Name)
}
