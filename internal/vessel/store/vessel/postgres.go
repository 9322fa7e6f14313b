package vessel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vesselregistry/internal/vessel/models"
	"vesselregistry/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

const vesselColumns = `id, name, imo_number, type, flag_state, year_built,
	length_meters, gross_tonnage, status, last_port_of_call, next_port_of_call,
	estimated_arrival, created_at, updated_at`

// sortColumns maps validated sort fields to SQL columns. The service
// normalizes params before they reach the store, but the whitelist is
// re-checked here so no caller can interpolate arbitrary identifiers.
var sortColumns = map[string]string{
	"name":          "name",
	"imo_number":    "imo_number",
	"type":          "type",
	"flag_state":    "flag_state",
	"year_built":    "year_built",
	"gross_tonnage": "gross_tonnage",
	"status":        "status",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
}

// Postgres persists vessels in PostgreSQL. The imo_number column carries a
// unique index, making the database the authoritative enforcement point for
// the IMO uniqueness invariant under concurrent writes.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed vessel store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// CreateIfIMOAvailable inserts v, translating a unique violation on
// imo_number into sentinel.ErrAlreadyUsed.
func (s *Postgres) CreateIfIMOAvailable(ctx context.Context, v *models.Vessel) error {
	query := `
		INSERT INTO vessels (` + vesselColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		v.ID, v.Name, v.IMONumber, string(v.Type), v.FlagState,
		v.YearBuilt, v.LengthMeters, v.GrossTonnage, string(v.Status),
		v.LastPortOfCall, v.NextPortOfCall, v.EstimatedArrival,
		v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert vessel: %w", err)
	}
	return nil
}

// FindByID returns the vessel with the given id or sentinel.ErrNotFound.
func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Vessel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+vesselColumns+` FROM vessels WHERE id = $1`, id)
	return scanVessel(row)
}

// FindByIMONumber returns the vessel with the given IMO number or sentinel.ErrNotFound.
func (s *Postgres) FindByIMONumber(ctx context.Context, imoNumber string) (*models.Vessel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+vesselColumns+` FROM vessels WHERE imo_number = $1`, imoNumber)
	return scanVessel(row)
}

// Update replaces every mutable column of the stored vessel. The unique index
// on imo_number backstops the service's conflict pre-check.
func (s *Postgres) Update(ctx context.Context, v *models.Vessel) error {
	query := `
		UPDATE vessels
		SET name = $2, imo_number = $3, type = $4, flag_state = $5,
			year_built = $6, length_meters = $7, gross_tonnage = $8,
			status = $9, last_port_of_call = $10, next_port_of_call = $11,
			estimated_arrival = $12, updated_at = $13
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		v.ID, v.Name, v.IMONumber, string(v.Type), v.FlagState,
		v.YearBuilt, v.LengthMeters, v.GrossTonnage, string(v.Status),
		v.LastPortOfCall, v.NextPortOfCall, v.EstimatedArrival, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("update vessel: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vessel rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete hard-deletes the vessel. Returns sentinel.ErrNotFound if absent.
func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vessels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vessel: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vessel rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// List returns every live vessel.
func (s *Postgres) List(ctx context.Context) ([]models.Vessel, error) {
	return s.queryVessels(ctx, `SELECT `+vesselColumns+` FROM vessels`)
}

// ListPage returns one sorted page of vessels plus the total live count.
func (s *Postgres) ListPage(ctx context.Context, params models.ListParams) (*models.VesselPage, error) {
	column, ok := sortColumns[params.SortBy]
	if !ok {
		return nil, fmt.Errorf("unsortable field %q", params.SortBy)
	}
	dir := "ASC"
	if params.SortDir == models.SortDesc {
		dir = "DESC"
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vessels`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count vessels: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT `+vesselColumns+` FROM vessels ORDER BY %s %s, id ASC LIMIT $1 OFFSET $2`,
		column, dir,
	)
	vessels, err := s.queryVessels(ctx, query, params.Size, params.Page*params.Size)
	if err != nil {
		return nil, err
	}
	return &models.VesselPage{
		Vessels:    vessels,
		Page:       params.Page,
		Size:       params.Size,
		TotalCount: total,
	}, nil
}

// FindByType returns all vessels of the given type.
func (s *Postgres) FindByType(ctx context.Context, t models.VesselType) ([]models.Vessel, error) {
	return s.queryVessels(ctx,
		`SELECT `+vesselColumns+` FROM vessels WHERE type = $1`, string(t))
}

// FindByStatus returns all vessels with the given status.
func (s *Postgres) FindByStatus(ctx context.Context, status models.VesselStatus) ([]models.Vessel, error) {
	return s.queryVessels(ctx,
		`SELECT `+vesselColumns+` FROM vessels WHERE status = $1`, string(status))
}

// FindByFlagState returns all vessels registered under the given flag state.
func (s *Postgres) FindByFlagState(ctx context.Context, flagState string) ([]models.Vessel, error) {
	return s.queryVessels(ctx,
		`SELECT `+vesselColumns+` FROM vessels WHERE flag_state = $1`, flagState)
}

// FindByFlagStateAndStatus returns vessels matching both filters.
func (s *Postgres) FindByFlagStateAndStatus(ctx context.Context, flagState string, status models.VesselStatus) ([]models.Vessel, error) {
	return s.queryVessels(ctx,
		`SELECT `+vesselColumns+` FROM vessels WHERE flag_state = $1 AND status = $2`,
		flagState, string(status))
}

// FindByNameContaining returns vessels whose name contains the substring
// (case-sensitive). LIKE wildcards in the input are escaped.
func (s *Postgres) FindByNameContaining(ctx context.Context, name string) ([]models.Vessel, error) {
	return s.queryVessels(ctx,
		`SELECT `+vesselColumns+` FROM vessels WHERE name LIKE '%' || $1 || '%' ESCAPE '\'`,
		escapeLike(name))
}

// FindByYearBuiltBetween returns vessels built within [startYear, endYear].
func (s *Postgres) FindByYearBuiltBetween(ctx context.Context, startYear, endYear int) ([]models.Vessel, error) {
	return s.queryVessels(ctx,
		`SELECT `+vesselColumns+` FROM vessels WHERE year_built BETWEEN $1 AND $2`,
		startYear, endYear)
}

// FindByGrossTonnageGreaterThan returns vessels with tonnage strictly above the threshold.
func (s *Postgres) FindByGrossTonnageGreaterThan(ctx context.Context, tonnage float64) ([]models.Vessel, error) {
	return s.queryVessels(ctx,
		`SELECT `+vesselColumns+` FROM vessels WHERE gross_tonnage > $1`, tonnage)
}

// CountByType returns the number of live vessels of the given type.
func (s *Postgres) CountByType(ctx context.Context, t models.VesselType) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vessels WHERE type = $1`, string(t)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count vessels by type: %w", err)
	}
	return n, nil
}

func (s *Postgres) queryVessels(ctx context.Context, query string, args ...any) ([]models.Vessel, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vessels: %w", err)
	}
	defer rows.Close()

	var out []models.Vessel
	for rows.Next() {
		v, err := scanVessel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vessels: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVessel(row rowScanner) (*models.Vessel, error) {
	var (
		v            models.Vessel
		vesselType   string
		vesselStatus string
		yearBuilt    sql.NullInt64
		lengthMeters sql.NullFloat64
		grossTonnage sql.NullFloat64
		eta          sql.NullTime
	)
	err := row.Scan(
		&v.ID, &v.Name, &v.IMONumber, &vesselType, &v.FlagState,
		&yearBuilt, &lengthMeters, &grossTonnage, &vesselStatus,
		&v.LastPortOfCall, &v.NextPortOfCall, &eta,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan vessel: %w", err)
	}
	v.Type = models.VesselType(vesselType)
	v.Status = models.VesselStatus(vesselStatus)
	if yearBuilt.Valid {
		yb := int(yearBuilt.Int64)
		v.YearBuilt = &yb
	}
	if lengthMeters.Valid {
		lm := lengthMeters.Float64
		v.LengthMeters = &lm
	}
	if grossTonnage.Valid {
		gt := grossTonnage.Float64
		v.GrossTonnage = &gt
	}
	if eta.Valid {
		t := eta.Time
		v.EstimatedArrival = &t
	}
	return &v, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
