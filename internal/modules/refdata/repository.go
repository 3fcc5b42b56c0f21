package refdata

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// SectorRow is one row of the sector_summaries table, as produced by the
// upstream ETL pipeline. Raw and unvalidated - the loader turns rows into
// domain.SectorSummary values.
type SectorRow struct {
	HS2             string
	SectorName      string
	TotalExports    float64
	TopPartner      string
	TopPartnerShare float64
}

// SectorRepository reads the aggregated trade dataset from the trade database.
type SectorRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSectorRepository creates a new sector repository
func NewSectorRepository(db *sql.DB, log zerolog.Logger) *SectorRepository {
	return &SectorRepository{
		db:  db,
		log: log.With().Str("repo", "sector").Logger(),
	}
}

// sectorColumns avoids SELECT * so schema additions don't break scanning.
const sectorColumns = `hs2, sector_name, total_exports, top_partner, top_partner_share`

// InitSchema creates the trade tables if they do not exist. The ETL pipeline
// normally creates and fills these; this keeps fresh installations and tests
// working against an empty database.
func (r *SectorRepository) InitSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS sector_summaries (
			hs2 TEXT PRIMARY KEY,
			sector_name TEXT NOT NULL DEFAULT '',
			total_exports REAL NOT NULL DEFAULT 0,
			top_partner TEXT NOT NULL,
			top_partner_share REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sector_partner_shares (
			hs2 TEXT NOT NULL,
			partner TEXT NOT NULL,
			share REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (hs2, partner),
			FOREIGN KEY (hs2) REFERENCES sector_summaries(hs2)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize trade schema: %w", err)
	}
	return nil
}

// GetAllSectors returns every sector summary row, ordered by HS2 code.
func (r *SectorRepository) GetAllSectors() ([]SectorRow, error) {
	rows, err := r.db.Query("SELECT " + sectorColumns + " FROM sector_summaries ORDER BY hs2")
	if err != nil {
		return nil, fmt.Errorf("failed to query sector summaries: %w", err)
	}
	defer rows.Close()

	var sectors []SectorRow
	for rows.Next() {
		var s SectorRow
		if err := rows.Scan(&s.HS2, &s.SectorName, &s.TotalExports, &s.TopPartner, &s.TopPartnerShare); err != nil {
			return nil, fmt.Errorf("failed to scan sector summary: %w", err)
		}
		sectors = append(sectors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sector summaries: %w", err)
	}

	return sectors, nil
}

// GetPartnerShares returns the partner-share distribution for every sector,
// keyed by HS2 code then partner name.
func (r *SectorRepository) GetPartnerShares() (map[string]map[string]float64, error) {
	rows, err := r.db.Query("SELECT hs2, partner, share FROM sector_partner_shares")
	if err != nil {
		return nil, fmt.Errorf("failed to query partner shares: %w", err)
	}
	defer rows.Close()

	shares := make(map[string]map[string]float64)
	for rows.Next() {
		var hs2, partner string
		var share float64
		if err := rows.Scan(&hs2, &partner, &share); err != nil {
			return nil, fmt.Errorf("failed to scan partner share: %w", err)
		}
		if _, ok := shares[hs2]; !ok {
			shares[hs2] = make(map[string]float64)
		}
		shares[hs2][partner] = share
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate partner shares: %w", err)
	}

	return shares, nil
}

// UpsertSector writes one sector summary and its partner shares. Used by the
// dataset import path; the engine itself never writes.
func (r *SectorRepository) UpsertSector(row SectorRow, shares map[string]float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sector_summaries (hs2, sector_name, total_exports, top_partner, top_partner_share)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(hs2) DO UPDATE SET
			sector_name = excluded.sector_name,
			total_exports = excluded.total_exports,
			top_partner = excluded.top_partner,
			top_partner_share = excluded.top_partner_share
	`, row.HS2, row.SectorName, row.TotalExports, row.TopPartner, row.TopPartnerShare)
	if err != nil {
		return fmt.Errorf("failed to upsert sector %s: %w", row.HS2, err)
	}

	for partner, share := range shares {
		_, err = tx.Exec(`
			INSERT INTO sector_partner_shares (hs2, partner, share)
			VALUES (?, ?, ?)
			ON CONFLICT(hs2, partner) DO UPDATE SET share = excluded.share
		`, row.HS2, partner, share)
		if err != nil {
			return fmt.Errorf("failed to upsert partner share %s/%s: %w", row.HS2, partner, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sector upsert: %w", err)
	}
	return nil
}
