package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/techeer-11-team-k/aptmatch/internal/match"
)

// Postgres reads the reference catalog from the relational store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open connection.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// PrefetchRegion loads all apartments whose region code starts with the given
// 5-digit city/county code, with their region rows and detail rows when
// present. Ordered by apt_id so downstream iteration is deterministic.
func (p *Postgres) PrefetchRegion(ctx context.Context, sggCode string) ([]match.Candidate, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT
			a.apt_id, a.apt_name, a.region_id, COALESCE(a.apt_seq, ''), COALESCE(a.kapt_code, ''),
			r.region_code, r.region_name, r.city_name,
			d.apt_id, d.jibun_address, d.road_address, d.use_approval_date
		FROM apartment a
		INNER JOIN region r ON r.region_id = a.region_id
		LEFT JOIN apartment_detail d ON d.apt_id = a.apt_id
		WHERE r.region_code LIKE $1 || '%'
		ORDER BY a.apt_id
	`, sggCode)
	if err != nil {
		return nil, fmt.Errorf("prefetch region %s: %w", sggCode, err)
	}
	defer rows.Close()

	var out []match.Candidate
	for rows.Next() {
		var (
			c        match.Candidate
			detailID sql.NullInt64
			jibun    sql.NullString
			road     sql.NullString
			approval sql.NullString
		)
		err := rows.Scan(
			&c.Apartment.AptID, &c.Apartment.AptName, &c.Apartment.RegionID,
			&c.Apartment.AptSeq, &c.Apartment.KaptCode,
			&c.Region.RegionCode, &c.Region.RegionName, &c.Region.CityName,
			&detailID, &jibun, &road, &approval,
		)
		if err != nil {
			return nil, fmt.Errorf("prefetch region %s: scan: %w", sggCode, err)
		}
		c.Region.RegionID = c.Apartment.RegionID
		if detailID.Valid {
			c.Detail = &match.ApartmentDetail{
				AptID:           detailID.Int64,
				JibunAddress:    jibun.String,
				RoadAddress:     road.String,
				UseApprovalDate: approval.String,
			}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prefetch region %s: %w", sggCode, err)
	}
	return out, nil
}
