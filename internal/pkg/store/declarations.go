package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/declaradash/declaradash/internal/domain"
)

// effectiveMonthlyIncome substitutes annual remuneration / 12 when the
// monthly figure was not separately reported.
const effectiveMonthlyIncome = `CASE
	WHEN monthly_net_income > 0 THEN monthly_net_income
	ELSE annual_remuneration / 12
END`

func (s *store) ListInstitutions(ctx context.Context, regionName string) ([]*domain.InstitutionSummary, error) {
	query := builder().
		Select("institution", "COUNT(*) AS total_declarations").
		From(viewDeclarations).
		Where(sq.Eq{"region": strings.ToUpper(regionName)}).
		GroupBy("institution").
		OrderBy("total_declarations DESC")

	rows, err := s.db.queryx(ctx, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var selected []*domain.InstitutionSummary
	for rows.Next() {
		var summary domain.InstitutionSummary
		if err := rows.Scan(&summary.Institution, &summary.TotalDeclarations); err != nil {
			return nil, fmt.Errorf("scan institution summary: %w", err)
		}
		selected = append(selected, &summary)
	}

	return selected, rows.Err()
}

func (s *store) CountDeclarations(ctx context.Context, institution string) (int64, error) {
	query := builder().
		Select("COUNT(*)").
		From(viewDeclarations).
		Where(sq.Eq{"institution": institution}).
		Where(sq.Gt{"annual_remuneration": 0})

	row, err := s.db.queryRowx(ctx, query)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, wrapErr(err)
	}

	return total, nil
}

func (s *store) ListDeclarationsPage(ctx context.Context, institution string, page int) ([]*domain.Declaration, error) {
	if page < 0 {
		page = 0
	}

	query := builder().
		Select(
			"given_name",
			"first_surname",
			"second_surname",
			"institution",
			"position",
			effectiveMonthlyIncome+" AS monthly_net_income",
			"annual_remuneration",
		).
		From(viewDeclarations).
		Where(sq.Eq{"institution": institution}).
		Where(sq.Gt{"annual_remuneration": 0}).
		OrderBy("monthly_net_income DESC").
		Limit(uint64(domain.PageSize)).
		Offset(uint64(page * domain.PageSize))

	rows, err := s.db.queryx(ctx, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var selected []*domain.Declaration
	for rows.Next() {
		var d domain.Declaration
		err := rows.Scan(
			&d.GivenName,
			&d.FirstSurname,
			&d.SecondSurname,
			&d.Institution,
			&d.Position,
			&d.MonthlyNetIncome,
			&d.AnnualRemuneration,
		)
		if err != nil {
			return nil, fmt.Errorf("scan declaration: %w", err)
		}
		selected = append(selected, &d)
	}

	return selected, rows.Err()
}
