package repository

import (
	"context"

	"tasker_backend/internal/domain"
)

type UIOptionRepository struct {
	db Querier
}

func NewUIOptionRepository(db Querier) *UIOptionRepository {
	return &UIOptionRepository{db: db}
}

// ListByCategory returns the UI options of one category in display order.
func (r *UIOptionRepository) ListByCategory(ctx context.Context, category string) ([]domain.UIOption, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, category, code, label, sort_order
		 FROM ui_options
		 WHERE category = $1
		 ORDER BY sort_order, code`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.UIOption{}
	for rows.Next() {
		var o domain.UIOption
		if err := rows.Scan(&o.ID, &o.Category, &o.Code, &o.Label, &o.SortOrder); err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}
