package repository

import (
	"context"

	"tasker_backend/internal/domain"
)

type MemberRepository struct {
	db Querier
}

func NewMemberRepository(db Querier) *MemberRepository {
	return &MemberRepository{db: db}
}

// List returns the assignable team members.
func (r *MemberRepository) List(ctx context.Context) ([]domain.TeamMember, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, display_name, profile_picture_url FROM team_members ORDER BY display_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.TeamMember{}
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.ProfilePictureURL); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
