package styles

import (
	"context"
	"database/sql"
)

type Repository interface {
	List(ctx context.Context) ([]*Style, error)
	Get(ctx context.Context, id string) (*Style, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*Style, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, font, color, secondary_color, shadow, text_case, animation
		FROM caption_styles ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Style
	for rows.Next() {
		var s Style
		if err := rows.Scan(&s.ID, &s.Name, &s.Font, &s.Color, &s.SecondaryColor, &s.Shadow, &s.Case, &s.Animation); err != nil {
			return nil, err
		}
		if err := validate(&s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Style, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, font, color, secondary_color, shadow, text_case, animation
		FROM caption_styles WHERE id = ?
	`, id)

	var s Style
	err := row.Scan(&s.ID, &s.Name, &s.Font, &s.Color, &s.SecondaryColor, &s.Shadow, &s.Case, &s.Animation)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
