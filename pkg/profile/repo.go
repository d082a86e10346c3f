package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SQLRepo reads the profiles table. Queries are written with "?"
// placeholders and rebound for drivers that number them.
type SQLRepo struct {
	DB       *sql.DB
	numbered bool
}

func NewSQLRepo(db *sql.DB, driver string) *SQLRepo {
	return &SQLRepo{DB: db, numbered: driver == "pgx" || driver == "postgres"}
}

func (r *SQLRepo) FindByID(ctx context.Context, id string) (*Profile, error) {
	var (
		p    Profile
		role sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		r.bind("SELECT id, role FROM profiles WHERE id = ?"),
		id,
	).Scan(&p.ID, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.Role = role.String
	return &p, nil
}

func (r *SQLRepo) List(ctx context.Context) ([]*Profile, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, role FROM profiles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*Profile, 0)
	for rows.Next() {
		var (
			p    Profile
			role sql.NullString
		)
		if err := rows.Scan(&p.ID, &role); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p.Role = role.String
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

func (r *SQLRepo) UpdateRole(ctx context.Context, id, role string) error {
	res, err := r.DB.ExecContext(ctx,
		r.bind("UPDATE profiles SET role = ? WHERE id = ?"),
		role, id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// drivers that count changed rows report 0 when the role is unchanged
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepo) Create(ctx context.Context, p *Profile) error {
	_, err := r.DB.ExecContext(ctx,
		r.bind("INSERT INTO profiles (id, role) VALUES (?, ?)"),
		p.ID, p.Role,
	)
	return err
}

func (r *SQLRepo) bind(query string) string {
	if !r.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
