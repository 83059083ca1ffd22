package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Param is one distinct parameter value.
type Param struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"param"`
}

// IsIndexed reports whether mod has been written, and how many rows it has.
func (s *Store) IsIndexed(ctx context.Context, mod string) (bool, int, error) {
	var rows int
	err := s.db.QueryRowContext(ctx, `SELECT rows FROM indexed_mods WHERE mod = ?`, mod).Scan(&rows)
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("query indexed mod: %w", err)
	}
	return true, rows, nil
}

// Values returns the distinct parameters of one type in mod, ordered by id.
func (s *Store) Values(ctx context.Context, mod, typ string) ([]Param, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, param_id, MIN(param)
		FROM params
		WHERE mod = ? AND type = ?
		GROUP BY type, param_id
		ORDER BY param_id COLLATE BINARY ASC
	`, mod, typ)
	if err != nil {
		return nil, fmt.Errorf("query values: %w", err)
	}
	return scanParams(rows)
}

// Lookup returns the parameters with id among types, in the order of types.
func (s *Store) Lookup(ctx context.Context, mod string, types []string, id string) ([]Param, error) {
	var out []Param
	for _, typ := range types {
		var p Param
		err := s.db.QueryRowContext(ctx, `
			SELECT type, param_id, param
			FROM params
			WHERE mod = ? AND type = ? AND param_id = ?
			ORDER BY pokemon COLLATE BINARY ASC
			LIMIT 1
		`, mod, typ, id).Scan(&p.Type, &p.ID, &p.Name)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup %s %s: %w", typ, id, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Intersect returns the Pokémon matching every param, ordered by id.
func (s *Store) Intersect(ctx context.Context, mod string, params []Param) ([]string, error) {
	query, args, err := compileIntersect(mod, params)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query intersect: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pokemon: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pokemon: %w", err)
	}
	return out, nil
}

func scanParams(rows *sql.Rows) ([]Param, error) {
	defer rows.Close()
	out := []Param{}
	for rows.Next() {
		var p Param
		if err := rows.Scan(&p.Type, &p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan param: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate params: %w", err)
	}
	return out, nil
}
