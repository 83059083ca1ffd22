package store

import (
	"context"
	"fmt"
)

// Row records that Pokemon matches the parameter (Type, ParamID).
type Row struct {
	Type    string
	ParamID string
	Param   string
	Pokemon string
}

// ReplaceMod replaces every row of mod in one transaction.
func (s *Store) ReplaceMod(ctx context.Context, mod string, rows []Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM params WHERE mod = ?`, mod); err != nil {
		return fmt.Errorf("clear mod %s: %w", mod, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO params (mod, type, param_id, param, pokemon)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, mod, r.Type, r.ParamID, r.Param, r.Pokemon); err != nil {
			return fmt.Errorf("insert %s/%s/%s: %w", r.Type, r.ParamID, r.Pokemon, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO indexed_mods (mod, rows) VALUES (?, ?)
		ON CONFLICT(mod) DO UPDATE SET rows = excluded.rows
	`, mod, len(rows)); err != nil {
		return fmt.Errorf("record mod %s: %w", mod, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DropAll removes every row of every mod.
func (s *Store) DropAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM params; DELETE FROM indexed_mods;`); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}
