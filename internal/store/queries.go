package store

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/otscore/internal/association"
)

// InsertAssociations appends the records in a single transaction and returns
// how many were written.
func (s *Store) InsertAssociations(ctx context.Context, table association.Table) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO associations (target_id, disease_id, overall_score)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, wrapQueryErr(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for i, rec := range table {
		if _, err := stmt.ExecContext(ctx, rec.TargetID, rec.DiseaseID, rec.OverallScore); err != nil {
			return 0, wrapQueryErr(err, fmt.Sprintf("failed to insert association %d (%s, %s)", i, rec.TargetID, rec.DiseaseID))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit associations: %w", err)
	}

	return len(table), nil
}

// CountAssociations returns the number of stored associations.
func (s *Store) CountAssociations(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM associations").Scan(&n); err != nil {
		return 0, wrapQueryErr(err, "failed to count associations")
	}
	return n, nil
}

// Filter returns the associations for one target or disease in insertion order.
func (s *Store) Filter(ctx context.Context, f association.Filter) (association.Tabler, error) {
	table, err := s.FilterAssociations(ctx, f)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// FilterAssociations is Filter with the concrete table type.
func (s *Store) FilterAssociations(ctx context.Context, f association.Filter) (association.Table, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	column := "target_id"
	if f.Kind == association.KindDisease {
		column = "disease_id"
	}

	query := `
		SELECT target_id, disease_id, overall_score
		FROM associations
		WHERE ` + column + ` = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, f.ID)
	if err != nil {
		return nil, wrapQueryErr(err, fmt.Sprintf("failed to query associations for %s", f))
	}
	defer rows.Close()

	table := association.Table{}
	for rows.Next() {
		var rec association.Record
		if err := rows.Scan(&rec.TargetID, &rec.DiseaseID, &rec.OverallScore); err != nil {
			return nil, fmt.Errorf("failed to scan association row: %w", err)
		}
		table = append(table, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating associations: %w", err)
	}

	return table, nil
}

// ResetAssociations removes every stored association.
func (s *Store) ResetAssociations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM associations"); err != nil {
		return wrapQueryErr(err, "failed to reset associations")
	}
	return nil
}
