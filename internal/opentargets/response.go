package opentargets

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/blackwell-systems/otscore/internal/association"
)

// Response is the association/filter envelope. Data is kept raw until
// ToTable so that a malformed payload surfaces as a conversion error.
type Response struct {
	Total int             `json:"total"`
	Size  int             `json:"size"`
	From  int             `json:"from"`
	Data  json.RawMessage `json:"data"`
}

// associationRow is the subset of an association object the summary needs.
// Pointers distinguish a missing field from a zero value.
type associationRow struct {
	ID     string `json:"id"`
	Target *struct {
		ID *string `json:"id"`
	} `json:"target"`
	Disease *struct {
		ID *string `json:"id"`
	} `json:"disease"`
	AssociationScore *struct {
		Overall *float64 `json:"overall"`
	} `json:"association_score"`
}

// ToTable converts the response data into an association table.
func (r *Response) ToTable() (association.Table, error) {
	return DecodeRows(r.Data)
}

// DecodeRows converts a JSON array of association objects into a table.
// A missing or null array is an empty table.
func DecodeRows(data json.RawMessage) (association.Table, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return association.Table{}, nil
	}

	var rows []associationRow
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("%w: association data is not an array of association objects: %v",
			association.ErrTypeMismatch, err)
	}

	table := make(association.Table, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		table = append(table, rec)
	}

	return table, nil
}

func (row associationRow) record() (association.Record, error) {
	if row.Target == nil || row.Target.ID == nil {
		return association.Record{}, fmt.Errorf("%w: target.id", association.ErrMissingField)
	}
	if row.Disease == nil || row.Disease.ID == nil {
		return association.Record{}, fmt.Errorf("%w: disease.id", association.ErrMissingField)
	}
	if row.AssociationScore == nil || row.AssociationScore.Overall == nil {
		return association.Record{}, fmt.Errorf("%w: association_score.overall", association.ErrMissingField)
	}

	return association.Record{
		TargetID:     *row.Target.ID,
		DiseaseID:    *row.Disease.ID,
		OverallScore: *row.AssociationScore.Overall,
	}, nil
}
