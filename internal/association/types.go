package association

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTypeMismatch is returned when a value cannot be converted into a Table.
	ErrTypeMismatch = errors.New("type mismatch: expected a value convertible to an association table (association.Tabler)")

	// ErrEmptyResult is returned when statistics are requested over zero records.
	ErrEmptyResult = errors.New("association table is empty: statistics are undefined")

	// ErrMissingField is returned when a record lacks target.id, disease.id
	// or association_score.overall.
	ErrMissingField = errors.New("association record is missing a required field")

	// ErrInvalidFilter is returned for an unknown query kind or a blank identifier.
	ErrInvalidFilter = errors.New("invalid association filter")
)

// Record is a single target-disease association.
type Record struct {
	TargetID     string  `json:"target.id"`
	DiseaseID    string  `json:"disease.id"`
	OverallScore float64 `json:"association_score.overall"`
}

// Table is an ordered set of associations, in the order the source returned them.
type Table []Record

// Tabler is implemented by anything that can materialize an association Table.
// Collaborator responses implement it so they can be summarized.
type Tabler interface {
	ToTable() (Table, error)
}

// ToTable returns a copy of the table.
func (t Table) ToTable() (Table, error) {
	return t.clone(), nil
}

// Scores returns the overall scores in table order.
func (t Table) Scores() []float64 {
	scores := make([]float64, len(t))
	for i, r := range t {
		scores[i] = r.OverallScore
	}
	return scores
}

func (t Table) clone() Table {
	if t == nil {
		return Table{}
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Kind selects which side of the association a query filters on.
type Kind string

const (
	KindTarget  Kind = "target"
	KindDisease Kind = "disease"
)

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindTarget:
		return KindTarget, nil
	case KindDisease:
		return KindDisease, nil
	default:
		return "", fmt.Errorf("%w: unknown query kind %q (want %q or %q)", ErrInvalidFilter, s, KindTarget, KindDisease)
	}
}

// Filter is a single-key association query, {target: ID} or {disease: ID}.
type Filter struct {
	Kind Kind
	ID   string
}

// Validate reports whether the filter can be sent to a collaborator.
func (f Filter) Validate() error {
	if _, err := ParseKind(string(f.Kind)); err != nil {
		return err
	}
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: %s identifier is empty", ErrInvalidFilter, f.Kind)
	}
	return nil
}

func (f Filter) String() string {
	return fmt.Sprintf("%s=%s", f.Kind, f.ID)
}
