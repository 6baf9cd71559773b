package analyzer

import (
	"encoding/json"
	"math"

	"github.com/blackwell-systems/otscore/internal/association"
)

// Result is the outcome of one association query.
// Pairs and the four score statistics are either all set or all nil.
type Result struct {
	QueryTerm   string
	Kind        association.Kind
	Pairs       association.Table
	ScoreMax    *float64
	ScoreMin    *float64
	ScoreMean   *float64
	ScoreStdDev *float64 // NaN when only one association matched
}

// Empty reports whether the query matched no associations.
func (r *Result) Empty() bool {
	return len(r.Pairs) == 0
}

// Count returns the number of matching associations.
func (r *Result) Count() int {
	return len(r.Pairs)
}

type resultJSON struct {
	QueryTerm   string            `json:"queryTerm"`
	Kind        association.Kind  `json:"kind,omitempty"`
	Pairs       association.Table `json:"target-disease-pairs"`
	ScoreMax    *jsonScore        `json:"score_max"`
	ScoreMin    *jsonScore        `json:"score_min"`
	ScoreMean   *jsonScore        `json:"score_mean"`
	ScoreStdDev *jsonScore        `json:"score_std"`
}

// jsonScore encodes NaN as the string "NaN"; encoding/json rejects NaN floats.
type jsonScore float64

func (s jsonScore) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(s)) {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(float64(s))
}

func toJSONScore(v *float64) *jsonScore {
	if v == nil {
		return nil
	}
	s := jsonScore(*v)
	return &s
}

// MarshalJSON uses the published result key names. Absent
// fields are encoded as null.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		QueryTerm:   r.QueryTerm,
		Kind:        r.Kind,
		ScoreMax:    toJSONScore(r.ScoreMax),
		ScoreMin:    toJSONScore(r.ScoreMin),
		ScoreMean:   toJSONScore(r.ScoreMean),
		ScoreStdDev: toJSONScore(r.ScoreStdDev),
	}
	if len(r.Pairs) > 0 {
		out.Pairs = r.Pairs
	}
	return json.Marshal(out)
}
