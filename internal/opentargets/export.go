package opentargets

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/blackwell-systems/otscore/internal/association"
)

// ReadExport decodes an association export. It accepts an API response
// envelope ({"data": [...]}), a JSON array of association objects, or a stream
// of association objects (JSON lines).
func ReadExport(r io.Reader) (association.Table, error) {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if err == io.EOF {
		return association.Table{}, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)

	switch first {
	case '[':
		var data json.RawMessage
		if err := dec.Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to decode association array: %w", err)
		}
		return DecodeRows(data)

	case '{':
		var rows []json.RawMessage
		for {
			var obj json.RawMessage
			err := dec.Decode(&obj)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("failed to decode association %d: %w", len(rows), err)
			}

			if len(rows) == 0 {
				if env, ok := envelope(obj); ok {
					return env.ToTable()
				}
			}
			rows = append(rows, obj)
		}

		data, err := json.Marshal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to collect associations: %w", err)
		}
		return DecodeRows(data)

	default:
		return nil, fmt.Errorf("%w: export must start with '{' or '[', found %q", association.ErrTypeMismatch, first)
	}
}

// envelope reports whether obj is an API response carrying a data array.
func envelope(obj json.RawMessage) (*Response, bool) {
	var resp Response
	if err := json.Unmarshal(obj, &resp); err != nil || resp.Data == nil {
		return nil, false
	}
	return &resp, true
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}
