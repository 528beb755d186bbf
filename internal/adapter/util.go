package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/remotepulse/remotepulse/internal/fetch"
)

// Source names, used in logs and as the `sources` subcommand keys.
const (
	SourceRemotive = "remotive"
	SourceRemoteOK = "remoteok"
	SourceFindwork = "findwork"
)

// Getter is the slice of the network client an adapter needs.
type Getter interface {
	Get(ctx context.Context, r fetch.Request) ([]byte, error)
}

// flexString decodes any JSON scalar into its text form. Boards are loose
// with types (salary_min is a number on one day and a string on the next);
// null, objects and arrays decode to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case 'n', '{', '[':
		*f = ""
	default:
		// numbers and booleans keep their literal text
		*f = flexString(data)
	}
	return nil
}

// truthy reports whether v counts as a present value: non-empty and, when
// numeric, non-zero.
func truthy(v flexString) bool {
	if v == "" || v == "false" {
		return false
	}
	if n, err := strconv.ParseFloat(string(v), 64); err == nil {
		return n != 0
	}
	return true
}
