package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Clock is a game-clock reading exactly as the scorer recorded it. Scorer
// sheets mix encodings: a number of minutes, "M:SS", or a numeric string.
// Decoding never fails; anything unrecognised becomes an absent reading.
// Interpretation is left to the stats package.
type Clock struct {
	Number *float64
	Text   string
}

// ClockMinutes returns a numeric reading of m minutes.
func ClockMinutes(m float64) Clock {
	return Clock{Number: &m}
}

// ClockText returns a textual reading such as "7:30".
func ClockText(s string) Clock {
	return Clock{Text: s}
}

// IsZero reports whether no reading was recorded.
func (c Clock) IsZero() bool {
	return c.Number == nil && strings.TrimSpace(c.Text) == ""
}

func (c Clock) MarshalJSON() ([]byte, error) {
	switch {
	case c.Number != nil && !math.IsNaN(*c.Number) && !math.IsInf(*c.Number, 0):
		return json.Marshal(*c.Number)
	case c.Text != "":
		return json.Marshal(c.Text)
	default:
		return []byte("null"), nil
	}
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	*c = Clock{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			c.Text = s
		}
		return nil
	}
	if f, err := strconv.ParseFloat(string(b), 64); err == nil {
		c.Number = &f
	}
	return nil
}

// Scan implements sql.Scanner so minute/clock columns of any SQL type can be
// read directly.
func (c *Clock) Scan(src any) error {
	*c = Clock{}
	switch v := src.(type) {
	case int64:
		f := float64(v)
		c.Number = &f
	case float64:
		c.Number = &v
	case []byte:
		c.Text = string(v)
	case string:
		c.Text = v
	}
	return nil
}

// Count is a box-score counter that decodes leniently: null,
// missing and unparseable values are 0, numeric strings are accepted and
// fractional values are truncated.
type Count int

func (n Count) Int() int { return int(n) }

func (n *Count) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*n = parseCount(s)
		return nil
	}
	*n = parseCount(string(b))
	return nil
}

func (n *Count) Scan(src any) error {
	*n = 0
	switch v := src.(type) {
	case int64:
		*n = Count(v)
	case float64:
		*n = countFromFloat(v)
	case []byte:
		*n = parseCount(string(v))
	case string:
		*n = parseCount(v)
	}
	return nil
}

func parseCount(s string) Count {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return countFromFloat(f)
}

func countFromFloat(f float64) Count {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Count(int(f))
}
