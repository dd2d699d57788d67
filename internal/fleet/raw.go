package fleet

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// The upstream feeds are loosely typed: a coordinate or speed may
// arrive as a JSON number in one payload and a quoted string in the
// next. The loose* types absorb that without failing the record.

// looseFloat decodes a JSON number or a numeric string. Anything else
// (null, missing, garbage) leaves ok false; it never errors, because a
// bad value should drop the record, not the whole response.
type looseFloat struct {
	value float64
	ok    bool
}

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(s)
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	f.value = v
	f.ok = true
	return nil
}

// looseString decodes a JSON string, or renders a bare number or bool
// as its source text. Null and missing become the empty string.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	*s = looseString(data)
	return nil
}

func (s looseString) String() string {
	return string(s)
}

// formatEpochSeconds renders an epoch-seconds value (as the tpapps
// feed sends in validPacketTimeStamp) as a display timestamp.
func formatEpochSeconds(raw string) string {
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "N/A"
	}
	return time.Unix(secs, 0).Format("1/2/2006, 3:04:05 PM")
}
