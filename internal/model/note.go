package model

import (
	"encoding/json"
	"fmt"
	"time"
	_ "time/tzdata" // the API's timestamps are pinned to Europe/Warsaw
)

// TimeLayout is the wire format for every timestamp the API emits.
// The clock is 12-hour without an AM/PM marker; that matches the
// published contract, so parsing an emitted value is lossy on purpose.
const TimeLayout = "02-01-2006 03:04:05"

var warsaw = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		panic(err)
	}
	return loc
}()

// FormatTime renders t in the API's wire format and timezone.
func FormatTime(t time.Time) string {
	return t.In(warsaw).Format(TimeLayout)
}

// Timestamp is a time.Time that marshals using TimeLayout in Europe/Warsaw.
// The zero value marshals as null.
type Timestamp struct {
	time.Time
}

// At wraps t as a Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{t.In(warsaw)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(FormatTime(t.Time))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string in %q format", TimeLayout)
	}
	if s == nil {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimeLayout, *s, warsaw)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q", *s)
	}
	t.Time = parsed
	return nil
}

// Note is the persisted entity: a titled text note with an optional
// priority level and a server-assigned creation time.
type Note struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       *Level    `json:"level"`
	CreatedAt   Timestamp `json:"createdAt"`
}
