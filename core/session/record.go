package session

import (
	"encoding/json"
	"time"
)

// Record is the unit of truth for "is this caller logged in": the backend
// credential together with the moment it was obtained. Both fields travel in
// a single sealed cookie, so no reader can ever observe a credential without
// its issuance timestamp.
type Record struct {
	Credential string
	IssuedAt   time.Time
}

// wireRecord is the JSON shape stored inside the sealed cookie.
// IssuedAt is carried as epoch milliseconds.
type wireRecord struct {
	Credential string `json:"c"`
	IssuedAtMS int64  `json:"t"`
}

func (r Record) encode() (string, error) {
	data, err := json.Marshal(wireRecord{
		Credential: r.Credential,
		IssuedAtMS: r.IssuedAt.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeRecord(value string) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal([]byte(value), &w); err != nil {
		return Record{}, err
	}

	rec := Record{Credential: w.Credential}
	// A missing timestamp yields a zero IssuedAt, which the rotation manager
	// treats as needs-rotation-now.
	if w.IssuedAtMS > 0 {
		rec.IssuedAt = time.UnixMilli(w.IssuedAtMS)
	}
	return rec, nil
}
