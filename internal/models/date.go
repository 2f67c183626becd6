package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the date-only form sent by HTML date inputs.
const DateLayout = "2006-01-02"

// ParseDate parses an RFC 3339 timestamp or a YYYY-MM-DD date in UTC.
func ParseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", v)
	}
	return t, nil
}

// parseOptionalDate leaves dst untouched for an empty or missing value.
func parseOptionalDate(v string, dst *time.Time) error {
	if v == "" {
		return nil
	}
	t, err := ParseDate(v)
	if err != nil {
		return err
	}
	*dst = t
	return nil
}

// UnmarshalJSON accepts lastMaintenance as a date or a timestamp.
func (in *CarInput) UnmarshalJSON(data []byte) error {
	type carInput CarInput
	aux := struct {
		*carInput
		LastMaintenance string `json:"lastMaintenance"`
	}{carInput: (*carInput)(in)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	return parseOptionalDate(aux.LastMaintenance, &in.LastMaintenance)
}

// UnmarshalJSON accepts startDate and endDate as dates or timestamps.
func (d *RentalDetails) UnmarshalJSON(data []byte) error {
	type rentalDetails RentalDetails
	aux := struct {
		*rentalDetails
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}{rentalDetails: (*rentalDetails)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if err := parseOptionalDate(aux.StartDate, &d.StartDate); err != nil {
		return err
	}
	return parseOptionalDate(aux.EndDate, &d.EndDate)
}
