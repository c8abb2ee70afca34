// Package dateutil converts between the wire date format (YYYY-MM-DD) and
// the partitioned table name derived from it (feed_entries_<yyyymmdd>),
// per spec §4.11 and §6.
package dateutil

import (
	"fmt"
	"time"

	"github.com/masx-ai/flashpoint-pipeline/internal/apperr"
)

// WireFormat is the date layout accepted on the HTTP control plane.
const WireFormat = "2006-01-02"

// TablePrefix is prepended to the compact yyyymmdd suffix to name a
// date partition.
const TablePrefix = "feed_entries_"

// Parse validates a wire-format date string, rejecting anything that isn't
// strictly YYYY-MM-DD (§4.11: "Validation rejects any other format").
func Parse(date string) (time.Time, error) {
	t, err := time.Parse(WireFormat, date)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// Today returns the current UTC date in wire format, used when a date-
// accepting endpoint's body omits the optional `date` field.
func Today() string {
	return time.Now().UTC().Format(WireFormat)
}

// TableName derives the feed_entries_<yyyymmdd> partition name for a
// validated wire-format date.
func TableName(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s", TablePrefix, t.Format("20060102")), nil
}

// MustTableName is TableName without the error return, for call sites that
// have already validated date (e.g. a value round-tripped through Parse).
func MustTableName(date string) string {
	name, err := TableName(date)
	if err != nil {
		panic(err)
	}
	return name
}
