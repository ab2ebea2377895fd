package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
)

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// pathID parses the {id} path value; zero means missing or malformed.
func pathID(r *http.Request, name string) uint {
	v, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// formDate parses a YYYY-MM-DD form value; the zero time means unset or
// malformed, which validation catches per field.
func formDate(r *http.Request, name string) time.Time {
	d, err := ledger.ParseDate(r.FormValue(name))
	if err != nil {
		return time.Time{}
	}
	return d.Time()
}

// formInt64 parses an integer form value; malformed input yields zero.
func formInt64(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(strings.ReplaceAll(r.FormValue(name), ",", ""), 10, 64)
	return v
}

// queryToday returns the ledger cutoff date: the "today" query parameter if
// present and valid, else the current local date.
func queryToday(r *http.Request) ledger.Date {
	if s := r.URL.Query().Get("today"); s != "" {
		if d, err := ledger.ParseDate(s); err == nil {
			return d
		}
	}
	return ledger.DateOf(time.Now())
}
