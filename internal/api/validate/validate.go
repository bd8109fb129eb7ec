package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

// maxBody bounds request bodies; posts are the largest payload.
const maxBody = 64 << 10

// idRx accepts sample ids ("p1", "post2") and provider place ids.
var idRx = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,128}$`)

// ID checks a path identifier.
func ID(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !idRx.MatchString(v) {
		return fmt.Errorf("%s contains invalid characters", field)
	}
	return nil
}

// Coordinates checks latitude and longitude ranges.
func Coordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("lat must be within [-90, 90]")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("lng must be within [-180, 180]")
	}
	return nil
}

// DecodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
// An empty body leaves dst untouched.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON: %v", err)
	}
	if dec.More() {
		return fmt.Errorf("invalid JSON: trailing data")
	}
	return nil
}
