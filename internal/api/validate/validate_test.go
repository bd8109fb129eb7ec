package validate

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestID(t *testing.T) {
	good := []string{"p1", "post2", "ChIJN1t_tDeuEmsRUsoyG83frY4"}
	for _, v := range good {
		if err := ID("id", v); err != nil {
			t.Fatalf("expected %q valid: %v", v, err)
		}
	}
	bad := []string{"", "a b", "../etc", strings.Repeat("x", 129)}
	for _, v := range bad {
		if err := ID("id", v); err == nil {
			t.Fatalf("expected %q invalid", v)
		}
	}
}

func TestCoordinates(t *testing.T) {
	if err := Coordinates(-23.55, -46.63); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Coordinates(91, 0); err == nil {
		t.Fatalf("expected lat error")
	}
	if err := Coordinates(0, -181); err == nil {
		t.Fatalf("expected lng error")
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Leo"}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, &dst); err != nil || dst.Name != "Leo" {
		t.Fatalf("decode failed: %v %+v", err, dst)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Leo","admin":true}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, &dst); err == nil {
		t.Fatalf("expected unknown field error")
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(``))
	if err := DecodeJSON(httptest.NewRecorder(), req, &dst); err != nil {
		t.Fatalf("empty body should be accepted: %v", err)
	}
}
