package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"thermostat/internal/models"
	"thermostat/internal/service"
)

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestProfilesHandler_GetProfiles(t *testing.T) {
	prof := &mockProfiles{set: models.DefaultProfileSet()}
	r := newTestRouter(&service.Service{Profiles: prof})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out map[string][][2]float64
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out["weekdays"]) != 18 || out["weekdays"][0] != [2]float64{0, 17} || out["weekends"][17] != [2]float64{23.5, 17} {
		t.Fatalf("unexpected profiles: %v", out)
	}

	prof.setErr = errors.New("store down")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestProfilesHandler_TargetTemp(t *testing.T) {
	prof := &mockProfiles{temp: 20.5}
	r := newTestRouter(&service.Service{Profiles: prof})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/temperature/target", nil))
	if w.Code != http.StatusOK || w.Body.String() != "20.5" {
		t.Fatalf("target: %d %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type %q", ct)
	}
}

func TestProfilesHandler_Slider(t *testing.T) {
	form := func(profile, hour, temp string) *http.Request {
		v := url.Values{}
		v.Set("profile", profile)
		v.Set("hour", hour)
		v.Set("temp", temp)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/slider", strings.NewReader(v.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	cases := []struct {
		name      string
		req       func() *http.Request
		res       service.SliderResult
		err       error
		want      string
		wantCalls int
	}{
		{"updated", func() *http.Request { return form("weekdays", "6", "21.5") }, service.SliderUpdated, nil, sliderOK, 1},
		{"unchanged", func() *http.Request { return form("Weekends", "23.5", "17") }, service.SliderUnchanged, nil, sliderOK, 1},
		{"not found", func() *http.Request { return form("weekdays", "99", "20") }, service.SliderNotFound, nil, sliderFail, 1},
		{"bad temperature", func() *http.Request { return form("weekdays", "6", "warm") }, 0, nil, sliderFail, 0},
		{"NaN temperature", func() *http.Request { return form("weekdays", "6", "NaN") }, 0, nil, sliderFail, 0},
		{"infinite temperature", func() *http.Request { return form("weekdays", "6", "-Inf") }, 0, nil, sliderFail, 0},
		{"missing field", func() *http.Request { return form("weekdays", "", "20") }, 0, nil, sliderFail, 0},
		{"unknown profile", func() *http.Request { return form("holidays", "6", "20") }, 0, service.ErrUnknownDayType, sliderFail, 1},
		{"json body", func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/slider",
				strings.NewReader(`{"profile":"weekdays","hour":"6","temp":"19"}`))
			req.Header.Set("Content-Type", "application/json")
			return req
		}, service.SliderUpdated, nil, sliderOK, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prof := &mockProfiles{sliderRes: tc.res, sliderErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Profiles: prof})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, withAuth(tc.req()))
			if w.Code != http.StatusOK || w.Body.String() != tc.want {
				t.Fatalf("got %d %q, want %q", w.Code, w.Body.String(), tc.want)
			}
			if len(prof.sliderCalls) != tc.wantCalls {
				t.Fatalf("SetSlider calls=%d, want %d", len(prof.sliderCalls), tc.wantCalls)
			}
		})
	}

	t.Run("forwards exact label and normalized profile", func(t *testing.T) {
		prof := &mockProfiles{sliderRes: service.SliderUpdated}
		r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Profiles: prof})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, withAuth(form(" WEEKENDS ", "23.5", "16.5")))
		if len(prof.sliderCalls) != 1 {
			t.Fatalf("SetSlider not called: %s", w.Body.String())
		}
		got := prof.sliderCalls[0]
		if got.dt != models.Weekends || got.label != "23.5" || got.temp != 16.5 {
			t.Fatalf("unexpected call %+v", got)
		}
	})

	t.Run("requires auth", func(t *testing.T) {
		prof := &mockProfiles{}
		r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Profiles: prof})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, form("weekdays", "6", "20"))
		if w.Code != http.StatusUnauthorized || len(prof.sliderCalls) != 0 {
			t.Fatalf("expected 401 and no call, got %d", w.Code)
		}
	})
}
