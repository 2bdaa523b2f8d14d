package handlers

import (
	"context"
	"net/http"
	"time"

	"thermostat/internal/models"
	"thermostat/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type sliderCall struct {
	dt    models.DayType
	label string
	temp  float64
}

type mockProfiles struct {
	set       models.ProfileSet
	setErr    error
	temp      float64
	dt        models.DayType
	tempErr   error
	sliderRes service.SliderResult
	sliderErr error

	sliderCalls []sliderCall
}

func (m *mockProfiles) Load(context.Context) error { return nil }
func (m *mockProfiles) Save(context.Context) error { return nil }
func (m *mockProfiles) Serialize(context.Context) (models.ProfileSet, error) {
	return m.set, m.setErr
}
func (m *mockProfiles) SetSlider(_ context.Context, dt models.DayType, label string, temp float64) (service.SliderResult, error) {
	m.sliderCalls = append(m.sliderCalls, sliderCall{dt: dt, label: label, temp: temp})
	return m.sliderRes, m.sliderErr
}
func (m *mockProfiles) Current(context.Context) (float64, models.DayType, error) {
	return m.temp, m.dt, m.tempErr
}
func (m *mockProfiles) TempNow(context.Context) (float64, error) {
	return m.temp, m.tempErr
}

type mockMonitoring struct {
	snap       models.TargetSnapshot
	err        error
	actual     models.Value
	found      bool
	reportErr  error
	lastReport string
}

func (m *mockMonitoring) Snapshot(context.Context) (models.TargetSnapshot, error) {
	return m.snap, m.err
}
func (m *mockMonitoring) ActualTemp(context.Context) (models.Value, bool, error) {
	return m.actual, m.found, m.err
}
func (m *mockMonitoring) ReportActual(_ context.Context, reading string) error {
	m.lastReport = reading
	return m.reportErr
}

type mockSettings struct {
	values    map[string]models.Value
	records   []models.SettingRecord
	err       error
	setErr    error
	refreshes int

	lastSetKey   string
	lastSetValue models.Value
	deleted      []string
}

func (m *mockSettings) Get(_ context.Context, key string) (models.Value, bool, error) {
	v, ok := m.values[key]
	return v, ok, m.err
}
func (m *mockSettings) Set(_ context.Context, key string, v models.Value) error {
	m.lastSetKey, m.lastSetValue = key, v
	return m.setErr
}
func (m *mockSettings) Delete(_ context.Context, key string) (bool, error) {
	if _, ok := m.values[key]; !ok {
		return false, m.err
	}
	m.deleted = append(m.deleted, key)
	return true, m.err
}
func (m *mockSettings) Records(context.Context) ([]models.SettingRecord, error) {
	return m.records, m.err
}
func (m *mockSettings) Refresh(context.Context) error { return m.err }
func (m *mockSettings) ForceRefresh(context.Context) error {
	m.refreshes++
	return m.err
}
func (m *mockSettings) SetMaxAge(time.Duration) {}

type mockEventLog struct {
	resp     []models.Event
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.Event, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request) *http.Request {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
