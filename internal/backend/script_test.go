package backend

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/adapters/mock"
	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
)

var testParams = domain.Params{MinDistanceM: 0.2, MaxDistanceM: 40}

func newTestScript(t *testing.T, opts ...ScriptOption) (*ScriptBackend, *mock.FakeClock) {
	t.Helper()
	clk := mock.NewFakeClock(10_000)
	return NewScriptBackend(testParams, clk, opts...), clk
}

func TestScriptBackend_InitialState(t *testing.T) {
	s, _ := newTestScript(t)

	state := s.State()
	assert.Equal(t, domain.StatusNoData, state.Status)
	assert.Zero(t, state.DistanceM)

	pct, ok := s.SignalQuality()
	assert.False(t, ok)
	assert.Equal(t, int8(-1), pct)
	assert.Equal(t, domain.SensorTypeUnknown, s.SensorType())
}

func TestScriptBackend_StaleBeforeFirstReading(t *testing.T) {
	// clock close to zero must not make the empty buffer look fresh
	clk := mock.NewFakeClock(0)
	s := NewScriptBackend(testParams, clk)

	s.Update()

	state := s.State()
	assert.Equal(t, domain.StatusNoData, state.Status)
	assert.Zero(t, state.DistanceM)
}

func TestScriptBackend_ScenarioA(t *testing.T) {
	s, clk := newTestScript(t)

	require.True(t, s.SubmitReadingWithQuality(12.5, 80))
	clk.Advance(100 * time.Millisecond)
	s.Update()

	state := s.State()
	assert.Equal(t, 12.5, state.DistanceM)
	assert.Equal(t, domain.Classify(12.5, testParams.MinDistanceM, testParams.MaxDistanceM), state.Status)
	assert.Equal(t, domain.StatusGood, state.Status)

	pct, ok := s.SignalQuality()
	assert.True(t, ok)
	assert.Equal(t, int8(80), pct)
}

func TestScriptBackend_ScenarioB(t *testing.T) {
	s, clk := newTestScript(t)

	require.True(t, s.SubmitReading(5.0))
	clk.Advance(600 * time.Millisecond)
	s.Update()

	state := s.State()
	assert.Zero(t, state.DistanceM)
	assert.Equal(t, domain.StatusNoData, state.Status)

	pct, ok := s.SignalQuality()
	assert.False(t, ok)
	assert.Equal(t, int8(-1), pct)
}

func TestScriptBackend_ScenarioC(t *testing.T) {
	s, _ := newTestScript(t)

	require.True(t, s.SubmitReadingWithQuality(3.0, 150))

	pct, ok := s.SignalQuality()
	assert.False(t, ok)
	assert.Equal(t, int8(-1), pct)
}

func TestScriptBackend_TimeoutBoundary(t *testing.T) {
	tests := []struct {
		name       string
		age        time.Duration
		wantStatus domain.Status
		wantDist   float64
	}{
		{name: "just pushed", age: 0, wantStatus: domain.StatusGood, wantDist: 7.25},
		{name: "at timeout", age: DefaultTimeout, wantStatus: domain.StatusGood, wantDist: 7.25},
		{name: "one ms past timeout", age: DefaultTimeout + time.Millisecond, wantStatus: domain.StatusNoData, wantDist: 0},
		{name: "long gone", age: time.Minute, wantStatus: domain.StatusNoData, wantDist: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clk := newTestScript(t)

			s.SubmitReading(7.25)
			clk.Advance(tt.age)
			s.Update()

			state := s.State()
			assert.Equal(t, tt.wantStatus, state.Status)
			assert.Equal(t, tt.wantDist, state.DistanceM)
		})
	}
}

func TestScriptBackend_PassthroughWithoutClamping(t *testing.T) {
	tests := []struct {
		distance   float64
		wantStatus domain.Status
	}{
		{distance: 0.123456789, wantStatus: domain.StatusOutOfRangeLow},
		{distance: -4, wantStatus: domain.StatusOutOfRangeLow},
		{distance: 39.999999, wantStatus: domain.StatusGood},
		{distance: 1000, wantStatus: domain.StatusOutOfRangeHigh},
	}

	for _, tt := range tests {
		s, clk := newTestScript(t)

		s.SubmitReading(tt.distance)
		clk.Advance(10 * time.Millisecond)
		s.Update()

		state := s.State()
		assert.Equal(t, tt.distance, state.DistanceM)
		assert.Equal(t, tt.wantStatus, state.Status, "distance %v", tt.distance)
	}
}

func TestScriptBackend_QualityClamp(t *testing.T) {
	tests := []struct {
		quality float64
		wantPct int8
		wantOK  bool
	}{
		{quality: 0, wantPct: 0, wantOK: true},
		{quality: 100, wantPct: 100, wantOK: true},
		{quality: 55.5, wantPct: 55, wantOK: true},
		{quality: -1, wantPct: -1, wantOK: false},
		{quality: 100.5, wantPct: -1, wantOK: false},
		{quality: math.NaN(), wantPct: -1, wantOK: false},
	}

	for _, tt := range tests {
		s, _ := newTestScript(t)

		assert.True(t, s.SubmitReadingWithQuality(2, tt.quality))

		pct, ok := s.SignalQuality()
		assert.Equal(t, tt.wantOK, ok, "quality %v", tt.quality)
		assert.Equal(t, tt.wantPct, pct, "quality %v", tt.quality)
	}
}

func TestScriptBackend_DistanceOnlyClearsQuality(t *testing.T) {
	s, _ := newTestScript(t)

	s.SubmitReadingWithQuality(2, 90)
	s.SubmitReading(2)

	_, ok := s.SignalQuality()
	assert.False(t, ok)
}

func TestScriptBackend_UpdateIsIdempotent(t *testing.T) {
	s, clk := newTestScript(t)

	s.SubmitReadingWithQuality(12.5, 80)
	clk.Advance(50 * time.Millisecond)

	s.Update()
	first := s.State()
	firstPct, firstOK := s.SignalQuality()

	s.Update()
	second := s.State()
	secondPct, secondOK := s.SignalQuality()

	assert.Equal(t, first, second)
	assert.Equal(t, firstPct, secondPct)
	assert.Equal(t, firstOK, secondOK)
}

func TestScriptBackend_StaleIsReassertedEveryUpdate(t *testing.T) {
	s, clk := newTestScript(t)

	s.SubmitReadingWithQuality(12.5, 80)
	clk.Advance(time.Second)

	for i := 0; i < 3; i++ {
		s.Update()
		state := s.State()
		assert.Equal(t, domain.StatusNoData, state.Status)
		assert.Zero(t, state.DistanceM)
	}
}

func TestScriptBackend_QualityExpiresWithDistance(t *testing.T) {
	s, clk := newTestScript(t)

	s.SubmitReadingWithQuality(12.5, 95)
	clk.Advance(DefaultTimeout + time.Millisecond)
	s.Update()

	pct, ok := s.SignalQuality()
	assert.False(t, ok)
	assert.Equal(t, int8(-1), pct)
}

func TestScriptBackend_QualityVisibleBeforeUpdate(t *testing.T) {
	s, clk := newTestScript(t)

	s.SubmitReadingWithQuality(10, 40)
	s.Update()

	// new push lands between ticks
	clk.Advance(20 * time.Millisecond)
	s.SubmitReadingWithQuality(20, 70)

	assert.Equal(t, 10.0, s.State().DistanceM)
	pct, ok := s.SignalQuality()
	require.True(t, ok)
	assert.Equal(t, int8(70), pct)

	s.Update()
	assert.Equal(t, 20.0, s.State().DistanceM)
}

func TestScriptBackend_UpdateNeverTouchesTimestamp(t *testing.T) {
	s, clk := newTestScript(t)

	s.SubmitReading(3)
	stamped := s.State().LastReadingMs
	assert.Equal(t, uint32(10_000), stamped)

	clk.Advance(200 * time.Millisecond)
	s.Update()
	clk.Advance(time.Second)
	s.Update()

	assert.Equal(t, stamped, s.State().LastReadingMs)
}

func TestScriptBackend_RecoversAfterStale(t *testing.T) {
	s, clk := newTestScript(t)

	s.SubmitReading(3)
	clk.Advance(time.Second)
	s.Update()
	require.Equal(t, domain.StatusNoData, s.State().Status)

	s.SubmitReadingWithQuality(4, 60)
	clk.Advance(10 * time.Millisecond)
	s.Update()

	state := s.State()
	assert.Equal(t, domain.StatusGood, state.Status)
	assert.Equal(t, 4.0, state.DistanceM)
	pct, ok := s.SignalQuality()
	assert.True(t, ok)
	assert.Equal(t, int8(60), pct)
}

func TestScriptBackend_ClockWrap(t *testing.T) {
	clk := mock.NewFakeClock(math.MaxUint32 - 100)
	s := NewScriptBackend(testParams, clk)

	s.SubmitReading(6)
	clk.Advance(300 * time.Millisecond)
	s.Update()
	assert.Equal(t, domain.StatusGood, s.State().Status)

	clk.Advance(300 * time.Millisecond)
	s.Update()
	assert.Equal(t, domain.StatusNoData, s.State().Status)
}

func TestScriptBackend_WithTimeout(t *testing.T) {
	s, clk := newTestScript(t, WithTimeout(2*time.Second))

	s.SubmitReading(6)
	clk.Advance(1500 * time.Millisecond)
	s.Update()
	assert.Equal(t, domain.StatusGood, s.State().Status)

	clk.Advance(600 * time.Millisecond)
	s.Update()
	assert.Equal(t, domain.StatusNoData, s.State().Status)
}

func TestScriptBackend_WithTimeoutIgnoresNonPositive(t *testing.T) {
	s, _ := newTestScript(t, WithTimeout(0), WithTimeout(-time.Second))
	assert.Equal(t, uint32(DefaultTimeout.Milliseconds()), s.timeoutMs)
}

func TestScriptBackend_ConcurrentPushAndUpdate(t *testing.T) {
	s, clk := newTestScript(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s.SubmitReadingWithQuality(float64(i%40)+1, float64(i%100))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s.Update()
			s.SignalQuality()
		}
	}()
	wg.Wait()

	clk.Advance(time.Millisecond)
	s.Update()
	assert.Equal(t, domain.StatusGood, s.State().Status)
}
