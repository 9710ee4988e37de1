package monitor

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidney_monitor/internal/detect"
	"kidney_monitor/internal/models"
	"kidney_monitor/internal/refmodel"
	"kidney_monitor/internal/risk"
)

// fakeSource выдаёт заранее подготовленную последовательность показаний
type fakeSource struct {
	queue []fakeSample
}

type fakeSample struct {
	reading  *models.BiomarkerReading
	features models.FeatureVector
	err      error
}

func (s *fakeSource) Read() (*models.BiomarkerReading, models.FeatureVector, error) {
	if len(s.queue) == 0 {
		return nil, nil, errors.New("источник исчерпан")
	}
	sample := s.queue[0]
	s.queue = s.queue[1:]
	return sample.reading, sample.features, sample.err
}

// fakeSink записывает опубликованные сообщения
type fakeSink struct {
	telemetry   []*models.TelemetryMessage
	assessments []*models.AssessmentMessage
	alerts      []*models.AlertMessage
	fail        bool
}

func (s *fakeSink) PublishTelemetry(msg *models.TelemetryMessage) error {
	if s.fail {
		return errors.New("доставка не удалась")
	}
	s.telemetry = append(s.telemetry, msg)
	return nil
}

func (s *fakeSink) PublishAssessment(msg *models.AssessmentMessage) error {
	if s.fail {
		return errors.New("доставка не удалась")
	}
	s.assessments = append(s.assessments, msg)
	return nil
}

func (s *fakeSink) PublishAlert(msg *models.AlertMessage) error {
	if s.fail {
		return errors.New("доставка не удалась")
	}
	s.alerts = append(s.alerts, msg)
	return nil
}

func testModel() *refmodel.ReferenceModel {
	return &refmodel.ReferenceModel{
		Scaler: refmodel.Scaler{
			Mean:  []float64{0, 0},
			Scale: []float64{1, 1},
		},
		PCA: refmodel.Projection{
			Components: [][]float64{{1, 0}, {0, 1}},
		},
		Clusters: refmodel.ClusterSet{
			Centroids: [][]float64{{1, 0}},
		},
	}
}

func healthyReading() *models.BiomarkerReading {
	return &models.BiomarkerReading{
		BUN:        20,
		Creatinine: 1.0,
		EGFR:       100,
		Albumin:    5.0,
		Condition:  "normal",
	}
}

func criticalReading() *models.BiomarkerReading {
	return &models.BiomarkerReading{
		BUN:        100,
		Creatinine: 10.0,
		EGFR:       5,
		Albumin:    0,
		Condition:  "esrd",
	}
}

func newTestMonitor(t *testing.T, source *fakeSource, sink *fakeSink, windowSize int) *Monitor {
	t.Helper()

	model := testModel()
	window, err := detect.NewWindowBuffer(windowSize)
	require.NoError(t, err)

	return New(
		"dev-test",
		source,
		sink,
		detect.NewPreprocessor(model),
		window,
		detect.NewDetector(model, detect.DefaultJSThreshold, detect.DefaultAlertFraction),
		risk.NewScorer(),
		time.Millisecond,
	)
}

func TestCyclePublishesTelemetryAndAssessment(t *testing.T) {
	source := &fakeSource{queue: []fakeSample{
		{reading: healthyReading(), features: models.FeatureVector{1, 0}},
	}}
	sink := &fakeSink{}

	mon := newTestMonitor(t, source, sink, 2)
	mon.Cycle()

	require.Len(t, sink.telemetry, 1)
	require.Len(t, sink.assessments, 1)
	assert.Empty(t, sink.alerts)

	assert.Equal(t, "dev-test", sink.telemetry[0].DeviceID)
	assert.Equal(t, []float64{1, 0}, sink.telemetry[0].Features)
	assert.Equal(t, 100.0, sink.assessments[0].Score)
	assert.Equal(t, string(models.RiskLow), sink.assessments[0].RiskLevel)
}

func TestCycleRaisesRiskAlertOnSevereLevel(t *testing.T) {
	source := &fakeSource{queue: []fakeSample{
		{reading: criticalReading(), features: models.FeatureVector{1, 0}},
	}}
	sink := &fakeSink{}

	mon := newTestMonitor(t, source, sink, 2)
	mon.Cycle()

	require.Len(t, sink.alerts, 1)
	assert.Equal(t, "risk_level", sink.alerts[0].AlertType)
	assert.Equal(t, string(models.RiskCritical), sink.alerts[0].Severity)
	assert.Equal(t, "Stage 5 (Kidney failure)", sink.alerts[0].Stage)
}

func TestCycleRaisesAnomalyAlertOnFullWindow(t *testing.T) {
	// Оба вектора окна далеки от центроида → доля 1.0 → тяжесть HIGH
	source := &fakeSource{queue: []fakeSample{
		{reading: healthyReading(), features: models.FeatureVector{0.5, 0.5}},
		{reading: healthyReading(), features: models.FeatureVector{0.5, 0.5}},
	}}
	sink := &fakeSink{}

	mon := newTestMonitor(t, source, sink, 2)
	mon.Cycle()
	assert.Empty(t, sink.alerts)

	mon.Cycle()
	require.Len(t, sink.alerts, 1)

	alert := sink.alerts[0]
	assert.Equal(t, "biomarker_deviation", alert.AlertType)
	assert.Equal(t, string(models.SeverityHigh), alert.Severity)
	assert.Equal(t, 1.0, alert.FractionExceeded)
	assert.Equal(t, 2, alert.ExceededCount)
	assert.Equal(t, 2, alert.TotalSamples)
}

func TestCycleNoAnomalyAlertOnNormalWindow(t *testing.T) {
	source := &fakeSource{queue: []fakeSample{
		{reading: healthyReading(), features: models.FeatureVector{1, 0}},
		{reading: healthyReading(), features: models.FeatureVector{1, 0}},
	}}
	sink := &fakeSink{}

	mon := newTestMonitor(t, source, sink, 2)
	mon.Cycle()
	mon.Cycle()

	assert.Len(t, sink.telemetry, 2)
	assert.Empty(t, sink.alerts)
}

func TestCycleShapeMismatchPreservesWindow(t *testing.T) {
	// Второе показание неверной размерности отбрасывается, окно сохраняется
	source := &fakeSource{queue: []fakeSample{
		{reading: healthyReading(), features: models.FeatureVector{1, 0}},
		{reading: healthyReading(), features: models.FeatureVector{1, 0, 0}},
		{reading: healthyReading(), features: models.FeatureVector{0.5, 0.5}},
	}}
	sink := &fakeSink{}

	mon := newTestMonitor(t, source, sink, 2)
	mon.Cycle()
	mon.Cycle()
	assert.Empty(t, sink.alerts)

	// Третье показание заполняет окно: [1,0] + [0.5,0.5] → доля 0.5 → MODERATE
	mon.Cycle()
	require.Len(t, sink.alerts, 1)
	assert.Equal(t, string(models.SeverityModerate), sink.alerts[0].Severity)
	assert.Equal(t, 1, sink.alerts[0].ExceededCount)
	assert.Equal(t, 2, sink.alerts[0].TotalSamples)
}

func TestCycleSourceErrorSkipsEverything(t *testing.T) {
	source := &fakeSource{queue: []fakeSample{
		{err: errors.New("сбой сенсора")},
	}}
	sink := &fakeSink{}

	mon := newTestMonitor(t, source, sink, 2)
	mon.Cycle()

	assert.Empty(t, sink.telemetry)
	assert.Empty(t, sink.assessments)
	assert.Empty(t, sink.alerts)
}

func TestCycleSinkFailureDoesNotPanic(t *testing.T) {
	source := &fakeSource{queue: []fakeSample{
		{reading: criticalReading(), features: models.FeatureVector{0.5, 0.5}},
		{reading: criticalReading(), features: models.FeatureVector{0.5, 0.5}},
	}}
	sink := &fakeSink{fail: true}

	mon := newTestMonitor(t, source, sink, 2)

	assert.NotPanics(t, func() {
		mon.Cycle()
		mon.Cycle()
	})
}

func TestCycleInvalidReadingSkipsAssessmentOnly(t *testing.T) {
	// NaN в показании: оценка риска пропускается, телеметрия и окно работают
	bad := healthyReading()
	bad.EGFR = math.NaN()

	source := &fakeSource{queue: []fakeSample{
		{reading: bad, features: models.FeatureVector{1, 0}},
	}}
	sink := &fakeSink{}

	mon := newTestMonitor(t, source, sink, 2)
	mon.Cycle()

	assert.Len(t, sink.telemetry, 1)
	assert.Empty(t, sink.assessments)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	source := &fakeSource{}
	sink := &fakeSink{}
	mon := newTestMonitor(t, source, sink, 2)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- mon.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("цикл мониторинга не остановился после отмены контекста")
	}
}
