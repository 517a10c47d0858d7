package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestStore opens a private in-memory database per test. The shared-cache
// name keeps GORM's pooled connections on the same database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&Sensor{}, &SensorReading{}, &CommunityReport{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return New(db)
}

func TestSeedDemoSensorsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SeedDemoSensors(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := s.SeedDemoSensors(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	sensors, err := s.Sensors(ctx)
	if err != nil {
		t.Fatalf("list sensors: %v", err)
	}
	if len(sensors) != 2 {
		t.Fatalf("expected 2 demo sensors, got %d", len(sensors))
	}
}

func TestCreateSensorConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateSensor(ctx, "Sensor-Norte", -34.56, -58.45); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The duplicate insert hits the unique index; the translated constraint
	// error must come back as ErrSensorExists, not a raw database error.
	_, err := s.CreateSensor(ctx, "Sensor-Norte", -30.0, -60.0)
	if err != ErrSensorExists {
		t.Fatalf("expected ErrSensorExists, got %v", err)
	}

	// The failed create must leave the store unchanged.
	sensors, err := s.Sensors(ctx)
	if err != nil {
		t.Fatalf("list sensors: %v", err)
	}
	if len(sensors) != 1 {
		t.Fatalf("expected 1 sensor, got %d", len(sensors))
	}
	if sensors[0].Lat != -34.56 {
		t.Fatalf("original sensor was modified: lat %f", sensors[0].Lat)
	}
}

func TestSensorByNameNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SensorByName(context.Background(), "no-such-sensor")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestReading(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sensor, err := s.CreateSensor(ctx, "Sensor-Latest", -34.6, -58.4)
	if err != nil {
		t.Fatalf("create sensor: %v", err)
	}

	latest, err := s.LatestReading(ctx, sensor.ID)
	if err != nil {
		t.Fatalf("latest with no readings: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil reading for fresh sensor, got %+v", latest)
	}

	now := time.Now().UTC()
	older := SensorReading{SensorID: sensor.ID, Timestamp: now.Add(-time.Hour), Temperature: 18, Humidity: 55, PM25: 10}
	newer := SensorReading{SensorID: sensor.ID, Timestamp: now, Temperature: 21, Humidity: 60, PM25: 14}
	for _, r := range []*SensorReading{&older, &newer} {
		if err := s.db.Create(r).Error; err != nil {
			t.Fatalf("insert reading: %v", err)
		}
	}

	latest, err = s.LatestReading(ctx, sensor.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Temperature != 21 {
		t.Fatalf("expected the newer reading, got %+v", latest)
	}
}

func TestReadingsSinceWindowAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sensor, err := s.CreateSensor(ctx, "Sensor-Window", -34.6, -58.4)
	if err != nil {
		t.Fatalf("create sensor: %v", err)
	}

	now := time.Now().UTC()
	stale := SensorReading{SensorID: sensor.ID, Timestamp: now.Add(-25 * time.Hour), Temperature: 10}
	mid := SensorReading{SensorID: sensor.ID, Timestamp: now.Add(-2 * time.Hour), Temperature: 15}
	fresh := SensorReading{SensorID: sensor.ID, Timestamp: now.Add(-time.Minute), Temperature: 20}
	for _, r := range []*SensorReading{&fresh, &stale, &mid} {
		if err := s.db.Create(r).Error; err != nil {
			t.Fatalf("insert reading: %v", err)
		}
	}

	got, err := s.ReadingsSince(ctx, sensor.ID, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("readings since: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 readings inside the window, got %d", len(got))
	}
	if !got[0].Timestamp.Before(got[1].Timestamp) {
		t.Fatalf("readings not ascending: %v then %v", got[0].Timestamp, got[1].Timestamp)
	}
	if got[0].Temperature != 15 || got[1].Temperature != 20 {
		t.Fatalf("unexpected readings: %+v", got)
	}
}

func TestRecentReportsCapAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 55; i++ {
		report := CommunityReport{
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
			Lat:         -34.6,
			Lon:         -58.4,
			SymptomType: "respiratorio",
		}
		if err := s.db.Create(&report).Error; err != nil {
			t.Fatalf("insert report: %v", err)
		}
	}

	reports, err := s.RecentReports(ctx, 50)
	if err != nil {
		t.Fatalf("recent reports: %v", err)
	}
	if len(reports) != 50 {
		t.Fatalf("expected the 50-row cap, got %d", len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i].Timestamp.After(reports[i-1].Timestamp) {
			t.Fatalf("reports not descending at index %d", i)
		}
	}
	// The newest report must be first; the 5 oldest fall off.
	if !reports[0].Timestamp.Equal(base.Add(54 * time.Minute)) {
		t.Fatalf("expected newest report first, got %v", reports[0].Timestamp)
	}
}

func TestCreateReportStoresComment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	comment := "tos persistente"
	report, err := s.CreateReport(ctx, -34.61, -58.39, "respiratorio", &comment)
	if err != nil {
		t.Fatalf("create report: %v", err)
	}
	if report.ID == 0 {
		t.Fatal("expected a generated id")
	}
	if report.Comment == nil || *report.Comment != comment {
		t.Fatalf("comment not stored: %+v", report.Comment)
	}

	// Comment is optional.
	report, err = s.CreateReport(ctx, -34.61, -58.39, "dengue", nil)
	if err != nil {
		t.Fatalf("create report without comment: %v", err)
	}
	if report.Comment != nil {
		t.Fatalf("expected nil comment, got %v", *report.Comment)
	}
}
