package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSensorExists is returned when creating a sensor whose name is taken.
	ErrSensorExists = errors.New("sensor already exists")
)

// Open connects to the SQLite database at path and ensures the schema
// exists. AutoMigrate is idempotent, so repeated startups are safe.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}

	if err := db.AutoMigrate(&Sensor{}, &SensorReading{}, &CommunityReport{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

// Store provides the persistence operations for sensors, readings and
// community reports.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Sensors returns all registered sensors.
func (s *Store) Sensors(ctx context.Context) ([]Sensor, error) {
	var sensors []Sensor
	if err := s.db.WithContext(ctx).Order("id").Find(&sensors).Error; err != nil {
		return nil, err
	}
	return sensors, nil
}

// SensorByName looks a sensor up by its unique name.
func (s *Store) SensorByName(ctx context.Context, name string) (Sensor, error) {
	var sensor Sensor
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&sensor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Sensor{}, ErrNotFound
		}
		return Sensor{}, err
	}
	return sensor, nil
}

// CreateSensor registers a new sensor. The name must be unique; a taken name
// yields ErrSensorExists and leaves the store unchanged. The unique index is
// the arbiter, so concurrent creates with the same name cannot slip through.
func (s *Store) CreateSensor(ctx context.Context, name string, lat, lon float64) (Sensor, error) {
	sensor := Sensor{Name: name, Lat: lat, Lon: lon}
	if err := s.db.WithContext(ctx).Create(&sensor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Sensor{}, ErrSensorExists
		}
		return Sensor{}, err
	}
	return sensor, nil
}

// CreateReading appends a reading for the sensor, stamped at insertion time.
func (s *Store) CreateReading(ctx context.Context, sensorID uint, temperature, humidity, pm25 float64) (SensorReading, error) {
	reading := SensorReading{
		SensorID:    sensorID,
		Timestamp:   time.Now().UTC(),
		Temperature: temperature,
		Humidity:    humidity,
		PM25:        pm25,
	}
	if err := s.db.WithContext(ctx).Create(&reading).Error; err != nil {
		return SensorReading{}, err
	}
	return reading, nil
}

// LatestReading returns the most recent reading for the sensor, or nil when
// the sensor has no readings yet.
func (s *Store) LatestReading(ctx context.Context, sensorID uint) (*SensorReading, error) {
	var reading SensorReading
	err := s.db.WithContext(ctx).
		Where("sensor_id = ?", sensorID).
		Order("timestamp DESC").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

// ReadingsSince returns the sensor's readings stamped at or after since,
// ascending by timestamp.
func (s *Store) ReadingsSince(ctx context.Context, sensorID uint, since time.Time) ([]SensorReading, error) {
	var readings []SensorReading
	err := s.db.WithContext(ctx).
		Where("sensor_id = ? AND timestamp >= ?", sensorID, since).
		Order("timestamp ASC").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}

// CreateReport stores a community report, stamped at creation time.
func (s *Store) CreateReport(ctx context.Context, lat, lon float64, symptomType string, comment *string) (CommunityReport, error) {
	report := CommunityReport{
		Timestamp:   time.Now().UTC(),
		Lat:         lat,
		Lon:         lon,
		SymptomType: symptomType,
		Comment:     comment,
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return CommunityReport{}, err
	}
	return report, nil
}

// RecentReports returns at most limit reports, newest first.
func (s *Store) RecentReports(ctx context.Context, limit int) ([]CommunityReport, error) {
	var reports []CommunityReport
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
