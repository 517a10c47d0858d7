package store

import "time"

// Sensor is a fixed measuring point; its location doubles as the zone used
// for risk aggregation.
type Sensor struct {
	ID   uint    `gorm:"primaryKey" json:"id"`
	Name string  `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`

	Readings []SensorReading `gorm:"foreignKey:SensorID" json:"-"`
}

// SensorReading is one timestamped environmental measurement. Readings are
// append-only; nothing updates or deletes them.
type SensorReading struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SensorID    uint      `gorm:"index;not null" json:"sensor_id"`
	Timestamp   time.Time `gorm:"index;not null" json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	PM25        float64   `gorm:"column:pm25" json:"pm25"`
}

// CommunityReport is an unverified symptom observation submitted by the
// public, tied to a location but not to any sensor.
type CommunityReport struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time `gorm:"index;not null" json:"timestamp"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	SymptomType string    `gorm:"size:120;not null" json:"symptom_type"`
	Comment     *string   `json:"comment"`
}
