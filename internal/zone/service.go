// Package zone assembles the map view: each sensor becomes a zone carrying
// its risk labels, latest reading and current weather.
package zone

import (
	"context"
	"sync"
	"time"

	"github.com/eirae-io/eirae-server/internal/risk"
	"github.com/eirae-io/eirae-server/internal/store"
	"github.com/eirae-io/eirae-server/internal/weather"
)

// WeatherProvider is the outbound weather lookup; failures surface as the
// null-field sentinel, never as an error.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) weather.Current
}

// ReadingSummary is the latest-reading excerpt embedded in a zone.
type ReadingSummary struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	PM25        float64   `json:"pm25"`
	Timestamp   time.Time `json:"timestamp"`
}

// Zone is one map entry.
type Zone struct {
	ID                  uint            `json:"id"`
	Name                string          `json:"name"`
	Lat                 float64         `json:"lat"`
	Lon                 float64         `json:"lon"`
	EpidemiologicalRisk risk.Level      `json:"epidemiological_risk"`
	AirQuality          risk.Level      `json:"air_quality"`
	CurrentWeather      weather.Current `json:"current_weather"`
	LatestReading       *ReadingSummary `json:"latest_reading"`
}

// Service builds zones from the store, classifier and weather client.
type Service struct {
	store   *store.Store
	weather WeatherProvider
}

func NewService(st *store.Store, w WeatherProvider) *Service {
	return &Service{
		store:   st,
		weather: w,
	}
}

// MapData returns one zone per registered sensor. Database lookups run
// serially (SQLite serializes writers anyway); the independent per-sensor
// weather calls fan out concurrently so latency does not grow with one
// upstream round-trip per sensor.
func (s *Service) MapData(ctx context.Context) ([]Zone, error) {
	sensors, err := s.store.Sensors(ctx)
	if err != nil {
		return nil, err
	}

	zones := make([]Zone, len(sensors))
	for i, sensor := range sensors {
		latest, err := s.store.LatestReading(ctx, sensor.ID)
		if err != nil {
			return nil, err
		}

		z := Zone{
			ID:   sensor.ID,
			Name: sensor.Name,
			Lat:  sensor.Lat,
			Lon:  sensor.Lon,
		}

		var assessed risk.Assessment
		if latest == nil {
			assessed = risk.Assess(nil)
		} else {
			assessed = risk.Assess(&risk.Reading{
				Temperature: latest.Temperature,
				Humidity:    latest.Humidity,
				PM25:        latest.PM25,
			})
			z.LatestReading = &ReadingSummary{
				Temperature: latest.Temperature,
				Humidity:    latest.Humidity,
				PM25:        latest.PM25,
				Timestamp:   latest.Timestamp,
			}
		}
		z.EpidemiologicalRisk = assessed.Epidemiological
		z.AirQuality = assessed.AirQuality

		zones[i] = z
	}

	var wg sync.WaitGroup
	for i, sensor := range sensors {
		wg.Add(1)
		go func(i int, lat, lon float64) {
			defer wg.Done()
			zones[i].CurrentWeather = s.weather.Current(ctx, lat, lon)
		}(i, sensor.Lat, sensor.Lon)
	}
	wg.Wait()

	return zones, nil
}
