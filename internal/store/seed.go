package store

import (
	"context"
	"errors"
	"log/slog"
)

// demoSensors are the two zones created at startup so a fresh install has
// something to show on the map.
var demoSensors = []Sensor{
	{Name: "Sensor-Plaza-Central", Lat: -34.6037, Lon: -58.3816},
	{Name: "Sensor-Zona-Industrial", Lat: -34.5830, Lon: -58.4330},
}

// SeedDemoSensors ensures the demo sensors exist, inserting only the missing
// ones. Safe to run on every startup.
func (s *Store) SeedDemoSensors(ctx context.Context) error {
	for _, demo := range demoSensors {
		_, err := s.SensorByName(ctx, demo.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		if _, err := s.CreateSensor(ctx, demo.Name, demo.Lat, demo.Lon); err != nil {
			return err
		}
		slog.Info("created demo sensor", "name", demo.Name)
	}
	return nil
}
