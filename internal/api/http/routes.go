package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/eirae-io/eirae-server/internal/store"
	"github.com/eirae-io/eirae-server/internal/zone"
)

var validate = newValidator()

// newValidator reports field names by their json tag so validation errors
// read in the client's vocabulary.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage condenses a validator error into a short client-facing
// message instead of the library's internal formatting.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return "missing or invalid fields: " + strings.Join(fields, ", ")
	}
	return "invalid request body"
}

// maxRecentReports caps the public reports feed.
const maxRecentReports = 50

// historyWindow bounds the sensor history endpoint to the trailing day.
const historyWindow = 24 * time.Hour

// readingInput is the ingest payload sent by sensors. The measurements are
// pointers so an omitted field is rejected instead of coerced to zero, while
// an explicit zero still passes.
type readingInput struct {
	SensorName  string   `json:"sensor_name" validate:"required"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Humidity    *float64 `json:"humidity" validate:"required"`
	PM25        *float64 `json:"pm25" validate:"required"`
}

// reportInput is a community symptom report. Coordinates are required but
// carry no range checks; symptom_type is free text.
type reportInput struct {
	Lat         *float64 `json:"lat" validate:"required"`
	Lon         *float64 `json:"lon" validate:"required"`
	SymptomType string   `json:"symptom_type" validate:"required"`
	Comment     *string  `json:"comment"`
}

type createSensorInput struct {
	Name string   `json:"name" validate:"required"`
	Lat  *float64 `json:"lat" validate:"required"`
	Lon  *float64 `json:"lon" validate:"required"`
}

type historyEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	PM25        float64   `json:"pm25"`
}

// RegisterRoutes wires the API handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, st *store.Store, zones *zone.Service, logger *slog.Logger) {
	api := app.Group("/api")

	api.Get("/map_data", func(c *fiber.Ctx) error {
		data, err := zones.MapData(c.Context())
		if err != nil {
			logger.Error("map data failed", "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build map data")
		}
		return c.JSON(data)
	})

	api.Post("/ingest/sensor", func(c *fiber.Ctx) error {
		var in readingInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cannot parse JSON body")
		}
		if err := validate.Struct(in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
		}

		sensor, err := st.SensorByName(c.Context(), in.SensorName)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("sensor %q not found", in.SensorName))
			}
			return err
		}

		reading, err := st.CreateReading(c.Context(), sensor.ID, *in.Temperature, *in.Humidity, *in.PM25)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":     "ok",
			"reading_id": reading.ID,
		})
	})

	api.Post("/ingest/report", func(c *fiber.Ctx) error {
		var in reportInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cannot parse JSON body")
		}
		if err := validate.Struct(in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
		}

		report, err := st.CreateReport(c.Context(), *in.Lat, *in.Lon, in.SymptomType, in.Comment)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":    "ok",
			"report_id": report.ID,
		})
	})

	api.Get("/sensor/:id/history", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid sensor id")
		}

		since := time.Now().UTC().Add(-historyWindow)
		readings, err := st.ReadingsSince(c.Context(), uint(id), since)
		if err != nil {
			return err
		}

		history := make([]historyEntry, 0, len(readings))
		for _, r := range readings {
			history = append(history, historyEntry{
				Timestamp:   r.Timestamp,
				Temperature: r.Temperature,
				Humidity:    r.Humidity,
				PM25:        r.PM25,
			})
		}
		return c.JSON(history)
	})

	api.Get("/reports", func(c *fiber.Ctx) error {
		reports, err := st.RecentReports(c.Context(), maxRecentReports)
		if err != nil {
			return err
		}
		if reports == nil {
			reports = []store.CommunityReport{}
		}
		return c.JSON(reports)
	})

	api.Post("/sensor/create", func(c *fiber.Ctx) error {
		var in createSensorInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cannot parse JSON body")
		}
		if err := validate.Struct(in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
		}

		sensor, err := st.CreateSensor(c.Context(), in.Name, *in.Lat, *in.Lon)
		if err != nil {
			if errors.Is(err, store.ErrSensorExists) {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("sensor %q already exists", in.Name))
			}
			return err
		}

		logger.Info("sensor created", "name", sensor.Name, "id", sensor.ID)
		return c.Status(fiber.StatusCreated).JSON(sensor)
	})

	// Lead capture from the landing page. Requests are logged, not persisted.
	api.Post("/solicitar_demo", func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.FormValue("name"))
		email := strings.TrimSpace(c.FormValue("email"))
		organization := strings.TrimSpace(c.FormValue("organization"))

		if name == "" || email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and email are required")
		}

		logger.Info("demo request received",
			"name", name,
			"email", email,
			"organization", organization,
		)
		return c.Redirect("/", fiber.StatusSeeOther)
	})
}
