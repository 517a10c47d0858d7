package httpapi

import "github.com/gofiber/fiber/v2"

// RegisterPages wires the server-rendered pages. The templates are embedded
// in the views package and set on the app as its view engine.
func RegisterPages(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{})
	})

	app.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.Render("dashboard", fiber.Map{})
	})

	// Internal page for injecting test readings by hand.
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Render("test", fiber.Map{})
	})
}
