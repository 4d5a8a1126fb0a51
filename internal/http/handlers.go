package http

import (
	"errors"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/service"
)

type handlers struct {
	svcs *service.Services
	log  zerolog.Logger
}

func Register(app *fiber.App, svcs *service.Services, logger zerolog.Logger) {
	h := &handlers{svcs: svcs, log: logger.With().Str("component", "http").Logger()}

	g := app.Group("/api")
	g.Get("/cost", h.costSummary)
	g.Get("/cost/:period", h.periodCost)
	g.Get("/energy/total", h.totalEnergy)
	g.Get("/energy/:date", h.dayEnergy)
	g.Get("/charts/weekly-bill", h.weeklyBill)
	g.Get("/charts/power-history", h.powerHistory)
	g.Get("/tariff", h.tariff)
	g.Post("/register", h.register)
	g.Post("/login", h.login)
	g.Post("/ai-insight", h.insight)
}

func money(v float64) string  { return decimal.NewFromFloat(v).StringFixed(2) }
func energy(v float64) string { return decimal.NewFromFloat(v).StringFixed(3) }

func (h *handlers) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidQuery) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func (h *handlers) costSummary(c *fiber.Ctx) error {
	sum, err := h.svcs.Analytics.CostSummary(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"cost_today": money(sum.Today), "cost_month": money(sum.Month)})
}

func (h *handlers) periodCost(c *fiber.Ctx) error {
	cost, err := h.svcs.Analytics.PeriodCost(c.UserContext(), c.Params("period"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"totalCost": money(cost)})
}

func (h *handlers) totalEnergy(c *fiber.Ctx) error {
	kwh, err := h.svcs.Analytics.TotalEnergy(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"totalEnergy": energy(kwh)})
}

func (h *handlers) dayEnergy(c *fiber.Ctx) error {
	day, kwh, err := h.svcs.Analytics.DayEnergy(c.UserContext(), c.Params("date"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"date": day.Format(time.DateOnly), "totalEnergy": energy(kwh)})
}

type chart[T any] struct {
	Labels []string `json:"labels"`
	Data   []T      `json:"data"`
}

func (h *handlers) weeklyBill(c *fiber.Ctx) error {
	bills, err := h.svcs.Analytics.WeeklyBill(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	out := chart[string]{Labels: make([]string, 0, len(bills)), Data: make([]string, 0, len(bills))}
	for _, b := range bills {
		out.Labels = append(out.Labels, b.Label)
		out.Data = append(out.Data, money(b.Cost))
	}
	return c.JSON(out)
}

func (h *handlers) powerHistory(c *fiber.Ctx) error {
	samples, err := h.svcs.Analytics.PowerHistory(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	loc := h.svcs.Analytics.Location()
	out := chart[float64]{Labels: make([]string, 0, len(samples)), Data: make([]float64, 0, len(samples))}
	for _, s := range samples {
		out.Labels = append(out.Labels, s.Timestamp.In(loc).Format(time.RFC3339))
		out.Data = append(out.Data, s.Power)
	}
	return c.JSON(out)
}

type tariffBand struct {
	From float64  `json:"from"`
	To   *float64 `json:"to"`
	Rate float64  `json:"rate"`
	Base float64  `json:"base"`
}

func (h *handlers) tariff(c *fiber.Ctx) error {
	bands := h.svcs.Analytics.Tariff().Bands()
	out := make([]tariffBand, 0, len(bands))
	for _, b := range bands {
		tb := tariffBand{From: b.From, Rate: b.Rate, Base: b.Base}
		if !math.IsInf(b.To, 1) {
			to := b.To
			tb.To = &to
		}
		out = append(out, tb)
	}
	return c.JSON(fiber.Map{"tiers": out})
}

func (h *handlers) register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	_, err := h.svcs.Auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name, email and password are required."})
	case errors.Is(err, service.ErrEmailInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered."})
	case err != nil:
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully."})
}

func (h *handlers) login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required."})
	}
	user, token, err := h.svcs.Auth.Login(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password."})
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Login successful.",
		"user":    fiber.Map{"name": user.Name, "email": user.Email},
		"token":   token,
	})
}

func (h *handlers) insight(c *fiber.Ctx) error {
	if h.svcs.Insight == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "AI insight is not configured."})
	}
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.BodyParser(&req); err != nil || req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Prompt is required."})
	}
	text, err := h.svcs.Insight.GenerateInsight(c.UserContext(), req.Prompt)
	if err != nil {
		h.log.Error().Err(err).Msg("ai insight failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch AI insight."})
	}
	return c.JSON(fiber.Map{"insight": text})
}
