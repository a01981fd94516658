package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/epeers/marketpulse/config"
	"github.com/epeers/marketpulse/internal/models"
	"github.com/epeers/marketpulse/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// QuoteHandler handles the quote endpoints
type QuoteHandler struct {
	quoteSvc     *services.QuoteService
	cacheControl string
}

// NewQuoteHandler creates a new QuoteHandler. cacheControl is sent on every
// successful quote response; empty disables the header.
func NewQuoteHandler(quoteSvc *services.QuoteService, cacheControl string) *QuoteHandler {
	return &QuoteHandler{
		quoteSvc:     quoteSvc,
		cacheControl: cacheControl,
	}
}

// GetIndices handles GET /quotes
// @Summary Market overview
// @Description Current value, 1-day, month-to-date and year-to-date returns for the configured indices
// @Tags quotes
// @Produce json
// @Param asOf query string false "As-of date (YYYY-MM-DD or RFC3339), defaults to today"
// @Success 200 {object} models.QuotesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /quotes [get]
func (h *QuoteHandler) GetIndices(c *gin.Context) {
	h.serveSet(c, config.SetIndices, nil)
}

// GetWatchlist handles GET /watchlist
// @Summary Stock watchlist
// @Description Quotes plus currency, market cap, P/E and volume for the configured watchlist, or for the given symbols
// @Tags quotes
// @Produce json
// @Param symbols query string false "Comma separated SYMBOL or Label:SYMBOL entries replacing the configured list"
// @Param asOf query string false "As-of date (YYYY-MM-DD or RFC3339), defaults to today"
// @Success 200 {object} models.QuotesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /watchlist [get]
func (h *QuoteHandler) GetWatchlist(c *gin.Context) {
	var override []models.Instrument
	if raw := c.Query("symbols"); raw != "" {
		var err error
		if override, err = ParseSymbolList(raw); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	h.serveSet(c, config.SetWatchlist, override)
}

// GetSet handles GET /sets/:name
// @Summary Quotes for a configured set
// @Tags sets
// @Produce json
// @Param name path string true "Set name"
// @Param asOf query string false "As-of date (YYYY-MM-DD or RFC3339), defaults to today"
// @Success 200 {object} models.QuotesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /sets/{name} [get]
func (h *QuoteHandler) GetSet(c *gin.Context) {
	h.serveSet(c, c.Param("name"), nil)
}

// ListSets handles GET /sets
// @Summary List configured sets
// @Tags sets
// @Produce json
// @Success 200 {array} models.SetListItem
// @Router /sets [get]
func (h *QuoteHandler) ListSets(c *gin.Context) {
	sets := h.quoteSvc.Sets()
	items := make([]models.SetListItem, 0, len(sets))
	for _, s := range sets {
		items = append(items, models.SetListItem{Name: s.Name, Instruments: s.Instruments})
	}
	c.JSON(http.StatusOK, items)
}

// PostQuotes handles POST /quotes
// @Summary Quotes for caller-supplied instruments
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body models.QuotesRequest true "Instruments, optional as-of date and fundamentals flag"
// @Success 200 {object} models.QuotesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /quotes [post]
func (h *QuoteHandler) PostQuotes(c *gin.Context) {
	var req models.QuotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if len(req.Instruments) > maxSymbols {
		badRequest(c, "too many instruments")
		return
	}

	var asOf *time.Time
	if req.AsOf != nil {
		asOf = &req.AsOf.Time
	}

	resp, err := h.quoteSvc.GetQuotes(c.Request.Context(), req.Instruments, asOf, services.QuoteOptions{Fundamentals: req.Fundamentals})
	h.respond(c, resp, err)
}

func (h *QuoteHandler) serveSet(c *gin.Context, name string, override []models.Instrument) {
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	set, err := h.quoteSvc.GetSet(name)
	if err != nil {
		h.respond(c, nil, err)
		return
	}
	instruments := set.Instruments
	if override != nil {
		instruments = override
	}

	resp, err := h.quoteSvc.GetQuotes(c.Request.Context(), instruments, asOf, services.OptionsForSet(set))
	h.respond(c, resp, err)
}

func (h *QuoteHandler) respond(c *gin.Context, resp *models.QuotesResponse, err error) {
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownSet):
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrNoInstruments):
			badRequest(c, err.Error())
		case errors.Is(err, services.ErrProviderUnavailable):
			log.Errorf("quote request failed: %v", err)
			c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:   "provider_error",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: err.Error(),
			})
		}
		return
	}

	if h.cacheControl != "" {
		c.Header("Cache-Control", h.cacheControl)
	}
	c.JSON(http.StatusOK, resp)
}

// parseAsOf reads the optional asOf query parameter (as_of is accepted too)
func parseAsOf(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("asOf")
	if raw == "" {
		raw = c.Query("as_of")
	}
	if raw == "" {
		return nil, true
	}
	d, err := models.ParseFlexibleDate(raw)
	if err != nil {
		badRequest(c, "asOf must be YYYY-MM-DD or RFC3339")
		return nil, false
	}
	return &d.Time, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "bad_request",
		Message: msg,
	})
}
