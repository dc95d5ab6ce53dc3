package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"fxrateproxy/internal/app/fxrate/entity"
)

// RateFacade is the subset of the Rate Service Facade the handler needs.
type RateFacade interface {
	Get(pair entity.Pair) (entity.Rate, error)
}

// RatesHandler serves GET /rates.
type RatesHandler struct {
	facade    RateFacade
	validator *validator.Validate
}

// NewRatesHandler builds a RatesHandler over facade.
func NewRatesHandler(facade RateFacade) *RatesHandler {
	return &RatesHandler{facade: facade, validator: validator.New()}
}

// rateQuery binds and validates the from/to query parameters. Both must be
// present and look like a 3-letter alphabetic code. GetRate then checks both
// codes against the whitelist; a whitelisted but untracked code passes that
// check and reaches the facade, where it resolves to PairNotFound — see
// spec.md §9.
type rateQuery struct {
	From string `form:"from" binding:"required,len=3,alpha"`
	To   string `form:"to" binding:"required,len=3,alpha"`
}

type rateResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
}

// GetRate handles GET /rates?from=<CCY>&to=<CCY>. A query-bind failure and a
// code outside the whitelist are deliberately indistinguishable to the
// caller: both yield 404, per spec.md §6. Any facade error (cold cache or
// underivable pair alike) yields 500 with a generic error body.
func (h *RatesHandler) GetRate(c *gin.Context) {
	var q rateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rate not found"})
		return
	}

	pair := entity.Pair{From: entity.Currency(q.From), To: entity.Currency(q.To)}
	if !pair.From.IsValid() || !pair.To.IsValid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "rate not found"})
		return
	}

	rate, err := h.facade.Get(pair)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	price, _ := rate.Price.Float64()
	c.JSON(http.StatusOK, rateResponse{
		From:      string(rate.Pair.From),
		To:        string(rate.Pair.To),
		Price:     price,
		Timestamp: rate.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00"),
	})
}
