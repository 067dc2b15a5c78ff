package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/seasonal-tarot/internal/domain/admin"
	"github.com/yanqian/seasonal-tarot/internal/domain/analysis"
	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
	"github.com/yanqian/seasonal-tarot/internal/domain/tarot"
	"github.com/yanqian/seasonal-tarot/internal/infra/usagelog"
	apperrors "github.com/yanqian/seasonal-tarot/pkg/errors"
	"github.com/yanqian/seasonal-tarot/pkg/util"
)

// Dealer produces fresh draws.
type Dealer interface {
	DrawSingle() (tarot.SingleDraw, error)
	DrawSpread() (tarot.SpreadDraw, error)
}

// UsageReporter summarizes provider calls for operators.
type UsageReporter interface {
	Summarize(ctx context.Context, since time.Time) ([]usagelog.Summary, error)
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	dealer      Dealer
	analysisSvc analysis.Service
	gatewaySvc  gateway.Service
	adminSvc    admin.Service
	usage       UsageReporter
	imageBase   string
	now         util.Clock
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler. usage may be nil.
func NewHandler(dealer Dealer, analysisSvc analysis.Service, gatewaySvc gateway.Service, adminSvc admin.Service, usage UsageReporter, imageBase string, logger *slog.Logger) *Handler {
	return &Handler{
		dealer:      dealer,
		analysisSvc: analysisSvc,
		gatewaySvc:  gatewaySvc,
		adminSvc:    adminSvc,
		usage:       usage,
		imageBase:   imageBase,
		now:         util.NowUTC,
		logger:      logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DrawSpread deals a fresh seasonal spread.
func (h *Handler) DrawSpread(c *gin.Context) {
	draw, err := h.dealer.DrawSpread()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, apperrors.CodeDeckError, "draw failed", err))
		return
	}
	if outcome := tarot.ValidateReading(draw.Reading); !outcome.IsValid {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, apperrors.CodeDeckError, strings.Join(outcome.Errors, "; "), nil))
		return
	}
	c.JSON(http.StatusOK, drawSpreadResponse{
		ReadingID:  uuid.New(),
		Reading:    draw.Reading.Views(h.imageBase),
		SpreadType: draw.SpreadType,
		Timestamp:  draw.Timestamp,
	})
}

// DrawSingle deals the daily single card. The question is echoed back.
func (h *Handler) DrawSingle(c *gin.Context) {
	var req drawSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	draw, err := h.dealer.DrawSingle()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, apperrors.CodeDeckError, "draw failed", err))
		return
	}
	c.JSON(http.StatusOK, drawSingleResponse{
		ReadingID:  uuid.New(),
		Card:       draw.Card.View(h.imageBase),
		Question:   strings.TrimSpace(req.Question),
		SpreadType: draw.SpreadType,
		Timestamp:  draw.Timestamp,
	})
}

// SpreadInfo describes the seasonal spread.
func (h *Handler) SpreadInfo(c *gin.Context) {
	c.JSON(http.StatusOK, tarot.SeasonalSpreadInfo())
}

// Cards lists the catalog grouped by partition.
func (h *Handler) Cards(c *gin.Context) {
	decks := tarot.BuildDecks()
	minor := len(decks.Wands) + len(decks.Cups) + len(decks.Swords) + len(decks.Pentacles)
	c.JSON(http.StatusOK, cardListResponse{
		MajorArcana: decks.MajorArcana,
		MinorArcana: minorArcanaGroups{
			Wands:     decks.Wands,
			Cups:      decks.Cups,
			Swords:    decks.Swords,
			Pentacles: decks.Pentacles,
		},
		TotalCards: cardTotals{
			Major: len(decks.MajorArcana),
			Minor: minor,
			Total: len(decks.MajorArcana) + minor,
		},
	})
}

// ValidateReading reports structural problems in a client supplied reading.
func (h *Handler) ValidateReading(c *gin.Context) {
	reading, ok := h.bindReading(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tarot.ValidateReading(reading))
}

func (h *Handler) bindReading(c *gin.Context) (tarot.Reading, bool) {
	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return nil, false
	}
	if req.Reading == nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "reading is required", nil))
		return nil, false
	}
	return *req.Reading, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
