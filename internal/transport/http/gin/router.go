package httpgin

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/venuebook/bookgo/internal/catalog"
	"github.com/venuebook/bookgo/internal/countdown"
	"github.com/venuebook/bookgo/internal/domain"
	redisrepo "github.com/venuebook/bookgo/internal/repository/redis"
	"github.com/venuebook/bookgo/internal/service"
	"github.com/venuebook/bookgo/internal/service/flow"
	"github.com/venuebook/bookgo/internal/service/pricing"
	"github.com/venuebook/bookgo/internal/service/programs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Program listings and derived availability
	r.GET("/programs", handleListPrograms(svcs))
	r.GET("/programs/:id/availability", handleAvailability(svcs))
	r.GET("/programs/:id/countdown", handleCountdown(svcs))

	// Pricing
	r.POST("/pricing/quote", handleQuote(svcs))
	r.POST("/pricing/addons", handleAddons(svcs))

	// Booking flow
	bookings := r.Group("/bookings")
	{
		bookings.POST("/commit", handleCommit(svcs, idem, limiter))
		bookings.POST("/resume", handleResume(svcs))
		bookings.GET("/draft", handleGetDraft(svcs))
		bookings.DELETE("/draft", handleClearDraft(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List programs with derived inventory and deadlines
// @Param    booking_type  query  string  false  "live or daily"
// @Param    include_past  query  bool    false  "include past programs"
// @Param    page          query  int     false  "page"
// @Param    page_size     query  int     false  "page size"
// @Success  200  {array}  domain.ProgramView
// @Router   /programs [get]
func handleListPrograms(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := catalog.ListParams{
			BookingType: c.Query("booking_type"),
			IncludePast: c.Query("include_past") == "true",
			Page:        parseIntDefault(c.Query("page"), 0),
			PageSize:    parseIntDefault(c.Query("page_size"), 0),
		}

		views, err := svcs.Programs.List(c.Request.Context(), params)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, views, "public, max-age=15", true)
	}
}

// @Summary  Get derived availability for one program
// @Param    id  path  string  true  "Program ID"
// @Success  200  {object}  domain.ProgramView
// @Failure  404  {object}  ErrorResponse
// @Router   /programs/{id}/availability [get]
func handleAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Programs.Availability(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, view, "public, max-age=15", true)
	}
}

// @Summary  Stream a 1-second countdown to the program's sales deadline (SSE)
// @Param    id  path  string  true  "Program ID"
// @Success  200  {string}  string  "text/event-stream"
// @Failure  404  {object}  ErrorResponse
// @Router   /programs/{id}/countdown [get]
func handleCountdown(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Programs.Availability(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		if view.Deadline.Instant == nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no deadline"})
			return
		}

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "streaming unsupported"})
			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Writer.WriteHeader(http.StatusOK)

		// One countdown per connected client; the client disconnect cancels
		// the request context, which is the teardown that stops the ticker.
		cd := countdown.New(*view.Deadline.Instant)
		defer cd.Stop()

		cd.Run(c.Request.Context(), func(snap domain.CountdownSnapshot) {
			b, _ := json.Marshal(snap)
			_, _ = c.Writer.WriteString("data: " + string(b) + "\n\n")
			flusher.Flush()
		})
	}
}

// @Summary  Resolve a booking price for a duration
// @Param    req  body  QuoteRequest  true  "payload"
// @Success  200  {object}  QuoteResponse
// @Router   /pricing/quote [post]
func handleQuote(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		price := svcs.Pricing.Resolve(req.DurationHours, req.HourlyRate, req.Overrides)
		c.JSON(http.StatusOK, QuoteResponse{Price: price})
	}
}

// @Summary  Aggregate add-on selections into itemized totals
// @Param    req  body  AddonsRequest  true  "payload"
// @Success  200  {object}  AddonsResponse
// @Router   /pricing/addons [post]
func handleAddons(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddonsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		agg := svcs.Pricing.Compute(req.Selections)
		c.JSON(http.StatusOK, AddonsResponse{
			Items:      agg.Items,
			GrandTotal: agg.GrandTotal,
			ByName:     pricing.MergeByName(agg.Items),
		})
	}
}

// @Summary  Commit a booking selection (idempotent, rate limited)
// @Param    req body  CommitRequest true "payload"
// @Header   200 {string} Idempotency-Key "echo"
// @Success  200 {object} CommitResponse
// @Failure  400 {object} ErrorResponse
// @Failure  422 {object} ErrorResponse "first missing required field"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /bookings/commit [post]
func handleCommit(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := userIDFrom(c)
		if userID == "" {
			badRequest(c, "missing X-User-ID")
			return
		}

		var req CommitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if limiter != nil {
			ok, _, retry, err := limiter.Allow(c.Request.Context(), "user:"+userID)
			if err == nil && !ok {
				c.Header("Retry-After", strconv.Itoa(int(retry/time.Second)+1))
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
				return
			}
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemCommit(userID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		attachment, err := decodeAttachmentInput(req.Attachment)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		result, err := svcs.Flow.Commit(c.Request.Context(), flow.CommitInput{
			UserID:        userID,
			SpaceID:       req.SpaceID,
			EventType:     req.EventType,
			Selection:     req.Selection,
			Guests:        req.Guests,
			HourlyRate:    req.HourlyRate,
			Overrides:     req.Overrides,
			Addons:        req.Addons,
			Extras:        req.Extras,
			Attachment:    attachment,
			Authenticated: req.Authenticated,
		})
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}

			var verr *flow.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
					Error: verr.Error(),
					Field: verr.Field,
				})
				return
			}

			respondErr(c, err)
			return
		}

		if result.State == flow.StatePaymentHandoff && svcs.Programs != nil {
			svcs.Programs.Invalidate(c.Request.Context(), req.SpaceID)
		}

		resp := CommitResponse{State: string(result.State), Draft: result.Draft}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Resume an interrupted booking and hand off to payment
// @Success  200 {object} CommitResponse
// @Failure  404 {object} ErrorResponse
// @Router   /bookings/resume [post]
func handleResume(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := userIDFrom(c)
		if userID == "" {
			badRequest(c, "missing X-User-ID")
			return
		}

		result, err := svcs.Flow.Resume(c.Request.Context(), userID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, CommitResponse{State: string(result.State), Draft: result.Draft})
	}
}

// @Summary  Get the pending booking draft
// @Success  200 {object} domain.BookingDraft
// @Failure  404 {object} ErrorResponse
// @Router   /bookings/draft [get]
func handleGetDraft(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := userIDFrom(c)
		if userID == "" {
			badRequest(c, "missing X-User-ID")
			return
		}

		d := svcs.Drafts.Load(c.Request.Context(), userID)
		if d == nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no pending draft"})
			return
		}

		c.JSON(http.StatusOK, d)
	}
}

// @Summary  Discard the pending booking draft
// @Success  204
// @Router   /bookings/draft [delete]
func handleClearDraft(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := userIDFrom(c)
		if userID == "" {
			badRequest(c, "missing X-User-ID")
			return
		}

		svcs.Drafts.Clear(c.Request.Context(), userID)
		c.Status(http.StatusNoContent)
	}
}

// --- Helpers ---

func userIDFrom(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("X-User-ID"))
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func decodeAttachmentInput(in *AttachmentInput) (*domain.Attachment, error) {
	if in == nil {
		return nil, nil
	}

	att := &domain.Attachment{MIMEType: in.MIMEType, URI: in.URI}
	if in.DataBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(in.DataBase64)
		if err != nil {
			return nil, errors.New("invalid attachment data_base64")
		}
		att.Data = data
	}

	return att, nil
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// programs service
	case errors.Is(err, programs.ErrProgramNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "program not found"})
		return
	// flow service
	case errors.Is(err, flow.ErrNoDraft):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no pending draft"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
