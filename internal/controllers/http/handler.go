package http

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"caseshop/internal/auth"
	"caseshop/internal/domain"
	"caseshop/internal/infra"
	"caseshop/internal/infra/payment"
	"caseshop/internal/infra/storage"
	"caseshop/internal/metrics"
	"caseshop/internal/pricing"
	"caseshop/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxWebhookBytes = 1 << 20

type Handler struct {
	configs  *services.ConfigurationService
	checkout *services.CheckoutService
	webhooks *services.WebhookService
	orders   *services.OrderService
	users    *services.UserService
	gateway  payment.Gateway
	store    storage.ObjectStore
	verifier *auth.Verifier
	isAdmin  func(email string) bool
}

type Deps struct {
	Configs  *services.ConfigurationService
	Checkout *services.CheckoutService
	Webhooks *services.WebhookService
	Orders   *services.OrderService
	Users    *services.UserService
	Gateway  payment.Gateway
	Store    storage.ObjectStore
	Verifier *auth.Verifier
	IsAdmin  func(email string) bool
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		configs:  d.Configs,
		checkout: d.Checkout,
		webhooks: d.Webhooks,
		orders:   d.Orders,
		users:    d.Users,
		gateway:  d.Gateway,
		store:    d.Store,
		verifier: d.Verifier,
		isAdmin:  d.IsAdmin,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(RequestID(), Authenticate(h.verifier))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", metrics.Handler())

	r.GET("/auth/callback", h.AuthCallback)

	r.POST("/uploads", h.Upload)
	r.POST("/uploads/callback", RequireSession(), h.UploadCallback)

	r.GET("/options", h.GetOptions)
	r.GET("/configurations/:id", h.GetConfiguration)
	r.PUT("/configurations/:id/options", h.SaveOptions)
	r.POST("/configurations/:id/design", h.SaveDesign)

	r.POST("/checkout", h.CreateCheckoutSession)
	r.POST("/api/webhooks", h.StripeWebhook)
	r.GET("/orders/:id/payment-status", RequireSession(), h.GetPaymentStatus)

	admin := r.Group("/admin", RequireAdmin(h.isAdmin))
	admin.GET("/dashboard", h.Dashboard)
	admin.PATCH("/orders/:id/status", h.ChangeStatus)
}

// AuthCallback runs after the identity provider signs the user in. A token
// passed in the query is stored as the session cookie.
func (h *Handler) AuthCallback(c *gin.Context) {
	sess := SessionFrom(c)
	if token := c.Query("token"); token != "" {
		parsed, err := h.verifier.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		sess = parsed
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, token, int((24 * time.Hour).Seconds()), "/", "", c.Request.TLS != nil, true)
	}

	if err := h.users.EnsureUser(c.Request.Context(), sess); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, infra.MaxImageBytes+1<<16)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > infra.MaxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image must be 4MB or smaller"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, infra.MaxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported image format"})
		return
	}
	if err := infra.CheckImageSize(cfg); err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	key := fmt.Sprintf("uploads/%s%s", uuid.NewString(), strings.ToLower(path.Ext(fh.Filename)))
	url, err := h.store.Put(ctx, key, "image/"+format, data)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.completeUpload(c, services.UploadedImage{URL: url, Width: cfg.Width, Height: cfg.Height}, c.PostForm("configId"))
}

// UploadCallback is called by an external upload service once a file is stored.
func (h *Handler) UploadCallback(c *gin.Context) {
	var req UploadCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.completeUpload(c, services.UploadedImage{URL: req.URL, Width: req.Width, Height: req.Height}, req.ConfigID)
}

func (h *Handler) completeUpload(c *gin.Context, img services.UploadedImage, configID string) {
	cfg, err := h.configs.HandleUploadComplete(c.Request.Context(), img, configID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{ConfigID: cfg.ID, URL: img.URL})
}

func (h *Handler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, pricing.NewCatalog())
}

func (h *Handler) GetConfiguration(c *gin.Context) {
	cfg, err := h.configs.GetConfiguration(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ConfigurationResponse{Configuration: cfg, TotalPrice: pricing.ForConfiguration(cfg)})
}

func (h *Handler) SaveOptions(c *gin.Context) {
	var req OptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := req.Parse()
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.configs.SaveOptions(c.Request.Context(), c.Param("id"), opts); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) SaveDesign(c *gin.Context) {
	var req SaveDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := req.Parse()
	if err != nil {
		h.writeError(c, err)
		return
	}

	cfg, err := h.configs.SaveDesign(c.Request.Context(), c.Param("id"), services.DesignInput{
		Container: req.Container.Rect(),
		Template:  req.Template.Rect(),
		Overlay:   req.Overlay.Rect(),
		Options:   opts,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ConfigurationResponse{Configuration: cfg, TotalPrice: pricing.ForConfiguration(cfg)})
}

func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.checkout.CreateCheckoutSession(c.Request.Context(), SessionFrom(c), req.ConfigID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, CheckoutResponse{URL: res.URL, OrderID: res.OrderID})
}

func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, WebhookResponse{Message: "Something went wrong", OK: false})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		metrics.WebhookEvents.WithLabelValues("unknown", "invalid_signature").Inc()
		c.JSON(http.StatusBadRequest, WebhookResponse{Message: "Invalid signature", OK: false})
		return
	}

	evt, err := h.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			metrics.WebhookEvents.WithLabelValues("unknown", "invalid_signature").Inc()
			c.JSON(http.StatusBadRequest, WebhookResponse{Message: "Invalid signature", OK: false})
			return
		}
		log.Printf("[%s] webhook parse failed: %v", c.GetString(requestIDKey), err)
		c.JSON(http.StatusInternalServerError, WebhookResponse{Message: "Something went wrong", OK: false})
		return
	}

	if err := h.webhooks.HandleEvent(c.Request.Context(), evt); err != nil {
		log.Printf("[%s] webhook %s (%s) failed: %v", c.GetString(requestIDKey), evt.ID, evt.Type, err)
		c.JSON(http.StatusInternalServerError, WebhookResponse{Message: "Something went wrong", OK: false})
		return
	}
	c.JSON(http.StatusOK, WebhookResponse{Result: evt, OK: true})
}

// GetPaymentStatus answers the thank-you page's poll: 202 until the webhook
// has marked the order paid, then 200 with the order.
func (h *Handler) GetPaymentStatus(c *gin.Context) {
	order, err := h.orders.GetPaymentStatus(c.Request.Context(), SessionFrom(c), c.Param("id"))
	if errors.Is(err, domain.ErrPaymentPending) {
		c.JSON(http.StatusAccepted, PaymentStatusResponse{IsPaid: false})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, PaymentStatusResponse{IsPaid: true, Order: order})
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.orders.Dashboard(c.Request.Context(), time.Now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrNotLoggedIn.Error()})
	case errors.Is(err, domain.ErrConfigurationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrConfigurationNotFound.Error()})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrOrderNotFound.Error()})
	case errors.Is(err, domain.ErrInvalidOption), errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrForeignImageURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderNotPaid):
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrOrderNotPaid.Error()})
	case errors.Is(err, domain.ErrDesignNotSaved):
		c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrDesignNotSaved.Error()})
	default:
		log.Printf("[%s] %s %s: %v", c.GetString(requestIDKey), c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}
