package http

import (
	"caseshop/internal/domain"
	"caseshop/internal/placement"
)

type UploadCallbackRequest struct {
	URL      string `json:"url" binding:"required"`
	ConfigID string `json:"configId"`
	Width    int    `json:"width" binding:"min=0"`
	Height   int    `json:"height" binding:"min=0"`
}

type UploadResponse struct {
	ConfigID string `json:"configId"`
	URL      string `json:"url"`
}

type OptionsRequest struct {
	Color    string `json:"color" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Material string `json:"material" binding:"required"`
	Finish   string `json:"finish" binding:"required"`
}

func (r OptionsRequest) Parse() (domain.Options, error) {
	return domain.ParseOptions(r.Color, r.Model, r.Material, r.Finish)
}

// RectRequest is an on-screen bounding rectangle.
type RectRequest struct {
	X      float64 `json:"x" binding:"gte=-16384,lte=16384"`
	Y      float64 `json:"y" binding:"gte=-16384,lte=16384"`
	Width  float64 `json:"width" binding:"gte=0,lte=16384"`
	Height float64 `json:"height" binding:"gte=0,lte=16384"`
}

func (r RectRequest) Rect() placement.Rect {
	return placement.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// SizedRectRequest is a rectangle that is rasterized, so its size is capped.
type SizedRectRequest struct {
	X      float64 `json:"x" binding:"gte=-16384,lte=16384"`
	Y      float64 `json:"y" binding:"gte=-16384,lte=16384"`
	Width  float64 `json:"width" binding:"gt=0,lte=4096"`
	Height float64 `json:"height" binding:"gt=0,lte=4096"`
}

func (r SizedRectRequest) Rect() placement.Rect {
	return placement.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

type SaveDesignRequest struct {
	OptionsRequest
	Container RectRequest      `json:"container"`
	Template  SizedRectRequest `json:"template"`
	Overlay   SizedRectRequest `json:"overlay"`
}

type ConfigurationResponse struct {
	*domain.Configuration
	TotalPrice int64 `json:"totalPrice"`
}

type CheckoutRequest struct {
	ConfigID string `json:"configId" binding:"required"`
}

type CheckoutResponse struct {
	URL     string `json:"url"`
	OrderID string `json:"orderId"`
}

type WebhookResponse struct {
	Result  any    `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
	OK      bool   `json:"ok"`
}

type PaymentStatusResponse struct {
	IsPaid bool          `json:"isPaid"`
	Order  *domain.Order `json:"order,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
