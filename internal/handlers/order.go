package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// OrderHandler manages checkout and the customer order read API.
type OrderHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	notify *services.NotifyService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, cfg *config.Config, notify *services.NotifyService) *OrderHandler {
	return &OrderHandler{db: db, cfg: cfg, notify: notify}
}

type createOrderRequest struct {
	PaymentMethod string `json:"payment_method"`
	AddressID     string `json:"address_id"`
	Notes         string `json:"notes"`
}

// Create places an order from the current cart: snapshots the lines, clears
// the cart and notifies the admin chat. Payment itself happens out of band;
// a transfer-style method starts in payment_submitted awaiting review,
// anything else starts on hold.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.PaymentMethod == "" {
		return fiber.NewError(fiber.StatusBadRequest, "payment_method is required")
	}

	cart, err := getOrCreateUserCart(h.db, session.UserID)
	if err != nil {
		return err
	}

	if len(cart.Lines) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	paymentStatus := models.PaymentOnHold
	if req.PaymentMethod == "transfer" {
		paymentStatus = models.PaymentSubmitted
	}

	order := models.Order{
		UserID:         session.UserID,
		OrderNumber:    generateOrderNumber(),
		PaymentStatus:  paymentStatus,
		ShippingStatus: models.ShippingPending,
		PlacedAt:       time.Now(),
		Subtotal:       cart.Subtotal(),
		ShippingFee:    h.cfg.ShippingFee,
		Currency:       h.cfg.Currency,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
	}
	order.TotalAmount = order.Subtotal + order.ShippingFee

	if err := h.attachAddress(&order, session.UserID, req.AddressID); err != nil {
		return err
	}

	for _, line := range cart.Lines {
		productID := line.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ProductID: &productID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.UnitPrice * float64(line.Quantity),
		})
	}

	if err := createOrderWithRetry(h.db, &order); err != nil {
		return err
	}

	cart.Clear()
	if err := saveCartLines(h.db, cart); err != nil {
		return err
	}

	go h.dispatchOrderNotification(order, session)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             order.ID,
			"order_number":   order.OrderNumber,
			"payment_status": order.PaymentStatus,
			"placed_at":      order.PlacedAt,
			"total":          order.TotalAmount,
			"total_display":  utils.FormatPrice(order.TotalAmount, order.Currency),
			"currency":       order.Currency,
		},
	})
}

// List returns the authenticated user's orders.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("user_id = ?", session.UserID)

	if status := c.Query("payment_status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Get returns one of the user's orders with its progress timeline.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"data":     order,
		"timeline": models.OrderTimeline(order.PaymentStatus, order.ShippingStatus, order.TrackingNumber),
	})
}

// attachAddress snapshots the chosen or default saved address into the order.
// Orders without any saved address go through without a delivery snapshot.
func (h *OrderHandler) attachAddress(order *models.Order, userID uuid.UUID, addressID string) error {
	query := h.db.Where("user_id = ?", userID)
	if addressID != "" {
		id, err := uuid.Parse(addressID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid address id")
		}
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("is_default = true")
	}

	var address models.UserAddress
	if err := query.First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if addressID != "" {
				return fiber.NewError(fiber.StatusNotFound, "address not found")
			}
			return nil
		}
		return err
	}

	order.DeliveryAddressLine = address.AddressLine
	order.DeliveryApartment = address.Apartment
	order.DeliveryCity = address.City
	order.DeliveryDistrict = address.District
	return nil
}

func (h *OrderHandler) dispatchOrderNotification(order models.Order, session utils.SessionClaims) {
	items := make([]services.OrderItemNotification, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, services.OrderItemNotification{
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	var user models.User
	customerName := session.Email
	if err := h.db.First(&user, "id = ?", session.UserID).Error; err == nil && user.FullName != "" {
		customerName = user.FullName
	}

	_ = h.notify.NotifyNewOrder(services.OrderNotification{
		OrderNumber:   order.OrderNumber,
		CustomerName:  customerName,
		CustomerEmail: session.Email,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		PaymentMethod: order.PaymentMethod,
	})
}

const orderNumberAttempts = 3

// createOrderWithRetry inserts the order, regenerating the order number on a
// unique-constraint collision. The random suffix makes a second collision in a
// row vanishingly unlikely.
func createOrderWithRetry(db *gorm.DB, order *models.Order) error {
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		err = db.Create(order).Error
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		order.OrderNumber = generateOrderNumber()
	}
	return err
}

func generateOrderNumber() string {
	suffix := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, suffix)
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}
	return fmt.Sprintf("ORD-%s-%06d", time.Now().Format("20060102"), n.Int64())
}
