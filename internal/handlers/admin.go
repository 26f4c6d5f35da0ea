package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// AdminHandler manages the admin console endpoints: dashboard, payment
// review and account administration.
type AdminHandler struct {
	db     *gorm.DB
	notify *services.NotifyService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, notify *services.NotifyService) *AdminHandler {
	return &AdminHandler{db: db, notify: notify}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).
		Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("payment_status as status, count(*) as count").
		Group("payment_status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByPayment := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByPayment[sc.Status] = sc.Count
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentReceived).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var pendingReview int64
	if err := h.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentSubmitted).
		Count(&pendingReview).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":       totalUsers,
			"total_orders":      totalOrders,
			"orders_by_payment": ordersByPayment,
			"total_revenue":     totalRevenue,
			"pending_review":    pendingReview,
		},
	})
}

// ListOrders returns all orders with optional status filters.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("payment_status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if status := c.Query("shipping_status"); status != "" {
		query = query.Where("shipping_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
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

// ApprovePayment marks a submitted payment as received.
func (h *AdminHandler) ApprovePayment(c *fiber.Ctx) error {
	return h.reviewPayment(c, models.PaymentReceived, "approved")
}

// RejectPayment marks a submitted payment as rejected.
func (h *AdminHandler) RejectPayment(c *fiber.Ctx) error {
	return h.reviewPayment(c, models.PaymentRejected, "rejected")
}

// reviewPayment is the shared payment review transition. Only orders
// awaiting review (payment_submitted) can be decided.
func (h *AdminHandler) reviewPayment(c *fiber.Ctx, newStatus, decision string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.PaymentStatus != models.PaymentSubmitted {
		return fiber.NewError(fiber.StatusConflict, "order is not awaiting payment review")
	}

	order.PaymentStatus = newStatus
	if err := h.db.Model(&order).Updates(map[string]interface{}{
		"payment_status": newStatus,
		"updated_at":     time.Now(),
	}).Error; err != nil {
		return err
	}

	go func() {
		_ = h.notify.NotifyPaymentReviewed(order.OrderNumber, decision, order.TotalAmount, order.Currency)
	}()

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             order.ID,
			"order_number":   order.OrderNumber,
			"payment_status": order.PaymentStatus,
		},
	})
}

type updateShippingRequest struct {
	ShippingStatus string `json:"shipping_status"`
	TrackingNumber string `json:"tracking_number"`
}

// UpdateShipping sets an order's shipping status and tracking number.
func (h *AdminHandler) UpdateShipping(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateShippingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch req.ShippingStatus {
	case models.ShippingPending, models.ShippingShipped, models.ShippingDelivered:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid shipping status")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	updates := map[string]interface{}{
		"shipping_status": req.ShippingStatus,
		"updated_at":      time.Now(),
	}
	if req.TrackingNumber != "" {
		updates["tracking_number"] = req.TrackingNumber
	}

	if err := h.db.Model(&order).Updates(updates).Error; err != nil {
		return err
	}

	order.ShippingStatus = req.ShippingStatus
	if req.TrackingNumber != "" {
		order.TrackingNumber = req.TrackingNumber
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"data":     order,
		"timeline": models.OrderTimeline(order.PaymentStatus, order.ShippingStatus, order.TrackingNumber),
	})
}

// ListUsers returns customer accounts with optional email search.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{}).Where("role = ?", models.RoleCustomer)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("email ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// DisableUser blocks an account from logging in. Admin accounts and the
// caller's own account cannot be disabled.
func (h *AdminHandler) DisableUser(c *fiber.Ctx) error {
	user, err := h.targetCustomer(c)
	if err != nil {
		return err
	}

	if err := h.db.Model(user).Updates(map[string]interface{}{
		"is_disabled": true,
		"updated_at":  time.Now(),
	}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteUser removes an account and its dependent data.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	user, err := h.targetCustomer(c)
	if err != nil {
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.First(&cart, "user_id = ?", user.ID).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.WishlistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserAddress{}).Error; err != nil {
			return err
		}
		// Orders stay for bookkeeping; they keep the user id of the
		// deleted account.
		return tx.Delete(user).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) targetCustomer(c *fiber.Ctx) (*models.User, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if session, ok := middleware.CurrentSession(c); ok && session.UserID == id {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot act on own account")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return nil, err
	}

	if user.Role == models.RoleAdmin {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot act on admin account")
	}

	return &user, nil
}
