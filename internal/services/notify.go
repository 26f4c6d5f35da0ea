package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/storefront/internal/utils"
)

// NotifyService pushes storefront events to the admin Telegram chat.
// Best-effort: a missing token or a failed send never fails the request
// that triggered it.
type NotifyService struct {
	botToken    string
	adminChatID string
}

// NewNotifyService creates a NotifyService.
func NewNotifyService(botToken, adminChatID string) *NotifyService {
	return &NotifyService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendToAdmin sends a message to the admin chat.
func (s *NotifyService) SendToAdmin(text string) error {
	if s.botToken == "" || s.adminChatID == "" {
		log.Println("[Notify] Telegram not configured, skipping")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    s.adminChatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Notify] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Notify] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// OrderNotification carries the order summary for the admin chat.
type OrderNotification struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Items         []OrderItemNotification
	TotalAmount   float64
	Currency      string
	PaymentMethod string
}

// OrderItemNotification is one line of the order summary.
type OrderItemNotification struct {
	Title    string
	Quantity int
	Price    float64
}

// NotifyNewOrder announces a freshly placed order.
func (s *NotifyService) NotifyNewOrder(order OrderNotification) error {
	var itemsList strings.Builder
	for i, item := range order.Items {
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			item.Title,
			item.Quantity,
			utils.FormatPrice(item.Price, order.Currency),
			utils.FormatPrice(item.Price*float64(item.Quantity), order.Currency),
		))
	}

	message := fmt.Sprintf(`<b>🛒 New order</b>
<b>Order:</b> %s
<b>Customer:</b> %s (%s)
<b>Items:</b>
%s
<b>Total:</b> %s
<b>Payment:</b> %s`,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerEmail,
		itemsList.String(),
		utils.FormatPrice(order.TotalAmount, order.Currency),
		order.PaymentMethod,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

// NotifyPaymentReviewed announces an admin approve/reject decision.
func (s *NotifyService) NotifyPaymentReviewed(orderNumber, decision string, amount float64, currency string) error {
	message := fmt.Sprintf(`<b>💳 Payment %s</b>
<b>Order:</b> %s
<b>Amount:</b> %s`,
		decision,
		orderNumber,
		utils.FormatPrice(amount, currency),
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
