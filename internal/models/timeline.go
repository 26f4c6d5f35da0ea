package models

// Timeline milestone keys, in display order.
const (
	StepOnHold           = "on_hold"
	StepPaymentSubmitted = "payment_submitted"
	StepPaymentReceived  = "payment_received"
	StepShipped          = "shipped"
	StepDelivered        = "delivered"
)

// TimelineStep is one milestone in the order progress view.
type TimelineStep struct {
	Key            string `json:"key"`
	Completed      bool   `json:"completed"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// OrderTimeline maps an order's payment and shipping statuses onto the fixed
// milestone sequence. Pure; exact string matches only. A shipped or delivered
// order implies the payment milestones regardless of the stored payment
// status, and a rejected payment never advances past payment_submitted.
func OrderTimeline(paymentStatus, shippingStatus, trackingNumber string) []TimelineStep {
	shipped := shippingStatus == ShippingShipped || shippingStatus == ShippingDelivered
	delivered := shippingStatus == ShippingDelivered

	paymentSubmitted := paymentStatus == PaymentSubmitted ||
		paymentStatus == PaymentReceived ||
		paymentStatus == PaymentRejected ||
		shipped
	paymentReceived := (paymentStatus == PaymentReceived || shipped) &&
		paymentStatus != PaymentRejected

	steps := []TimelineStep{
		{Key: StepOnHold, Completed: true},
		{Key: StepPaymentSubmitted, Completed: paymentSubmitted},
		{Key: StepPaymentReceived, Completed: paymentReceived},
		{Key: StepShipped, Completed: shipped},
		{Key: StepDelivered, Completed: delivered},
	}

	if trackingNumber != "" {
		steps[3].TrackingNumber = trackingNumber
	}

	return steps
}
