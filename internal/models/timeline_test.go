package models

import "testing"

func completedKeys(steps []TimelineStep) []string {
	var keys []string
	for _, s := range steps {
		if s.Completed {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

func TestOrderTimeline(t *testing.T) {
	tests := []struct {
		name           string
		paymentStatus  string
		shippingStatus string
		wantCompleted  []string
	}{
		{
			name:           "on hold",
			paymentStatus:  PaymentOnHold,
			shippingStatus: ShippingPending,
			wantCompleted:  []string{StepOnHold},
		},
		{
			name:           "payment submitted",
			paymentStatus:  PaymentSubmitted,
			shippingStatus: ShippingPending,
			wantCompleted:  []string{StepOnHold, StepPaymentSubmitted},
		},
		{
			name:           "payment received pending shipment",
			paymentStatus:  PaymentReceived,
			shippingStatus: ShippingPending,
			wantCompleted:  []string{StepOnHold, StepPaymentSubmitted, StepPaymentReceived},
		},
		{
			name:           "payment rejected",
			paymentStatus:  PaymentRejected,
			shippingStatus: ShippingPending,
			wantCompleted:  []string{StepOnHold, StepPaymentSubmitted},
		},
		{
			name:           "shipped",
			paymentStatus:  PaymentReceived,
			shippingStatus: ShippingShipped,
			wantCompleted:  []string{StepOnHold, StepPaymentSubmitted, StepPaymentReceived, StepShipped},
		},
		{
			name:           "shipped implies payment milestones",
			paymentStatus:  PaymentSubmitted,
			shippingStatus: ShippingShipped,
			wantCompleted:  []string{StepOnHold, StepPaymentSubmitted, StepPaymentReceived, StepShipped},
		},
		{
			name:           "delivered",
			paymentStatus:  PaymentReceived,
			shippingStatus: ShippingDelivered,
			wantCompleted:  []string{StepOnHold, StepPaymentSubmitted, StepPaymentReceived, StepShipped, StepDelivered},
		},
		{
			name:           "unknown statuses",
			paymentStatus:  "garbage",
			shippingStatus: "garbage",
			wantCompleted:  []string{StepOnHold},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := OrderTimeline(tt.paymentStatus, tt.shippingStatus, "")

			if len(steps) != 5 {
				t.Fatalf("expected 5 steps, got %d", len(steps))
			}

			wantOrder := []string{StepOnHold, StepPaymentSubmitted, StepPaymentReceived, StepShipped, StepDelivered}
			for i, step := range steps {
				if step.Key != wantOrder[i] {
					t.Fatalf("step %d: expected key %s, got %s", i, wantOrder[i], step.Key)
				}
			}

			got := completedKeys(steps)
			if len(got) != len(tt.wantCompleted) {
				t.Fatalf("expected completed %v, got %v", tt.wantCompleted, got)
			}
			for i := range got {
				if got[i] != tt.wantCompleted[i] {
					t.Fatalf("expected completed %v, got %v", tt.wantCompleted, got)
				}
			}
		})
	}
}

func TestOrderTimelineTrackingNumber(t *testing.T) {
	steps := OrderTimeline(PaymentReceived, ShippingShipped, "TRK-123")

	for _, step := range steps {
		if step.Key == StepShipped {
			if step.TrackingNumber != "TRK-123" {
				t.Errorf("expected tracking number on shipped step, got %q", step.TrackingNumber)
			}
		} else if step.TrackingNumber != "" {
			t.Errorf("unexpected tracking number on %s", step.Key)
		}
	}
}

func TestOrderTimelineIsPure(t *testing.T) {
	first := OrderTimeline(PaymentReceived, ShippingPending, "")
	second := OrderTimeline(PaymentReceived, ShippingPending, "")

	for i := range first {
		if first[i] != second[i] {
			t.Fatal("repeated calls with equal input differ")
		}
	}
}
