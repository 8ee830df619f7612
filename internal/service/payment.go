package service

import (
	"context"

	"github.com/aura-fashion/shop-backend/internal/gateway"
	"github.com/aura-fashion/shop-backend/internal/logging"
	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/mykafka"
	"github.com/aura-fashion/shop-backend/internal/repo"
)

const topicOrderEvents = "order-events"

type PaymentService struct {
	Repo     *repo.GormRepo
	Gateway  gateway.PaymentGateway
	Producer *mykafka.Producer
}

type VerifyPaymentInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// VerifyAndApply runs the full reconciliation for one payment callback and
// returns whether the order is paid, plus a client-facing status string.
// Every rejection is logged with the expected and received values; the order
// row is only written on full success, in a single conditional update.
func (s *PaymentService) VerifyAndApply(ctx context.Context, order *models.Order, in VerifyPaymentInput) (bool, string) {
	l := logging.FromContext(ctx).With("order_id", order.ID.String(), "payment_id", in.PaymentID)

	if s.Gateway == nil {
		l.Error("payment callback received without a configured gateway")
		return false, "payments not configured"
	}

	// Correlation: adopt the gateway order id if checkout never stored one
	// (the create call can fail after the local order exists), otherwise it
	// must match.
	switch order.RazorpayOrderID {
	case "":
		if err := s.Repo.SetRazorpayOrderID(ctx, order.ID, in.GatewayOrderID); err != nil {
			l.Error("adopt gateway order id failed", "error", err)
			return false, "verification failed"
		}
		order.RazorpayOrderID = in.GatewayOrderID
	case in.GatewayOrderID:
	default:
		l.Warn("gateway order id mismatch",
			"expected", order.RazorpayOrderID, "got", in.GatewayOrderID)
		return false, "order mismatch"
	}

	if !s.Gateway.VerifySignature(in.GatewayOrderID, in.PaymentID, in.Signature) {
		l.Warn("payment signature rejected")
		return false, "invalid signature"
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		l.Info("payment already applied")
		return true, "already paid"
	}

	payment, err := s.Gateway.FetchPayment(ctx, in.PaymentID)
	if err != nil {
		l.Error("payment fetch failed", "error", err)
		return false, "verification failed"
	}

	if payment.Status != gateway.StatusCaptured {
		l.Warn("payment not captured", "status", payment.Status)
		return false, "payment not captured"
	}
	if payment.Amount != order.TotalAmount {
		l.Warn("payment amount mismatch",
			"expected", order.TotalAmount, "got", payment.Amount)
		return false, "amount mismatch"
	}
	if payment.OrderID != order.RazorpayOrderID {
		l.Warn("payment belongs to another gateway order",
			"expected", order.RazorpayOrderID, "got", payment.OrderID)
		return false, "order mismatch"
	}

	applied, err := s.Repo.ApplyPaymentSuccess(ctx, order.ID, in.PaymentID, in.Signature)
	if err != nil {
		l.Error("apply payment failed", "error", err)
		return false, "verification failed"
	}
	if !applied {
		// A concurrent callback won the race; the order is paid either way.
		l.Info("payment already applied")
		return true, "already paid"
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.OrderStatus = models.OrderStatusProcessing
	order.RazorpayPaymentID = in.PaymentID
	order.RazorpaySignature = in.Signature

	// Published only on the first successful apply, so duplicate callbacks
	// never re-send the confirmation.
	if err := s.Producer.PublishEvent(ctx, topicOrderEvents, "order.payment_confirmed", map[string]any{
		"order_id":   order.ID.String(),
		"payment_id": in.PaymentID,
		"amount":     payment.Amount,
	}); err != nil {
		l.Warn("publish payment event failed", "error", err)
	}

	l.Info("payment verified", "amount", payment.Amount, "method", payment.Method)
	return true, "paid"
}
