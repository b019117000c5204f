package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zoshlabs/checkout-service/internal/domain"
	"github.com/zoshlabs/checkout-service/internal/mailer"
)

// Service owns the payment order lifecycle: creation at checkout time and the
// one-shot reconciliation transition once the gateway reports a settlement.
type Service struct {
	logger        *slog.Logger
	paymentOrders domain.PaymentOrderRepository
	users         domain.UserRepository
	gateways      map[domain.PaymentMethod]domain.PaymentGateway
	mailer        mailer.Mailer
}

func NewService(
	logger *slog.Logger,
	paymentOrders domain.PaymentOrderRepository,
	users domain.UserRepository,
	gateways map[domain.PaymentMethod]domain.PaymentGateway,
	mailer mailer.Mailer,
) *Service {
	return &Service{
		logger:        logger,
		paymentOrders: paymentOrders,
		users:         users,
		gateways:      gateways,
		mailer:        mailer,
	}
}

// Gateway resolves the adapter owning the given payment method.
func (s *Service) Gateway(method domain.PaymentMethod) (domain.PaymentGateway, error) {
	gw, ok := s.gateways[method]
	if !ok {
		return nil, domain.ErrUnsupportedPaymentMethod
	}

	return gw, nil
}

// CreatePaymentOrder aggregates the orders into a PENDING payment order. The
// amount is fixed at creation and never recomputed.
func (s *Service) CreatePaymentOrder(
	ctx context.Context,
	user *domain.User,
	orders []domain.Order,
	cart *domain.Cart,
	method domain.PaymentMethod,
) (*domain.PaymentOrder, error) {

	gw, err := s.Gateway(method)
	if err != nil {
		return nil, err
	}

	po, err := domain.NewPaymentOrder(user, orders, cart, method, gw.Currency())
	if err != nil {
		return nil, err
	}

	err = s.paymentOrders.Create(ctx, po)
	if err != nil {
		return nil, err
	}

	return po, nil
}

func (s *Service) GetById(ctx context.Context, id int64) (*domain.PaymentOrder, error) {
	return s.paymentOrders.GetById(ctx, id)
}

func (s *Service) GetByPaymentLinkId(ctx context.Context, paymentLinkID string) (*domain.PaymentOrder, error) {
	return s.paymentOrders.GetByPaymentLinkId(ctx, paymentLinkID)
}

// AttachPaymentLink stores the gateway-side reference used as the reverse
// lookup key for reconciliation callbacks.
func (s *Service) AttachPaymentLink(ctx context.Context, po *domain.PaymentOrder, paymentLinkID string) error {
	err := s.paymentOrders.SetPaymentLink(ctx, po.ID, paymentLinkID)
	if err != nil {
		return err
	}

	po.PaymentLinkID = &paymentLinkID

	return nil
}

// Reconcile queries the gateway for the settlement of gatewayPaymentRef and
// applies the outcome to the payment order. It returns true when the payment
// was captured, false when the gateway reported a genuine failure. A gateway
// query failure is propagated as is and leaves the status PENDING so the
// caller can retry; it is never downgraded to FAILED.
//
// Repeated calls after a terminal state return the prior outcome without side
// effects.
func (s *Service) Reconcile(ctx context.Context, po *domain.PaymentOrder, gatewayPaymentRef string) (bool, error) {
	if po.Status.Terminal() {
		return po.Status == domain.PaymentOrderStatusSuccess, nil
	}

	gw, err := s.Gateway(po.Method)
	if err != nil {
		return false, err
	}

	settlement, err := gw.FetchSettlement(ctx, gatewayPaymentRef)
	if err != nil {
		return false, err
	}

	switch settlement.Status {
	case domain.SettlementCaptured:
		if !settlement.Amount.Equal(po.Amount) {
			s.logger.Warn("settled amount differs from payment order amount",
				"paymentOrderId", po.ID,
				"expected", po.Amount,
				"settled", settlement.Amount,
			)
			return false, fmt.Errorf("payment order %d: %w", po.ID, domain.ErrAmountMismatch)
		}

		final, applied, err := s.paymentOrders.Finalize(ctx, po.ID, domain.PaymentOrderStatusSuccess)
		if err != nil {
			return false, err
		}

		po.Status = final

		if applied {
			s.sendConfirmationMail(ctx, po)
		}

		return final == domain.PaymentOrderStatusSuccess, nil

	case domain.SettlementFailed:
		final, _, err := s.paymentOrders.Finalize(ctx, po.ID, domain.PaymentOrderStatusFailed)
		if err != nil {
			return false, err
		}

		po.Status = final

		return final == domain.PaymentOrderStatusSuccess, nil

	default:
		return false, fmt.Errorf("payment order %d: %w", po.ID, domain.ErrSettlementPending)
	}
}

func (s *Service) sendConfirmationMail(ctx context.Context, po *domain.PaymentOrder) {
	user, err := s.users.GetById(ctx, po.UserID)
	if err != nil {
		s.logger.Error("failed to load user for payment confirmation mail", "error", err, "userId", po.UserID)
		return
	}

	go func() {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic occurred during sending payment confirmation mail", "panic", err)
			}
		}()

		data := map[string]any{
			"name":           user.FullName(),
			"paymentOrderId": po.ID,
			"amount":         po.Amount.StringFixed(2),
			"currency":       po.Currency,
		}

		err := s.mailer.Send(user.Email, "payment_confirmation.tmpl", data)
		if err != nil {
			s.logger.Error("failed to send payment confirmation mail", "error", err)
		}
	}()
}
