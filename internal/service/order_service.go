package service

import (
	"fmt"
	"strings"

	"earnly/internal/domain"
	"earnly/internal/models"
	"earnly/internal/notify"
	"earnly/internal/repository"
)

// OrderService stores free-text user orders and forwards them to the owner
// channel for manual handling.
type OrderService struct {
	orders   *repository.OrderRepository
	notifier *notify.Dispatcher
}

func NewOrderService(orders *repository.OrderRepository, notifier *notify.Dispatcher) *OrderService {
	return &OrderService{orders: orders, notifier: notifier}
}

func (s *OrderService) PlaceOrder(userID int64, username, text string) (*models.Order, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: order text required", domain.ErrValidation)
	}
	order := &models.Order{UserID: userID, Username: username, Text: text, Status: domain.OrderStatusNew}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}
	s.notifier.SendChannel("order_placed",
		fmt.Sprintf("New order #%d from @%s (%d):\n%s", order.ID, username, userID, text))
	if err := s.orders.UpdateStatus(order.ID, domain.OrderStatusPosted); err != nil {
		return order, err
	}
	order.Status = domain.OrderStatusPosted
	return order, nil
}

func (s *OrderService) ListByUser(userID int64, limit int) ([]models.Order, error) {
	return s.orders.ListByUser(userID, limit)
}
