package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mistrytech/orders-service/internal/app/orders/entity"
	"mistrytech/orders-service/internal/app/orders/infrastructure"
	catalogclient "mistrytech/orders-service/internal/app/orders/infrastructure/http"
	"mistrytech/orders-service/internal/app/orders/repository"
	"mistrytech/pkg/logger"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found in catalog")
	ErrVariantNotFound    = errors.New("variant not found in catalog")
	ErrEmptyOrderItem     = errors.New("order item references neither product nor variant")
	ErrInvalidOrderStatus = errors.New("invalid order status transition")
	ErrAccessDenied       = errors.New("access to order denied")
)

// OrderService обрабатывает бизнес-логику заказов.
// Координирует репозитории, Catalog Service и Kafka
type OrderService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	paymentRepo   repository.PaymentRepository
	catalogClient infrastructure.CatalogServiceClient
	producer      infrastructure.MessagePublisher
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	paymentRepo repository.PaymentRepository,
	catalogClient infrastructure.CatalogServiceClient,
	producer infrastructure.MessagePublisher,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		paymentRepo:   paymentRepo,
		catalogClient: catalogClient,
		producer:      producer,
	}
}

// CreateOrder создает новый заказ.
// Для каждой позиции цена снапшотится из каталога: берется текущая
// discounted_price товара или варианта. Суммы заказа сохраняются
// из запроса как есть, сверка с позициями не выполняется.
// userID nil для гостевого заказа
func (s *OrderService) CreateOrder(ctx context.Context, userID *int64, req *entity.CreateOrderRequest) (*entity.Order, error) {
	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item := entity.OrderItem{
			Quantity: itemReq.Quantity,
		}

		switch {
		case itemReq.VariantID != nil:
			variant, err := s.catalogClient.GetVariant(ctx, *itemReq.VariantID)
			if err != nil {
				if errors.Is(err, catalogclient.ErrCatalogNotFound) {
					return nil, ErrVariantNotFound
				}
				return nil, fmt.Errorf("failed to get variant from catalog: %w", err)
			}
			item.VariantID = itemReq.VariantID
			item.ProductID = &variant.ProductID
			item.Price = variant.DiscountedPrice
		case itemReq.ProductID != nil:
			product, err := s.catalogClient.GetProduct(ctx, *itemReq.ProductID)
			if err != nil {
				if errors.Is(err, catalogclient.ErrCatalogNotFound) {
					return nil, ErrProductNotFound
				}
				return nil, fmt.Errorf("failed to get product from catalog: %w", err)
			}
			item.ProductID = itemReq.ProductID
			item.Price = product.DiscountedPrice
		default:
			return nil, ErrEmptyOrderItem
		}

		items = append(items, item)
	}

	order := &entity.Order{
		UserID:         userID,
		Status:         entity.OrderStatusPending,
		GrossAmount:    req.GrossAmount,
		DiscountAmount: req.DiscountAmount,
		ShippingAmount: req.ShippingAmount,
		NetAmount:      req.NetAmount,
		Total:          req.Total,
		Items:          items,
		ShippingAddress: &entity.ShippingAddress{
			FullName:   req.ShippingAddress.FullName,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			Region:     req.ShippingAddress.Region,
			PostalCode: req.ShippingAddress.PostalCode,
			Phone:      req.ShippingAddress.Phone,
		},
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishOrderEvent(ctx, entity.OrderEvent{
		EventType:  entity.EventOrderCreated,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Total:      order.Total,
		Status:     order.Status,
		ItemsCount: len(order.Items),
		Timestamp:  time.Now(),
	})

	return order, nil
}

// GetOrder получает заказ с позициями, адресом и платежами.
// Доступ: владелец заказа или администратор
func (s *OrderService) GetOrder(ctx context.Context, orderID int64, userID *int64, isAdmin bool) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !canAccessOrder(order, userID, isAdmin) {
		return nil, ErrAccessDenied
	}

	return order, nil
}

// GetUserOrders получает все заказы пользователя, новые первыми
func (s *OrderService) GetUserOrders(ctx context.Context, userID int64) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus переводит заказ в новый статус с проверкой
// допустимости перехода и отправляет событие ORDER_UPDATED
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, userID *int64, isAdmin bool, newStatus entity.OrderStatus) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !canAccessOrder(order, userID, isAdmin) {
		return nil, ErrAccessDenied
	}

	if !isValidStatusTransition(order.Status, newStatus) {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = newStatus

	// Событие не критично для ответа, но нулевой items_count
	// из-за сбоя выборки должен попасть в лог
	items, err := s.orderItemRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		logger.Error().Err(err).Int64("order_id", orderID).Msg("Failed to load order items for event")
	}
	s.publishOrderEvent(ctx, entity.OrderEvent{
		EventType:  entity.EventOrderUpdated,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Total:      order.Total,
		Status:     order.Status,
		ItemsCount: len(items),
		Timestamp:  time.Now(),
	})

	return order, nil
}

// DeleteOrder удаляет заказ, позиции и адрес уходят каскадом
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64, userID *int64, isAdmin bool) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to get order: %w", err)
	}

	if !canAccessOrder(order, userID, isAdmin) {
		return ErrAccessDenied
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}

// CreatePayment регистрирует платеж по заказу.
// Платежный шлюз не подключен: запись создается в статусе pending
// с сгенерированным transaction_id
func (s *OrderService) CreatePayment(ctx context.Context, orderID int64, userID *int64, isAdmin bool, req *entity.CreatePaymentRequest) (*entity.Payment, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !canAccessOrder(order, userID, isAdmin) {
		return nil, ErrAccessDenied
	}

	payment := &entity.Payment{
		OrderID:       orderID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        entity.PaymentStatusPending,
		TransactionID: uuid.NewString(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, nil
}

// GetOrderPayments получает платежи по заказу
func (s *OrderService) GetOrderPayments(ctx context.Context, orderID int64, userID *int64, isAdmin bool) ([]entity.Payment, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !canAccessOrder(order, userID, isAdmin) {
		return nil, ErrAccessDenied
	}

	payments, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	return payments, nil
}

// HandleProductEvent обрабатывает событие каталога из Kafka.
// Удаление товара или варианта обнуляет ссылки в позициях заказов,
// снапшоты цен остаются, история заказов не искажается
func (s *OrderService) HandleProductEvent(ctx context.Context, event *entity.ProductEvent) error {
	switch event.EventType {
	case entity.EventProductDeleted:
		detached, err := s.orderItemRepo.DetachProduct(ctx, event.ProductID)
		if err != nil {
			return fmt.Errorf("failed to detach product %d: %w", event.ProductID, err)
		}
		logger.Info().
			Int64("product_id", event.ProductID).
			Int64("items_detached", detached).
			Msg("Detached deleted product from order items")
	case entity.EventVariantDeleted:
		if event.VariantID == nil {
			return fmt.Errorf("variant deleted event without variant_id for product %d", event.ProductID)
		}
		detached, err := s.orderItemRepo.DetachVariant(ctx, *event.VariantID)
		if err != nil {
			return fmt.Errorf("failed to detach variant %d: %w", *event.VariantID, err)
		}
		logger.Info().
			Int64("variant_id", *event.VariantID).
			Int64("items_detached", detached).
			Msg("Detached deleted variant from order items")
	case entity.EventProductUpdated:
		// Цены в позициях - снапшоты на момент покупки, пересчет не нужен
	default:
		logger.Warn().Str("event_type", event.EventType).Msg("Unknown catalog event type, skipping")
	}

	return nil
}

// publishOrderEvent отправляет событие заказа в Kafka.
// Ошибка публикации логируется и не прерывает запрос
func (s *OrderService) publishOrderEvent(ctx context.Context, event entity.OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("Failed to marshal order event")
		return
	}

	key := strconv.FormatInt(event.OrderID, 10)
	if err := s.producer.PublishMessage(ctx, key, payload); err != nil {
		logger.Error().
			Err(err).
			Str("event_type", event.EventType).
			Int64("order_id", event.OrderID).
			Msg("Failed to publish order event")
	}
}

func canAccessOrder(order *entity.Order, userID *int64, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	if order.UserID == nil || userID == nil {
		// Гостевые заказы доступны только администраторам
		return false
	}
	return *order.UserID == *userID
}

// isValidStatusTransition проверяет допустимость смены статуса заказа
func isValidStatusTransition(from, to entity.OrderStatus) bool {
	validTransitions := map[entity.OrderStatus][]entity.OrderStatus{
		entity.OrderStatusPending: {
			entity.OrderStatusConfirmed,
			entity.OrderStatusCancelled,
		},
		entity.OrderStatusConfirmed: {
			entity.OrderStatusShipped,
			entity.OrderStatusCancelled,
		},
		entity.OrderStatusShipped: {
			entity.OrderStatusDelivered,
		},
		entity.OrderStatusDelivered: {},
		entity.OrderStatusCancelled: {},
	}

	allowed, exists := validTransitions[from]
	if !exists {
		return false
	}

	for _, status := range allowed {
		if status == to {
			return true
		}
	}

	return false
}
