package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	pkgkafka "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/kafka"
)

// Kafka topic constants for shop domain events.
const (
	TopicProductCreated    = "shop.product.created"
	TopicProductUpdated    = "shop.product.updated"
	TopicProductDeleted    = "shop.product.deleted"
	TopicReviewCreated     = "shop.review.created"
	TopicUserRegistered    = "shop.user.registered"
	TopicUserPasswordReset = "shop.user.password_reset"
)

// Aggregate type constants.
const (
	AggregateTypeProduct = "product"
	AggregateTypeUser    = "user"
)

// Source identifier for events originating from this backend.
const SourceShopBackend = "shop-backend"

// ProductData is the payload for product lifecycle events.
type ProductData struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	SalePrice float64 `json:"sale_price,omitempty"`
	Category  string  `json:"category"`
	Stock     int     `json:"stock"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ProductID string  `json:"product_id"`
	UserID    string  `json:"user_id"`
	Rating    float64 `json:"rating"`
}

// UserData is the payload for user lifecycle events.
type UserData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Publisher is the event publishing surface the services depend on.
// Publishing is best effort: a broker outage must never fail a request.
type Publisher interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id string) error
	PublishReviewCreated(ctx context.Context, data *ReviewCreatedData) error
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishUserPasswordReset(ctx context.Context, user *domain.User) error
}

// Producer publishes shop domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, product)
}

func (p *Producer) publishProduct(ctx context.Context, topic string, product *domain.Product) error {
	data := ProductData{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price,
		SalePrice: product.SalePrice,
		Category:  product.Category,
		Stock:     product.Stock,
	}

	event, err := pkgkafka.NewEvent(topic, product.ID, AggregateTypeProduct, SourceShopBackend, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	event, err := pkgkafka.NewEvent(TopicProductDeleted, id, AggregateTypeProduct, SourceShopBackend, ProductDeletedData{ID: id})
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, data *ReviewCreatedData) error {
	event, err := pkgkafka.NewEvent(TopicReviewCreated, data.ProductID, AggregateTypeProduct, SourceShopBackend, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	return nil
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	return p.publishUser(ctx, TopicUserRegistered, user)
}

// PublishUserPasswordReset publishes a user.password_reset event.
func (p *Producer) PublishUserPasswordReset(ctx context.Context, user *domain.User) error {
	return p.publishUser(ctx, TopicUserPasswordReset, user)
}

func (p *Producer) publishUser(ctx context.Context, topic string, user *domain.User) error {
	data := UserData{ID: user.ID, Email: user.Email}

	event, err := pkgkafka.NewEvent(topic, user.ID, AggregateTypeUser, SourceShopBackend, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	return nil
}

// NoopPublisher satisfies Publisher without a broker. Used when Kafka is
// disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishProductCreated(context.Context, *domain.Product) error { return nil }
func (NoopPublisher) PublishProductUpdated(context.Context, *domain.Product) error { return nil }
func (NoopPublisher) PublishProductDeleted(context.Context, string) error          { return nil }
func (NoopPublisher) PublishReviewCreated(context.Context, *ReviewCreatedData) error {
	return nil
}
func (NoopPublisher) PublishUserRegistered(context.Context, *domain.User) error    { return nil }
func (NoopPublisher) PublishUserPasswordReset(context.Context, *domain.User) error { return nil }
