package events

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/peershare/service-rental/internal/domain/booking"
	"github.com/peershare/service-rental/internal/kafka"
)

// TopicBookingEvents carries the booking lifecycle events.
const TopicBookingEvents = "rental.bookings"

// Booking lifecycle event types.
const (
	BookingRequested = "booking.requested"
	BookingApproved  = "booking.approved"
	BookingRejected  = "booking.rejected"
)

// BookingEvent is the payload shared by all booking lifecycle events.
type BookingEvent struct {
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	OwnerID    int64     `json:"owner_id"`
	BookerID   int64     `json:"booker_id"`
	Status     string    `json:"status"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits booking lifecycle events to Kafka. Publish failures are
// logged and swallowed; an event drop never fails the request that caused it.
type Publisher struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewPublisher creates a Publisher on top of the given producer.
func NewPublisher(producer *kafka.Producer, logger *zap.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

// PublishBookingRequested emits booking.requested for a freshly created booking.
func (p *Publisher) PublishBookingRequested(ctx context.Context, b *bookingDomain.Booking) {
	p.publish(ctx, BookingRequested, b)
}

// PublishBookingResolved emits booking.approved or booking.rejected depending
// on the booking's status after the owner's decision.
func (p *Publisher) PublishBookingResolved(ctx context.Context, b *bookingDomain.Booking) {
	eventType := BookingRejected
	if b.Status() == bookingDomain.StatusApproved {
		eventType = BookingApproved
	}
	p.publish(ctx, eventType, b)
}

func (p *Publisher) publish(ctx context.Context, eventType string, b *bookingDomain.Booking) {
	evt := BookingEvent{
		BookingID:  b.ID(),
		ItemID:     b.Item().ID,
		OwnerID:    b.Item().OwnerID,
		BookerID:   b.BookerID(),
		Status:     b.Status().String(),
		StartTime:  b.StartTime(),
		EndTime:    b.EndTime(),
		OccurredAt: time.Now().UTC(),
	}

	ce, err := kafka.NewCloudEvent("service-rental", eventType, evt)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	key := strconv.FormatInt(b.ID(), 10)
	if err := p.producer.PublishEvent(ctx, TopicBookingEvents, key, ce); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
