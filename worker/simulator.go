package worker

import (
	"context"
	"encoding/json"
	"time"

	"foodflow/cache"
	"foodflow/logger"
	"foodflow/models"
	"foodflow/mq"
	"foodflow/services"
)

// Notifier is told about applied transitions (e.g. the Telegram admin
// channel). May be nil.
type Notifier interface {
	OrderStatusChanged(o *models.Order)
}

// Simulator stands in for a real kitchen/dispatch pipeline: it consumes
// order-placed events and walks each order through
// Paid -> Preparing -> On the Way -> Delivered, one step per fixed
// delay. It is the only writer of forward transitions; a user cancel
// racing a tick wins because every advance is a compare-and-set against
// a fresh read.
type Simulator struct {
	mqc       *mq.Client
	log       *logger.Logger
	notifier  Notifier
	stepDelay time.Duration

	fetch   func(ctx context.Context, id string) (*models.Order, error)
	advance func(ctx context.Context, id, from, to string) (bool, error)
	publish func(ctx context.Context, o *models.Order) error
	resume  func(ctx context.Context) ([]models.Order, error)
}

func New(mqc *mq.Client, cc *cache.Client, log *logger.Logger, stepDelay time.Duration, n Notifier) *Simulator {
	return &Simulator{
		mqc:       mqc,
		log:       log,
		notifier:  n,
		stepDelay: stepDelay,
		fetch:     services.GetOrder,
		advance: func(ctx context.Context, id, from, to string) (bool, error) {
			return services.AdvanceOrderStatus(ctx, id, from, to, "simulator")
		},
		publish: func(ctx context.Context, o *models.Order) error {
			payload, err := json.Marshal(models.TrackingUpdate{
				OrderID:   o.ID,
				Reference: o.Reference,
				Status:    o.Status,
				Step:      services.StatusStep(o.Status),
				Rider:     models.PlaceholderRider,
			})
			if err != nil {
				return err
			}
			return cc.PublishOrderUpdate(ctx, o.ID, payload)
		},
		resume: services.ListLiveOrders,
	}
}

// Run consumes order-placed events until the context is cancelled. Any
// orders still mid-chain from a previous run are picked up first.
func (s *Simulator) Run(ctx context.Context) error {
	live, err := s.resume(ctx)
	if err != nil {
		s.log.Error("simulator_resume", err, nil)
	}
	for _, o := range live {
		go s.drive(ctx, o.ID)
	}
	if len(live) > 0 {
		s.log.Info("simulator_resumed", map[string]any{"orders": len(live)})
	}

	deliveries, err := s.mqc.ConsumeOrderPlaced("status-simulator", 8)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var ev mq.OrderPlacedEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				s.log.Error("simulator_bad_event", err, nil)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
			s.log.Info("simulator_order_accepted", map[string]any{"order_id": ev.OrderID, "ref": ev.Reference})
			go s.drive(ctx, ev.OrderID)
		}
	}
}

// drive advances one order until it reaches a terminal status. Each
// tick re-reads the order, so a cancellation or another writer is
// observed before the next transition.
func (s *Simulator) drive(ctx context.Context, orderID string) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.stepDelay):
		}

		o, err := s.fetch(ctx, orderID)
		if err != nil {
			s.log.Error("simulator_fetch", err, map[string]any{"order_id": orderID})
			return
		}
		if services.IsTerminalStatus(o.Status) {
			return
		}
		next := services.NextStatus(o.Status)
		if next == "" {
			return
		}

		applied, err := s.advance(ctx, orderID, o.Status, next)
		if err != nil {
			s.log.Error("simulator_advance", err, map[string]any{"order_id": orderID})
			return
		}
		if !applied {
			// Someone else moved the order; re-read on the next tick.
			continue
		}

		o.Status = next
		if err := s.publish(ctx, o); err != nil {
			s.log.Error("simulator_publish", err, map[string]any{"order_id": orderID})
		}
		if s.notifier != nil {
			s.notifier.OrderStatusChanged(o)
		}
		s.log.Info("simulator_status_advanced", map[string]any{"order_id": orderID, "status": next})

		if services.IsTerminalStatus(next) {
			return
		}
	}
}
