// Package events fans order lifecycle events out to an in-process actor that
// appends audit-log documents, keeping audit writes off the request path.
package events

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/localmart/pkg/models"
	"github.com/example/localmart/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type OrderPlaced struct {
	OrderID        string
	UserID         string
	ShopID         string
	TotalAmount    float64
	DeliveryCharge float64
	PlatformFee    float64
}

type OrderStatusChanged struct {
	OrderID string
	From    models.OrderStatus
	To      models.OrderStatus
}

// AuditWriter is the slice of the mongo repository the actor needs.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
}

const auditTimeout = 5 * time.Second

type auditActor struct {
	audit  AuditWriter
	logger *zap.Logger
}

func (a *auditActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *OrderPlaced:
		a.write(&repository.AuditLog{
			Service:  "order-service",
			Action:   "create_order",
			EntityID: msg.OrderID,
			Data: bson.M{
				"user_id":         msg.UserID,
				"shop_id":         msg.ShopID,
				"total_amount":    msg.TotalAmount,
				"delivery_charge": msg.DeliveryCharge,
				"platform_fee":    msg.PlatformFee,
			},
		})

	case *OrderStatusChanged:
		a.write(&repository.AuditLog{
			Service:  "order-service",
			Action:   "update_order_status",
			EntityID: msg.OrderID,
			Data: bson.M{
				"from": string(msg.From),
				"to":   string(msg.To),
			},
		})

	case *actor.Started:
		a.logger.Info("Audit actor started")

	case *actor.Stopped:
		a.logger.Info("Audit actor stopped")
	}
}

func (a *auditActor) write(log *repository.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	if err := a.audit.CreateAuditLog(ctx, log); err != nil {
		a.logger.Error("Failed to write audit log",
			zap.String("action", log.Action),
			zap.String("entity_id", log.EntityID),
			zap.Error(err))
	}
}

// Publisher spawns the audit actor and hands out a fire-and-forget Publish.
type Publisher struct {
	system *actor.ActorSystem
	pid    *actor.PID
}

func NewPublisher(audit AuditWriter, logger *zap.Logger) *Publisher {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &auditActor{audit: audit, logger: logger}
	})
	return &Publisher{
		system: system,
		pid:    system.Root.Spawn(props),
	}
}

func (p *Publisher) Publish(msg interface{}) {
	p.system.Root.Send(p.pid, msg)
}

func (p *Publisher) Stop() {
	p.system.Root.Stop(p.pid)
}
