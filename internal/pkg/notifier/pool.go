package notifier

import (
	"time"

	orderModel "storefront_api/internal/domain/order/model"
	userRepo "storefront_api/internal/domain/user/repository"
	"storefront_api/pkg/logger"
	"storefront_api/pkg/metrics"

	"go.uber.org/zap"
)

// Task is one queued notification.
type Task struct {
	Kind  Kind
	Order *orderModel.Order
	Retry int
}

// Pool dispatches notifications on background workers. Enqueueing never
// blocks; when the queue is full the task is dropped and logged.
type Pool struct {
	taskQueue  chan Task
	retryQueue chan Task
	mailer     Mailer
	users      userRepo.UserRepository
	adminEmail string
	workerNum  int
	maxRetry   int
}

func NewPool(mailer Mailer, users userRepo.UserRepository, adminEmail string, workerNum, bufferSize int) *Pool {
	return &Pool{
		taskQueue:  make(chan Task, bufferSize),
		retryQueue: make(chan Task, bufferSize/2),
		mailer:     mailer,
		users:      users,
		adminEmail: adminEmail,
		workerNum:  workerNum,
		maxRetry:   3,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerNum; i++ {
		go p.worker(i)
	}
	go p.retryWorker()
	logger.Log.Info("Notification pool started", zap.Int("workers", p.workerNum))
}

// Notify implements Notifier.
func (p *Pool) Notify(kind Kind, order *orderModel.Order) {
	if order == nil {
		return
	}
	select {
	case p.taskQueue <- Task{Kind: kind, Order: order}:
	default:
		logger.Log.Warn("Notification queue full, dropping task",
			zap.String("kind", string(kind)), zap.String("order_id", order.ID))
		p.logFailedTask(Task{Kind: kind, Order: order}, nil)
	}
}

func (p *Pool) worker(id int) {
	for task := range p.taskQueue {
		if err := p.processTask(task); err != nil {
			logger.Log.Warn("Notification dispatch failed",
				zap.Int("worker", id),
				zap.String("kind", string(task.Kind)),
				zap.String("order_id", task.Order.ID),
				zap.Error(err))

			if task.Retry < p.maxRetry {
				task.Retry++
				select {
				case p.retryQueue <- task:
				default:
					p.logFailedTask(task, err)
				}
			} else {
				p.logFailedTask(task, err)
			}
		}
	}
}

func (p *Pool) retryWorker() {
	for task := range p.retryQueue {
		// Delay grows with the attempt count to give the relay room.
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case p.taskQueue <- task:
		default:
			p.logFailedTask(task, nil)
		}
	}
}

func (p *Pool) processTask(task Task) error {
	to := p.resolveRecipient(task)
	if to == "" {
		// No address anywhere; nothing to deliver.
		logger.Log.Debug("Notification skipped, no recipient",
			zap.String("kind", string(task.Kind)), zap.String("order_id", task.Order.ID))
		return nil
	}

	subject, body := renderMessage(task.Kind, task.Order)

	if p.mailer == nil {
		logger.Log.Info("Notification (mail disabled)",
			zap.String("kind", string(task.Kind)),
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}
	return p.mailer.Send(to, subject, body)
}

// resolveRecipient picks the destination address, backfilling a missing
// contact email from the buyer's profile when one exists.
func (p *Pool) resolveRecipient(task Task) string {
	if task.Kind == KindAdminNewOrder {
		return p.adminEmail
	}

	if email := task.Order.ShippingInfo.Email; email != "" {
		return email
	}
	if task.Order.UserID != nil && p.users != nil {
		if user, err := p.users.GetByID(*task.Order.UserID); err == nil && user.Email != "" {
			return user.Email
		}
	}
	return ""
}

func (p *Pool) logFailedTask(task Task, err error) {
	metrics.NotificationFailuresTotal.WithLabelValues(string(task.Kind)).Inc()
	logger.Log.Error("Notification dropped permanently",
		zap.String("kind", string(task.Kind)),
		zap.String("order_id", task.Order.ID),
		zap.Error(err))
}
