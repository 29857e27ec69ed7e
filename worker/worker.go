package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"techsetu-website-api/database"
	"techsetu-website-api/models"
	"techsetu-website-api/queue"
	"techsetu-website-api/services/email"
)

// staleOrderAge is how long an unpaid gateway order may sit in "created"
// before reconciliation treats it as abandoned.
const staleOrderAge = 45 * time.Minute

// reconcileInterval spaces successive reconciliation sweeps.
const reconcileInterval = 15 * time.Minute

// Worker drains background jobs: receipt emails, lead notifications and
// order reconciliation.
type Worker struct {
	queue        *queue.Queue
	db           *database.Connection
	emailService email.EmailSender
	shutdown     chan struct{}
	isRunning    bool
}

func NewWorker(q *queue.Queue, db *database.Connection, es email.EmailSender) *Worker {
	return &Worker{
		queue:        q,
		db:           db,
		emailService: es,
		shutdown:     make(chan struct{}),
	}
}

// Start begins processing jobs with the given number of goroutines, plus one
// goroutine promoting delayed jobs.
func (w *Worker) Start(concurrency int) {
	w.isRunning = true

	for i := 0; i < concurrency; i++ {
		go w.processJobs(i)
	}
	go w.promoteDelayedJobs()

	log.Printf("Started %d worker goroutines", concurrency)
}

func (w *Worker) Stop() {
	if !w.isRunning {
		return
	}

	log.Println("Stopping worker...")
	close(w.shutdown)
	w.isRunning = false
}

func (w *Worker) processJobs(workerID int) {
	log.Printf("Worker %d starting", workerID)

	for {
		select {
		case <-w.shutdown:
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			cancel()

			if err != nil {
				log.Printf("Worker %d: Error dequeuing job: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if job == nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			log.Printf("Worker %d processing job %s of type %s", workerID, job.ID, job.Type)

			jobErr := w.processJob(job)
			if jobErr != nil {
				log.Printf("Worker %d: Error processing job %s: %v", workerID, job.ID, jobErr)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				failErr := w.queue.FailJob(ctx, job, jobErr)
				cancel()

				if failErr != nil {
					log.Printf("Worker %d: Error marking job %s as failed: %v", workerID, job.ID, failErr)
				}

				time.Sleep(time.Second)
				continue
			}

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			completeErr := w.queue.CompleteJob(ctx, job)
			cancel()

			if completeErr != nil {
				log.Printf("Worker %d: Error marking job %s as complete: %v", workerID, job.ID, completeErr)
			}
		}
	}
}

// promoteDelayedJobs periodically moves due delayed jobs to the main queue.
func (w *Worker) promoteDelayedJobs() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := w.queue.ProcessDelayedJobs(ctx); err != nil {
				log.Printf("Error promoting delayed jobs: %v", err)
			}
			cancel()
		}
	}
}

func (w *Worker) processJob(job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeSendReceipt:
		return w.processSendReceipt(job)
	case queue.JobTypeLeadNotification:
		return w.processLeadNotification(job)
	case queue.JobTypeReconcileOrders:
		return w.processReconcileOrders(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (w *Worker) processSendReceipt(job *queue.Job) error {
	orderID, ok := job.Data["order_id"].(string)
	if !ok || orderID == "" {
		return fmt.Errorf("invalid order_id in job data")
	}

	to, _ := job.Data["email"].(string)
	if to == "" {
		return fmt.Errorf("invalid email in job data")
	}
	name, _ := job.Data["name"].(string)

	order, err := w.db.GetPaymentOrder(orderID)
	if err != nil {
		return fmt.Errorf("failed to load order %s: %v", orderID, err)
	}

	sub, err := w.db.GetSubscriptionByID(order.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to load subscription %s: %v", order.SubscriptionID, err)
	}

	log.Printf("Sending receipt for order %s to %s", orderID, to)
	return w.emailService.SendReceiptEmail(to, name, order, sub)
}

func (w *Worker) processLeadNotification(job *queue.Job) error {
	lead := &models.ContactLead{}
	lead.ID, _ = job.Data["lead_id"].(string)
	lead.Name, _ = job.Data["name"].(string)
	lead.Email, _ = job.Data["email"].(string)
	lead.Phone, _ = job.Data["phone"].(string)
	lead.Company, _ = job.Data["company"].(string)
	lead.Service, _ = job.Data["service"].(string)
	lead.Message, _ = job.Data["message"].(string)

	if lead.Email == "" || lead.Name == "" {
		return fmt.Errorf("invalid lead data in job")
	}

	return w.emailService.SendLeadNotification(lead)
}

// processReconcileOrders sweeps gateway orders stuck in "created". Orders
// older than staleOrderAge are marked dismissed and their subscriptions
// failed, so abandoned checkouts do not pile up as pending.
func (w *Worker) processReconcileOrders(job *queue.Job) error {
	orders, err := w.db.GetStaleCreatedOrders(staleOrderAge)
	if err != nil {
		return fmt.Errorf("failed to list stale orders: %v", err)
	}

	for _, order := range orders {
		if err := w.db.SettleCheckout(order.OrderID, order.SubscriptionID,
			models.OrderStatusDismissed, models.SubscriptionStatusFailed); err != nil {
			return err
		}

		log.Printf("Reconciled abandoned order %s (subscription %s)", order.OrderID, order.SubscriptionID)
	}

	// Schedule the next sweep; the cycle is seeded once at startup.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.queue.EnqueueDelayed(ctx, queue.JobTypeReconcileOrders, nil, reconcileInterval); err != nil {
		log.Printf("Failed to schedule next order reconciliation: %v", err)
	}

	return nil
}
