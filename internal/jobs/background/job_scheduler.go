package background

import (
	"context"
	"log"
	"sync"
	"time"

	"dentamart/internal/models"
	"dentamart/internal/repositories"
	"dentamart/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// JobScheduler runs the recurring maintenance jobs: the subscription expiry
// sweep and the overdue commission invoice check.
type JobScheduler struct {
	scheduler        gocron.Scheduler
	clinicService    services.ClinicService
	invoiceRepo      repositories.CommissionInvoiceRepository
	notificationRepo repositories.NotificationRepository
	jobs             map[string]gocron.Job
	mu               sync.RWMutex
}

func NewJobScheduler(
	clinicService services.ClinicService,
	invoiceRepo repositories.CommissionInvoiceRepository,
	notificationRepo repositories.NotificationRepository,
) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:        scheduler,
		clinicService:    clinicService,
		invoiceRepo:      invoiceRepo,
		notificationRepo: notificationRepo,
		jobs:             make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	expiryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.sweepExpiredSubscriptions),
		gocron.WithName("subscription-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create subscription expiry job: %v", err)
	} else {
		js.jobs["subscription-expiry"] = expiryJob
	}

	overdueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.checkOverdueInvoices),
		gocron.WithName("overdue-invoice-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue invoice job: %v", err)
	} else {
		js.jobs["overdue-invoices"] = overdueJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepExpiredSubscriptions downgrades clinics whose paid window has closed.
func (js *JobScheduler) sweepExpiredSubscriptions() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := js.clinicService.DowngradeExpired(ctx)
	if err != nil {
		log.Printf("Subscription expiry sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Subscription expiry sweep downgraded %d clinics", count)
	}
}

// checkOverdueInvoices logs overdue commission invoices and leaves a
// notification for each supplier's contact. Overdue invoices stay pending;
// no status transition happens here.
func (js *JobScheduler) checkOverdueInvoices() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	overdue, err := js.invoiceRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("Overdue invoice check failed: %v", err)
		return
	}
	if len(overdue) == 0 {
		return
	}

	for _, invoice := range overdue {
		log.Printf("Commission invoice %s for supplier %s is overdue (due %s, amount %.2f)",
			invoice.InvoiceNumber, invoice.SupplierID, invoice.DueDate.Format("2006-01-02"), invoice.TotalCommission)

		n := &models.Notification{
			ID:          uuid.New(),
			RecipientID: invoice.SupplierID,
			Type:        models.NotificationInvoiceGenerated,
			Title:       "Commission invoice overdue",
			Body:        "Invoice " + invoice.InvoiceNumber + " is past its due date.",
		}
		if err := js.notificationRepo.Create(ctx, n); err != nil {
			log.Printf("Failed to store overdue notification for invoice %s: %v", invoice.InvoiceNumber, err)
		}
	}
}
