package mail

import (
	"sync"

	"mintleaf/internal/config"
	"mintleaf/internal/logger"
)

// job is one queued outbound email.
type job struct {
	to       []string
	subject  string
	htmlBody string
	textBody string
}

// Dispatcher accepts email jobs from request handlers and delivers them on
// a background worker. Enqueueing never blocks a request: when the queue
// is full the job is dropped with a warning.
type Dispatcher struct {
	mailer      Mailer
	frontendURL string
	jobs        chan job
	wg          sync.WaitGroup
}

// NewDispatcher creates a Dispatcher and starts its worker goroutine.
func NewDispatcher(mailer Mailer, cfg *config.Config) *Dispatcher {
	d := &Dispatcher{
		mailer:      mailer,
		frontendURL: cfg.FrontendURL,
		jobs:        make(chan job, cfg.MailQueueSize),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		if err := d.mailer.Send(j.to, j.subject, j.htmlBody, j.textBody); err != nil {
			logger.Get().Errorw("failed to send email",
				"subject", j.subject,
				"error", err.Error(),
			)
			continue
		}
		logger.Get().Infow("email sent", "subject", j.subject)
	}
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.jobs <- j:
	default:
		logger.Get().Warnw("mail queue full, dropping email", "subject", j.subject)
	}
}

// EnqueueVerification queues the account verification email.
func (d *Dispatcher) EnqueueVerification(email, firstName, verificationToken string) {
	msg := verificationMessage(d.frontendURL, firstName, verificationToken)
	d.enqueue(job{
		to:       []string{email},
		subject:  msg.subject,
		htmlBody: msg.html,
		textBody: msg.text,
	})
}

// EnqueuePasswordReset queues the password reset email.
func (d *Dispatcher) EnqueuePasswordReset(email, firstName, resetToken string) {
	msg := passwordResetMessage(d.frontendURL, firstName, resetToken)
	d.enqueue(job{
		to:       []string{email},
		subject:  msg.subject,
		htmlBody: msg.html,
		textBody: msg.text,
	})
}

// Close stops accepting jobs and waits for the worker to drain the queue.
func (d *Dispatcher) Close() {
	close(d.jobs)
	d.wg.Wait()
}
