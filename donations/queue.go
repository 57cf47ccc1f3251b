package donations

import (
	"context"
	"fmt"
	"time"

	"github.com/enriquebris/goconcurrentqueue"
	"go.vocdoni.io/dvote/log"
)

// DefaultThrottleTime is the default pause between queue processing rounds.
const DefaultThrottleTime = 200 * time.Millisecond

// sentBufferSize is the capacity of the Sent channel. Outcomes beyond the
// buffer are dropped rather than blocking the processing loop, so production
// can run without a reader while tests receive every outcome.
const sentBufferSize = 64

// Queue is a FIFO queue that decouples webhook acknowledgment from email
// delivery. Receipts are pushed by the webhook handler and processed in the
// background; each processed receipt is published once on the Sent channel
// with its Err field set to the delivery outcome. There are no local
// retries: redelivery is governed by the payment processor, not this
// process.
type Queue struct {
	Sent     chan *Receipt
	ctx      context.Context
	items    *goconcurrentqueue.FIFO
	throttle time.Duration
	mailer   *Mailer
}

// NewQueue creates a new queue with the provided throttle time and mailer.
func NewQueue(ctx context.Context, throttle time.Duration, mailer *Mailer) *Queue {
	if throttle == 0 {
		throttle = DefaultThrottleTime
	}
	return &Queue{
		Sent:     make(chan *Receipt, sentBufferSize),
		ctx:      ctx,
		items:    goconcurrentqueue.NewFIFO(),
		throttle: throttle,
		mailer:   mailer,
	}
}

// Push adds a donation receipt to the queue for dispatch.
// It logs the receipt details and returns any error encountered during enqueuing.
func (q *Queue) Push(receipt *Receipt) error {
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = time.Now()
	}
	log.Debugw("donation receipt enqueued",
		"to", receipt.Email,
		"amount", receipt.Amount,
		"type", receipt.Type())
	return q.items.Enqueue(receipt)
}

// dequeueReceipt attempts to dequeue a receipt from the queue.
// Returns nil and an error if dequeuing fails or the item is invalid.
func (q *Queue) dequeueReceipt() (*Receipt, error) {
	item, err := q.items.Dequeue()
	if err != nil {
		if err.Error() != "empty queue" {
			log.Warnw("dequeue error", "error", err)
		}
		return nil, err
	}

	receipt, ok := item.(*Receipt)
	if !ok {
		log.Warnw("invalid receipt type in queue")
		return nil, fmt.Errorf("invalid receipt type")
	}

	return receipt, nil
}

// processNextReceipt processes the next receipt in the queue. The delivery
// outcome is logged exactly once and published on the Sent channel.
func (q *Queue) processNextReceipt() {
	receipt, err := q.dequeueReceipt()
	if err != nil {
		return // Nothing to process or invalid receipt
	}

	receipt.Err = q.mailer.SendDonationEmails(q.ctx, receipt)
	if receipt.Err != nil {
		log.Warnw("donation emails failed",
			"to", receipt.Email,
			"amount", receipt.Amount,
			"error", receipt.Err)
	} else {
		log.Debugw("donation emails sent",
			"to", receipt.Email,
			"amount", receipt.Amount,
			"type", receipt.Type())
	}

	select {
	case q.Sent <- receipt:
	default:
	}
}

// Start starts the queue processing loop. It dequeues receipts and sends the
// donation emails for each of them until the context is canceled. Every
// processed receipt is published on the Sent channel with its outcome.
func (q *Queue) Start() {
	ticker := time.NewTicker(q.throttle)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.processNextReceipt()
		}
	}
}
