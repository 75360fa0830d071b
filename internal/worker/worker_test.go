package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"callnote.app/server/internal/queue"
	"callnote.app/server/internal/worker"
)

var _ = Describe("Worker", func() {
	var (
		consumer  *mockConsumer
		processor *mockTaskProcessor
		w         *worker.Worker
		ctx       context.Context
	)

	msg := func(id string, attempt int) queue.Message {
		return queue.Message{ID: id, TaskType: queue.TaskTypeEnrichment, BotID: "bot-1", Attempt: attempt}
	}

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		processor = &mockTaskProcessor{}
		w = worker.New(consumer, processor, nil, worker.Config{MaxAttempts: 3})
	})

	It("acks a processed message", func() {
		Expect(w.HandleMessage(ctx, msg("1-0", 1))).To(Succeed())
		Expect(consumer.acked).To(ConsistOf("1-0"))
		Expect(consumer.requeued).To(BeEmpty())
	})

	It("requeues a failed message below the attempt limit", func() {
		processor.processFn = func(context.Context, queue.Message) error {
			return errors.New("provider timeout")
		}

		Expect(w.HandleMessage(ctx, msg("1-0", 1))).To(HaveOccurred())
		Expect(consumer.requeued).To(ConsistOf("1-0"))
		Expect(consumer.dlq).To(BeEmpty())
		Expect(consumer.acked).To(BeEmpty())
	})

	It("dead-letters once attempts are exhausted", func() {
		processor.processFn = func(context.Context, queue.Message) error {
			return errors.New("provider timeout")
		}

		Expect(w.HandleMessage(ctx, msg("1-0", 3))).To(HaveOccurred())
		Expect(consumer.dlq).To(ConsistOf("1-0"))
		Expect(consumer.requeued).To(BeEmpty())
	})

	It("dead-letters permanent failures on the first attempt", func() {
		processor.processFn = func(context.Context, queue.Message) error {
			return worker.Permanent(errors.New("not configured"))
		}

		Expect(w.HandleMessage(ctx, msg("1-0", 1))).To(HaveOccurred())
		Expect(consumer.dlq).To(ConsistOf("1-0"))
	})

	It("treats a panic as a retryable failure", func() {
		processor.processFn = func(context.Context, queue.Message) error {
			panic("nil map")
		}

		err := w.HandleMessage(ctx, msg("1-0", 1))
		Expect(err).To(MatchError(ContainSubstring("panic: nil map")))
		Expect(consumer.requeued).To(ConsistOf("1-0"))
	})

	It("drains batches until stopped", func() {
		consumer.batches = [][]queue.Message{{msg("1-0", 1), msg("2-0", 1)}}

		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()

		Eventually(consumer.ackedIDs).Should(ConsistOf("1-0", "2-0"))
		w.Stop()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("backs off after a read error and stops on cancel", func() {
		consumer.readErr = errors.New("redis down")
		w = worker.New(consumer, processor, nil, worker.Config{MaxAttempts: 3, ErrorBackoff: 10 * time.Millisecond})
		runCtx, cancel := context.WithCancel(ctx)

		done := make(chan error, 1)
		go func() { done <- w.Run(runCtx) }()

		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})
})
