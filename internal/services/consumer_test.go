package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"alfredoptarigan/resume-shortlister/internal/models"
)

type fakeAcknowledger struct {
	mu      sync.Mutex
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) state() (acked, nacked, requeue bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acked, f.nacked, f.requeue
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

type stubWorker struct {
	accept bool
	jobs   []QueuedJob
}

func (s *stubWorker) Start(ctx context.Context) {}
func (s *stubWorker) Stop()                     {}

func (s *stubWorker) EnqueueJob(job QueuedJob) bool {
	if s.accept {
		s.jobs = append(s.jobs, job)
	}
	return s.accept
}

func delivery(ack amqp.Acknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestDecodeScreeningJob(t *testing.T) {
	job, err := DecodeScreeningJob([]byte(`{"id":"7","prefix":"jobs/7/","skills":["go"],"experience":3,"education":"bsc"}`))
	require.NoError(t, err)
	assert.Equal(t, "7", job.ID)
	assert.Equal(t, "3", job.Experience.String())

	job, err = DecodeScreeningJob([]byte(`{"prefix":"p/","skills":["go"],"experience":"4","education":"bsc"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "4", job.Experience.String())

	_, err = DecodeScreeningJob([]byte(`{not json`))
	require.Error(t, err)
}

func TestHandleDeliveryAcksOnlyAfterProcessing(t *testing.T) {
	ack := &fakeAcknowledger{}
	worker := &stubWorker{accept: true}
	consumer := NewQueueConsumer(nil, "screenings", worker, &recordingPublisher{}, zaptest.NewLogger(t))

	consumer.HandleDelivery(context.Background(), delivery(ack, `{"id":"1","prefix":"a/","skills":["go"],"experience":1,"education":"bsc"}`))

	acked, nacked, _ := ack.state()
	assert.False(t, acked, "a queued job must not be acked before it runs")
	assert.False(t, nacked)
	require.Len(t, worker.jobs, 1)
	assert.Equal(t, "a/", worker.jobs[0].Job.Prefix)

	require.NoError(t, worker.jobs[0].Ack())
	acked, _, _ = ack.state()
	assert.True(t, acked)
}

func TestHandleDeliveryRequeuesJobsBufferedAtShutdown(t *testing.T) {
	jobs := &scriptedJobService{started: make(chan string, 3), block: true}
	ctx, cancel := context.WithCancel(context.Background())
	worker := NewWorker(jobs, 1, zaptest.NewLogger(t))
	worker.Start(ctx)
	consumer := NewQueueConsumer(nil, "screenings", worker, &recordingPublisher{}, zaptest.NewLogger(t))

	acks := []*fakeAcknowledger{{}, {}, {}}
	for i, id := range []string{"a", "b", "c"} {
		body := `{"id":"` + id + `","prefix":"p/","skills":["go"],"experience":1,"education":"bsc"}`
		consumer.HandleDelivery(ctx, delivery(acks[i], body))
	}
	select {
	case <-jobs.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first job never started")
	}

	cancel()
	worker.Stop()

	for i, ack := range acks {
		acked, nacked, requeue := ack.state()
		assert.False(t, acked, "delivery %d", i)
		assert.True(t, nacked, "delivery %d", i)
		assert.True(t, requeue, "delivery %d", i)
	}
}

func TestHandleDeliveryDropsMalformedJob(t *testing.T) {
	ack := &fakeAcknowledger{}
	publisher := &recordingPublisher{}
	worker := &stubWorker{accept: true}
	consumer := NewQueueConsumer(nil, "screenings", worker, publisher, nil)

	consumer.HandleDelivery(context.Background(), delivery(ack, `{"id":"9","experience":{}}`))

	_, nacked, requeue := ack.state()
	assert.True(t, nacked)
	assert.False(t, requeue)
	assert.Empty(t, worker.jobs)
	assert.Equal(t, []models.ScreeningStatus{models.StatusFailed}, publisher.statuses())
	assert.Equal(t, "9", publisher.last().JobID)
}

func TestHandleDeliveryRequeuesWhenWorkerStopped(t *testing.T) {
	ack := &fakeAcknowledger{}
	consumer := NewQueueConsumer(nil, "screenings", &stubWorker{}, &recordingPublisher{}, nil)

	consumer.HandleDelivery(context.Background(), delivery(ack, `{"id":"1","prefix":"a/","skills":["go"],"experience":1,"education":"bsc"}`))

	acked, nacked, requeue := ack.state()
	assert.True(t, nacked)
	assert.True(t, requeue)
	assert.False(t, acked)
}
