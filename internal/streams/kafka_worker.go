package streams

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/seekr-io/seekr/internal/domain/cluster"
	"github.com/seekr-io/seekr/internal/domain/subscription"
	"github.com/seekr-io/seekr/internal/platform/logging"
	"github.com/seekr-io/seekr/internal/shutdown"
)

// fetchErrorBackoff throttles the consume loop after a transient read
// error so a broker outage does not spin the worker hot.
const fetchErrorBackoff = time.Second

// reader abstracts kafka.Reader so kafkaWorker can be exercised without a
// live broker.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaWorker is the Kafka-backed Worker: it long-polls its subscription's
// topic via a consumer-group reader and commits offsets as it goes. The
// spec leaves message handling unconstrained; this implementation logs
// each message at debug level, matching the documented out-of-scope
// internal loop.
type kafkaWorker struct {
	clusterID      int64
	subscriptionID int64
	topic          string

	r      reader
	logger logging.Logger
	latch  *shutdown.Latch
}

// NewKafkaWorker builds a Worker consuming s.TopicName on c, using a
// consumer group derived from the cluster's configured group id and the
// subscription id so concurrent subscriptions on the same cluster do not
// share an offset position.
func NewKafkaWorker(c *cluster.Cluster, s *subscription.Subscription) (Worker, error) {
	bootstrap := c.ConfigValue(cluster.ConfigBootstrapServers, cluster.DefaultBootstrapServers)
	groupID := c.ConfigValue(cluster.ConfigGroupID, cluster.DefaultGroupID)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: splitAddrs(bootstrap),
		GroupID: fmt.Sprintf("%s.%d", groupID, s.ID),
		Topic:   s.TopicName,
	})

	return &kafkaWorker{
		clusterID:      c.ID,
		subscriptionID: s.ID,
		topic:          s.TopicName,
		r:              r,
		logger: logging.Default().Named("streams.worker").With(
			logging.Int64("cluster_id", c.ID),
			logging.Int64("subscription_id", s.ID),
		),
		latch: shutdown.New(),
	}, nil
}

func (w *kafkaWorker) Latch() *shutdown.Latch { return w.latch }

// Run consumes until the latch begins. A single background goroutine
// cancels the fetch context the moment shutdown starts; FetchMessage
// unblocks immediately since kafka-go honours context cancellation.
func (w *kafkaWorker) Run() {
	w.logger.Info("stream worker starting", logging.String("topic", w.topic))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.latch.WaitBegin()
		cancel()
	}()

	for ctx.Err() == nil {
		msg, err := w.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			w.logger.Warn("fetch message failed", logging.Err(err))
			select {
			case <-time.After(fetchErrorBackoff):
			case <-ctx.Done():
			}
			continue
		}

		w.logger.Debug("message received",
			logging.Int("partition", msg.Partition),
			logging.Int64("offset", msg.Offset))

		if err := w.r.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			w.logger.Warn("commit message failed", logging.Err(err))
		}
	}

	_ = w.r.Close()
	w.latch.Complete()
	w.logger.Info("stream worker stopped")
}

func splitAddrs(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		out = []string{s}
	}
	return out
}
