// Package queue consumes out-of-band delivery callbacks from the transport.
package queue

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"
)

// BounceEvent is the provider callback payload: the message id the
// transport assigned at acceptance plus the bounce classification.
type BounceEvent struct {
	MessageID     string `json:"messageId"`
	BounceType    string `json:"bounceType"`
	BounceSubType string `json:"bounceSubType"`
}

// BounceRecorder is implemented by the delivery reconciler.
type BounceRecorder interface {
	RecordBounce(messageID, bounceType, bounceSubType string) error
}

const bounceQueue = "bounce_events"

// BounceConsumer drains bounce callbacks from AMQP and hands them to the
// reconciler. Every delivery is acked: the callback is not redeliverable by
// this component, so a failed event is logged and dropped rather than
// requeued.
type BounceConsumer struct {
	URL      string
	Recorder BounceRecorder
}

func NewBounceConsumer(url string, recorder BounceRecorder) *BounceConsumer {
	return &BounceConsumer{URL: url, Recorder: recorder}
}

// Run blocks consuming bounce events until the connection drops.
func (c *BounceConsumer) Run() error {
	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		bounceQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	log.Println("📩 Bounce consumer running, waiting for callbacks...")
	for d := range msgs {
		c.handle(d.Body)
		d.Ack(false)
	}
	return nil
}

func (c *BounceConsumer) handle(body []byte) {
	var event BounceEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Println("⚠️ Invalid bounce payload:", err)
		return
	}
	if event.MessageID == "" {
		log.Println("⚠️ Bounce payload missing messageId, dropping")
		return
	}

	if err := c.Recorder.RecordBounce(event.MessageID, event.BounceType, event.BounceSubType); err != nil {
		log.Println("⚠️ Failed to record bounce:", err)
	}
}
