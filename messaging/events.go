package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AppointmentBookedEvent is emitted after a booking row is created, for
// downstream consumers (reception queue, notification sender).
type AppointmentBookedEvent struct {
	AppointmentID   string    `json:"appointment_id"`
	PatientID       string    `json:"patient_id"`
	DoctorID        string    `json:"doctor_id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	BookedAt        time.Time `json:"booked_at"`
}

func (rmq *RabbitMQBroker) PublishAppointmentBooked(ctx context.Context, evt AppointmentBookedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	// Use circuit breaker to protect RabbitMQ publish operation
	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
