package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// AppointmentAction is the kind of change broadcast after commit.
type AppointmentAction string

const (
	AppointmentActionCreate  AppointmentAction = "create"
	AppointmentActionUpdate  AppointmentAction = "update"
	AppointmentActionReorder AppointmentAction = "reorder"
)

// AppointmentEvent is the payload sent to listeners of a tenant's appointment board.
type AppointmentEvent struct {
	TenantID      uuid.UUID `json:"tenant_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name,omitempty"`
	PatientName   string    `json:"patient_name,omitempty"`
	Date          string    `json:"date"`
	Slot          string    `json:"slot"`
	QueueOrder    int       `json:"queue_order"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// AppointmentNotifier receives committed appointment changes. Calls are best-effort.
type AppointmentNotifier interface {
	NotifyAppointmentEvent(ctx context.Context, action AppointmentAction, event AppointmentEvent) error
}

type redisAppointmentNotifier struct {
	client        *redis.Client
	channelPrefix string
}

// NewRedisAppointmentNotifier publishes events on "<channelPrefix>:<tenant id>".
func NewRedisAppointmentNotifier(client *redis.Client, channelPrefix string) AppointmentNotifier {
	return &redisAppointmentNotifier{
		client:        client,
		channelPrefix: channelPrefix,
	}
}

func (n *redisAppointmentNotifier) NotifyAppointmentEvent(ctx context.Context, action AppointmentAction, event AppointmentEvent) error {
	message, err := json.Marshal(struct {
		Action AppointmentAction `json:"action"`
		AppointmentEvent
	}{Action: action, AppointmentEvent: event})
	if err != nil {
		return err
	}

	channel := fmt.Sprintf("%s:%s", n.channelPrefix, event.TenantID)
	return n.client.Publish(ctx, channel, message).Err()
}

type logAppointmentNotifier struct {
	log *logrus.Logger
}

// NewLogAppointmentNotifier writes each event as a structured log line.
func NewLogAppointmentNotifier(log *logrus.Logger) AppointmentNotifier {
	return &logAppointmentNotifier{log: log}
}

func (n *logAppointmentNotifier) NotifyAppointmentEvent(ctx context.Context, action AppointmentAction, event AppointmentEvent) error {
	n.log.WithFields(logrus.Fields{
		"action":         action,
		"tenant_id":      event.TenantID,
		"appointment_id": event.AppointmentID,
		"doctor_id":      event.DoctorID,
		"date":           event.Date,
		"slot":           event.Slot,
		"queue_order":    event.QueueOrder,
		"status":         event.Status,
	}).Info("Appointment event")
	return nil
}

type fanOutNotifier struct {
	log       *logrus.Logger
	notifiers []AppointmentNotifier
	timeout   time.Duration
}

// NewFanOutNotifier calls every notifier in turn, each under its own timeout.
// Failures are logged and never returned.
func NewFanOutNotifier(log *logrus.Logger, timeout time.Duration, notifiers ...AppointmentNotifier) AppointmentNotifier {
	return &fanOutNotifier{
		log:       log,
		notifiers: notifiers,
		timeout:   timeout,
	}
}

func (n *fanOutNotifier) NotifyAppointmentEvent(ctx context.Context, action AppointmentAction, event AppointmentEvent) error {
	for _, notifier := range n.notifiers {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		if err := notifier.NotifyAppointmentEvent(notifyCtx, action, event); err != nil {
			n.log.Warnf("Failed to notify appointment %s event for %s: %+v", action, event.AppointmentID, err)
		}
		cancel()
	}
	return nil
}
