package notification

import (
	"context"
	"errors"
	"fmt"

	"livebooking/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Sender is satisfied by *messaging.Client.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type ProviderLookup interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
}

type VenueLookup interface {
	GetByID(ctx context.Context, id string) (*models.HotelVilla, error)
}

// PushNotifier delivers booking events through Firebase Cloud Messaging.
type PushNotifier struct {
	sender     Sender
	providers  ProviderLookup
	venues     VenueLookup
	adminTopic string
	logger     *zap.Logger
}

func NewPushNotifier(sender Sender, providers ProviderLookup, venues VenueLookup, adminTopic string, logger *zap.Logger) (*PushNotifier, error) {
	if sender == nil || providers == nil || venues == nil {
		return nil, fmt.Errorf("push notifier initialization error: sender, provider or venue lookup is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PushNotifier{
		sender:     sender,
		providers:  providers,
		venues:     venues,
		adminTopic: adminTopic,
		logger:     logger,
	}, nil
}

// Notify sends every message the event produces. Recipients without a device token are skipped.
func (n *PushNotifier) Notify(ctx context.Context, event models.NotificationEvent, b models.Booking) error {
	var errs []error
	for _, m := range messagesFor(event, b) {
		msg, err := n.address(ctx, m, b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if msg == nil {
			n.logger.Debug("No push target, skipping",
				zap.String("event", string(event)),
				zap.String("audience", string(m.Audience)),
				zap.String("bookingId", b.ID))
			continue
		}
		msg.Data = map[string]string{
			"type":      string(event),
			"bookingId": b.ID,
			"status":    string(b.Status),
			"role":      string(m.Audience),
		}
		if _, err := n.sender.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("failed to send %s push to %s: %w", event, m.Audience, err))
		}
	}
	return errors.Join(errs...)
}

func (n *PushNotifier) address(ctx context.Context, m Message, b models.Booking) (*messaging.Message, error) {
	notification := &messaging.Notification{Title: m.Title, Body: m.Body}

	switch m.Audience {
	case AudienceProvider:
		p, err := n.providers.GetByID(ctx, b.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("could not find provider %s: %w", b.ProviderID, err)
		}
		if p.FCMToken == "" {
			return nil, nil
		}
		return highPriority(&messaging.Message{Token: p.FCMToken, Notification: notification}), nil

	case AudienceHotel:
		v, err := n.venues.GetByID(ctx, b.HotelVillaID)
		if err != nil {
			return nil, fmt.Errorf("could not find hotel/villa %s: %w", b.HotelVillaID, err)
		}
		if v.FCMToken == "" {
			return nil, nil
		}
		return &messaging.Message{Token: v.FCMToken, Notification: notification}, nil

	case AudienceAdmin:
		if n.adminTopic == "" {
			return nil, nil
		}
		return &messaging.Message{Topic: n.adminTopic, Notification: notification}, nil
	}
	return nil, nil
}

// highPriority makes provider requests ring through on both platforms.
func highPriority(msg *messaging.Message) *messaging.Message {
	msg.Android = &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			ChannelID: "high_priority",
			Sound:     "default",
		},
	}
	msg.APNS = &messaging.APNSConfig{
		Headers: map[string]string{
			"apns-priority":  "10",
			"apns-push-type": "alert",
		},
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				Sound: "default",
			},
		},
	}
	return msg
}
