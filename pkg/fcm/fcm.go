package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client sends reminder pushes through Firebase Cloud Messaging
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates a new FCM client from a service account file. An empty
// path falls back to application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Client initialized")
	return &Client{messagingClient: messagingClient}, nil
}

// Message is one push notification addressed to every device of a user
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// SendToDevices delivers msg to every token and returns the tokens FCM
// reports as no longer registered, so callers can forget them.
func (c *Client) SendToDevices(ctx context.Context, tokens []string, msg Message) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	multicast := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: msg.Title,
				Body:  msg.Body,
				Icon:  "/icon-192.png",
			},
		},
	}

	batch, err := c.messagingClient.SendEachForMulticast(ctx, multicast)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	log.Printf("[FCM] Multicast sent: %d success, %d failures", batch.SuccessCount, batch.FailureCount)

	var stale []string
	for i, resp := range batch.Responses {
		if resp.Success {
			continue
		}
		if messaging.IsUnregistered(resp.Error) || messaging.IsInvalidArgument(resp.Error) {
			stale = append(stale, tokens[i])
			continue
		}
		log.Printf("[FCM] Delivery to %s failed: %v", shorten(tokens[i]), resp.Error)
	}

	return stale, nil
}

func shorten(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:12] + "..."
}
