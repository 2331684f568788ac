package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type SlackPayload struct {
	Text string `json:"text"`
}

// SendSlack posts text to an incoming webhook. An empty URL means Slack
// isn't configured and the message is skipped.
func SendSlack(ctx context.Context, client *resty.Client, webhookURL, text string) error {
	if webhookURL == "" {
		return nil
	}
	res, err := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(SlackPayload{Text: text}).
		Post(webhookURL)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("slack webhook error: %d", res.StatusCode())
	}
	return nil
}

func newSlackClient() *resty.Client {
	return resty.New().SetTimeout(10 * time.Second)
}
