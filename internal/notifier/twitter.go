package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
)

const (
	// maxTweetRunes is Twitter's status length limit.
	maxTweetRunes = 280
	tweetPause    = 2 * time.Second
)

// TwitterCredentials are the OAuth1 user-context keys.
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether every key is set.
func (c TwitterCredentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// TwitterNotifier posts listings to Twitter
type TwitterNotifier struct {
	client *twitter.Client
	pause  time.Duration
}

// NewTwitterNotifier creates a Twitter notifier from OAuth1 credentials.
func NewTwitterNotifier(creds TwitterCredentials) (*TwitterNotifier, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{client: twitter.NewClient(httpClient), pause: tweetPause}, nil
}

// Notify posts one tweet per message, pausing between tweets.
func (n *TwitterNotifier) Notify(ctx context.Context, msgs []Message) error {
	for i, msg := range msgs {
		if _, _, err := n.client.Statuses.Update(FormatTweet(msg), nil); err != nil {
			return fmt.Errorf("failed to post tweet for %s: %w", msg.Link, err)
		}

		// Rate limiting: wait between tweets
		if i < len(msgs)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.pause):
			}
		}
	}
	return nil
}

// FormatTweet renders a message within the tweet length limit. The link is
// kept intact; details are cut first.
func FormatTweet(msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 %s\n", msg.Title)
	for _, d := range msg.Details {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	body := b.String()

	tail := "\n" + msg.Link + "\n#" + msg.Source
	room := maxTweetRunes - len([]rune(tail))
	if r := []rune(body); len(r) > room {
		body = ""
		if room > 3 {
			body = string(r[:room-3]) + "..."
		}
	}
	return body + tail
}
