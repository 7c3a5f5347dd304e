package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// DryRunNotifier prints what would be sent without sending anything
type DryRunNotifier struct {
	w io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to w
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{w: w}
}

// Notify prints the messages that would be sent
func (n *DryRunNotifier) Notify(_ context.Context, msgs []Message) error {
	for i, msg := range msgs {
		text := FormatPlain(msg)
		fmt.Fprintf(n.w, "--- Message %d/%d ---\n", i+1, len(msgs))
		fmt.Fprintln(n.w, text)
		fmt.Fprintf(n.w, "\n(Length: %d characters)\n\n", len([]rune(text)))
	}
	return nil
}

// FormatPlain renders a message as plain text.
func FormatPlain(msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Yeni: %s (%s)\n", msg.Title, msg.Source)
	for _, d := range msg.Details {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteString(msg.Link)
	return b.String()
}
