package niche

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/lumigen/lumigen/pkg/email"
	"github.com/lumigen/lumigen/pkg/plan"
	"github.com/lumigen/lumigen/pkg/youtube"
)

const digestTopN = 5

// RecipientLister returns the addresses subscribed to the daily digest.
type RecipientLister interface {
	ListAlertRecipients(ctx context.Context) ([]string, error)
}

// Digest sends the daily hot-niche summary email.
type Digest struct {
	svc        *Service
	recipients RecipientLister
	sender     email.Sender
	log        *slog.Logger
}

// NewDigest wires the digest job.
func NewDigest(svc *Service, recipients RecipientLister, sender email.Sender, log *slog.Logger) *Digest {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Digest{svc: svc, recipients: recipients, sender: sender, log: log}
}

// Send builds today's feed and emails the top niches to every subscriber.
// A cache lock keeps multiple replicas from sending the same digest twice.
// The lock is taken only after the feed and recipient list are in hand, so a
// failed build leaves the day open for a later retry.
func (d *Digest) Send(ctx context.Context) error {
	date := d.svc.now().UTC().Format("2006-01-02")

	// The digest renders the pro view of the feed; recipients are already
	// filtered to paid plans.
	feed, err := d.svc.HotFeed(ctx, plan.TierPro, defaultRegion, "")
	if err != nil {
		return err
	}

	recipients, err := d.recipients.ListAlertRecipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		d.log.InfoContext(ctx, "no digest recipients", slog.String("date", date))
		return nil
	}

	won, err := d.svc.cache.SetNX(ctx, "niches:digest:"+date, "sent", feedCacheTTL)
	if err != nil {
		return err
	}
	if !won {
		d.log.DebugContext(ctx, "digest already sent", slog.String("date", date))
		return nil
	}

	body := renderDigest(feed)
	subject := fmt.Sprintf("Today's Hot YouTube Niches - %s", date)

	var failed int
	for _, to := range recipients {
		msg := email.Message{To: to, Subject: subject, BodyHTML: body, Tag: "niche-digest"}
		if err := d.sender.Send(ctx, msg); err != nil {
			failed++
			d.log.ErrorContext(ctx, "digest send failed", slog.String("to", to), slog.Any("error", err))
		}
	}

	d.log.InfoContext(ctx, "digest sent",
		slog.String("date", date),
		slog.Int("recipients", len(recipients)),
		slog.Int("failed", failed))
	return nil
}

// Run fires Send once a day at the given UTC hour until ctx is canceled.
func (d *Digest) Run(ctx context.Context, hourUTC int) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if d.svc.now().UTC().Hour() != hourUTC {
				continue
			}
			if err := d.Send(ctx); err != nil {
				d.log.ErrorContext(ctx, "digest run failed", slog.Any("error", err))
			}
		}
	}
}

func renderDigest(feed HotFeedResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h1>Hot YouTube Niches for %s</h1>", feed.Date))
	b.WriteString("<p>The fastest-moving faceless niches we found today:</p><ol>")

	for _, n := range feed.Niches[:min(len(feed.Niches), digestTopN)] {
		b.WriteString(fmt.Sprintf("<li><strong>%s</strong> (score %d, %s views/video avg)<br>%s</li>",
			html.EscapeString(n.Name),
			n.Score,
			html.EscapeString(youtube.FormatCount(n.AvgViews)),
			html.EscapeString(n.TrendingReason)))
	}

	b.WriteString("</ol><p>Open your dashboard for channel examples and full analysis.</p>")
	return b.String()
}
