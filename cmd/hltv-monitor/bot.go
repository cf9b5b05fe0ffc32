package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mocchh/hltv-monitor/internal/logger"
	"github.com/mocchh/hltv-monitor/internal/notify"
	"github.com/mocchh/hltv-monitor/internal/report"
	"github.com/mocchh/hltv-monitor/internal/schedule"
	"github.com/mocchh/hltv-monitor/internal/storage"
	"github.com/mocchh/hltv-monitor/internal/telegram"
)

const (
	cmdReport      = "/hltv"
	cmdSubscribe   = "/subscribe"
	cmdUnsubscribe = "/unsubscribe"
	cmdSetTime     = "/settime"

	reportCaption = "Here is your HLTV match preview:"

	// produceTimeout bounds one full report generation, fetch included.
	produceTimeout = 2 * time.Minute

	// pollRetryDelay spaces retries after a failed getUpdates call.
	pollRetryDelay = 5 * time.Second
)

// bot owns the subscriber set and handles chat commands and the scheduled
// delivery. The mutex guards subscribers, which the command loop and the
// scheduler goroutine both touch.
type bot struct {
	mu          sync.Mutex
	subscribers map[string]struct{}

	gen       *report.Generator
	notifier  notify.Notifier
	store     *storage.Store
	scheduler *schedule.Daily
}

func newBot(gen *report.Generator, notifier notify.Notifier, store *storage.Store, subs map[string]struct{}) *bot {
	if subs == nil {
		subs = make(map[string]struct{})
	}
	return &bot{
		subscribers: subs,
		gen:         gen,
		notifier:    notifier,
		store:       store,
	}
}

// poll runs the long-poll command loop until ctx is canceled.
func (b *bot) poll(ctx context.Context, client *telegram.Client, timeoutSec int) error {
	offset := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", nil)
			return nil
		default:
		}

		updates, err := client.GetUpdates(ctx, offset, timeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("shutting down", nil)
				return nil
			}
			logger.Error("polling updates failed", nil, err)
			time.Sleep(pollRetryDelay)
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			b.handleCommand(ctx, u.Message)
		}
	}
}

func (b *bot) handleCommand(ctx context.Context, msg *telegram.Message) {
	dest := strconv.FormatInt(msg.Chat.ID, 10)
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}

	// Commands may arrive as "/cmd@botname" in group chats.
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case cmdReport:
		logger.IncrCounter("commands.report")
		b.sendReport(ctx, dest)
	case cmdSubscribe:
		logger.IncrCounter("commands.subscribe")
		b.subscribe(dest)
	case cmdUnsubscribe:
		logger.IncrCounter("commands.unsubscribe")
		b.unsubscribe(dest)
	case cmdSetTime:
		logger.IncrCounter("commands.settime")
		b.setTime(dest, fields[1:])
	}
}

// sendReport handles the on-demand /hltv command: acknowledge, generate,
// deliver the image or the failure text.
func (b *bot) sendReport(ctx context.Context, dest string) {
	b.reply(dest, "Generating the latest match report, one moment...")

	ctx, cancel := context.WithTimeout(ctx, produceTimeout)
	defer cancel()

	path, err := b.gen.Produce(ctx)
	if err != nil {
		logger.Error("on-demand report failed", logger.Fields{"destination": dest}, err)
		b.reply(dest, report.UserMessage(err))
		return
	}

	if err := b.notifier.SendImage(dest, path, reportCaption); err != nil {
		logger.Error("sending report image failed", logger.Fields{"destination": dest}, err)
	}
}

func (b *bot) subscribe(dest string) {
	b.mu.Lock()
	if _, ok := b.subscribers[dest]; ok {
		b.mu.Unlock()
		b.reply(dest, "You are already subscribed to the daily HLTV report.")
		return
	}
	b.subscribers[dest] = struct{}{}
	err := b.store.SaveSubscribers(b.subscribers)
	b.mu.Unlock()

	if err != nil {
		logger.Error("saving subscribers failed", logger.Fields{"destination": dest}, err)
	}
	logger.Info("subscriber added", logger.Fields{"destination": dest})
	b.reply(dest, "Subscribed! You will receive the daily HLTV report from tomorrow on.")
}

func (b *bot) unsubscribe(dest string) {
	b.mu.Lock()
	if _, ok := b.subscribers[dest]; !ok {
		b.mu.Unlock()
		b.reply(dest, "You are not subscribed to the daily HLTV report.")
		return
	}
	delete(b.subscribers, dest)
	err := b.store.SaveSubscribers(b.subscribers)
	b.mu.Unlock()

	if err != nil {
		logger.Error("saving subscribers failed", logger.Fields{"destination": dest}, err)
	}
	logger.Info("subscriber removed", logger.Fields{"destination": dest})
	b.reply(dest, "Unsubscribed from the daily HLTV report.")
}

func (b *bot) setTime(dest string, args []string) {
	if len(args) != 1 {
		b.reply(dest, "Usage: /settime HH:MM")
		return
	}

	t, err := parseScheduleTime(args[0])
	if err != nil {
		b.reply(dest, "Usage: /settime HH:MM")
		return
	}

	if err := b.scheduler.SetTime(t.Hour, t.Minute); err != nil {
		b.reply(dest, "Usage: /settime HH:MM")
		return
	}
	if err := b.store.SaveScheduleTime(t); err != nil {
		logger.Error("saving schedule time failed", nil, err)
	}

	logger.Info("schedule time updated", logger.Fields{
		"time": fmt.Sprintf("%02d:%02d", t.Hour, t.Minute),
	})
	b.reply(dest, fmt.Sprintf("Daily report time set to %02d:%02d.", t.Hour, t.Minute))
}

// runScheduled is invoked by the daily scheduler: one report, delivered to
// every subscriber. Per-subscriber failures are logged and skipped.
func (b *bot) runScheduled() {
	dests := b.snapshotSubscribers()
	if len(dests) == 0 {
		logger.Info("no subscribers, skipping scheduled report", nil)
		return
	}

	logger.Info("sending scheduled report", logger.Fields{"subscribers": len(dests)})

	ctx, cancel := context.WithTimeout(context.Background(), produceTimeout)
	defer cancel()

	path, err := b.gen.Produce(ctx)
	if err != nil {
		logger.Error("scheduled report failed", nil, err)
		for _, dest := range dests {
			b.reply(dest, report.UserMessage(err))
		}
		return
	}

	for _, dest := range dests {
		if err := b.notifier.SendImage(dest, path, reportCaption); err != nil {
			logger.IncrCounter("deliveries.failed")
			logger.Error("scheduled delivery failed", logger.Fields{"destination": dest}, err)
			continue
		}
		logger.IncrCounter("deliveries.sent")
	}
}

func (b *bot) snapshotSubscribers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	dests := make([]string, 0, len(b.subscribers))
	for dest := range b.subscribers {
		dests = append(dests, dest)
	}
	return dests
}

func (b *bot) reply(dest, text string) {
	if err := b.notifier.SendText(dest, text); err != nil {
		logger.Error("sending reply failed", logger.Fields{"destination": dest}, err)
	}
}

// parseScheduleTime parses "HH:MM" into a validated schedule time.
func parseScheduleTime(s string) (storage.ScheduleTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return storage.ScheduleTime{}, fmt.Errorf("invalid time %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return storage.ScheduleTime{}, fmt.Errorf("invalid hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return storage.ScheduleTime{}, fmt.Errorf("invalid minute %q", parts[1])
	}

	t := storage.ScheduleTime{Hour: hour, Minute: minute}
	if !t.Valid() {
		return storage.ScheduleTime{}, fmt.Errorf("time %q out of range", s)
	}
	return t, nil
}
