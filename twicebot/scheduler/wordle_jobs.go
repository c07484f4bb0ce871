package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/twicebot/services"
)

// Poster sends a plain message to a channel.
type Poster interface {
	Post(ctx context.Context, channelID snowflake.ID, content string) error
}

type dayAdvancer interface {
	AdvanceDay(ctx context.Context) (wordle.PeriodMeta, error)
}

type reminderSource interface {
	Reminders(ctx context.Context) ([]wordle.Reminder, error)
}

type periodRoller interface {
	RolloverWeek(ctx context.Context) (wordle.Rollover, error)
	Recover(ctx context.Context) (bool, error)
	Policy() wordle.ScoringPolicy
}

func postAll(ctx context.Context, p Poster, channelID snowflake.ID, content string) error {
	for _, chunk := range SplitMessage(content, MaxMessageLength) {
		if err := p.Post(ctx, channelID, chunk); err != nil {
			return fmt.Errorf("failed to post to channel %s: %w", channelID, err)
		}
	}
	return nil
}

// DailyJob advances the current round once per day.
type DailyJob struct {
	svc dayAdvancer
}

func NewDailyJob(svc dayAdvancer) *DailyJob {
	return &DailyJob{svc: svc}
}

func (j *DailyJob) Name() string { return "wordle_daily" }

func (j *DailyJob) Run(ctx context.Context) error {
	meta, err := j.svc.AdvanceDay(ctx)
	if err != nil {
		return err
	}
	slog.Info("Wordle round advanced",
		slog.String("type", "job"),
		slog.Int("current_round", meta.CurrentRoundIndex))
	return nil
}

// ReminderJob posts each player's missing rounds for the week.
type ReminderJob struct {
	svc          reminderSource
	poster       Poster
	channelID    snowflake.ID
	linkTemplate string
}

func NewReminderJob(svc reminderSource, poster Poster, channelID snowflake.ID, linkTemplate string) *ReminderJob {
	return &ReminderJob{
		svc:          svc,
		poster:       poster,
		channelID:    channelID,
		linkTemplate: linkTemplate,
	}
}

func (j *ReminderJob) Name() string { return "wordle_reminder" }

func (j *ReminderJob) Run(ctx context.Context) error {
	reminders, err := j.svc.Reminders(ctx)
	if err != nil {
		return err
	}
	content := wordle.FormatReminders(reminders, j.linkTemplate)
	if content == "" {
		return nil
	}
	return postAll(ctx, j.poster, j.channelID, content)
}

// RolloverJob closes the week, announces the standings and winners and
// archives the result.
type RolloverJob struct {
	svc       periodRoller
	poster    Poster
	channelID snowflake.ID
	archiver  *Archiver
}

func NewRolloverJob(svc periodRoller, poster Poster, channelID snowflake.ID, archiver *Archiver) *RolloverJob {
	return &RolloverJob{
		svc:       svc,
		poster:    poster,
		channelID: channelID,
		archiver:  archiver,
	}
}

func (j *RolloverJob) Name() string { return "wordle_rollover" }

func (j *RolloverJob) Run(ctx context.Context) error {
	result, err := j.svc.RolloverWeek(ctx)
	if err != nil {
		if errors.Is(err, wordle.ErrRolloverInProgress) {
			return err
		}
		if recovered, rerr := j.svc.Recover(ctx); rerr != nil {
			return errors.Join(err, fmt.Errorf("recovery failed: %w", rerr))
		} else if recovered {
			slog.Warn("Recovered interrupted rollover",
				slog.String("type", "job"),
				slog.String("name", j.Name()))
		}
		return err
	}

	if len(result.Standings) == 0 {
		return nil
	}

	var imageURL string
	if j.archiver != nil {
		imageURL = j.archiver.Archive(ctx, result, j.svc.Policy().WindowSize)
	}

	return postAll(ctx, j.poster, j.channelID, RolloverAnnouncement(result, imageURL))
}

// RolloverAnnouncement is the channel message for a closed week.
func RolloverAnnouncement(r wordle.Rollover, imageURL string) string {
	content := wordle.FormatLeaderboard(r.Standings, wordle.FieldCurrentPeriod)
	if winners := wordle.FormatWinners(r.Winners); winners != "" {
		content += "\n\n" + winners
	}
	if imageURL != "" {
		content += "\n" + imageURL
	}
	return content
}

type presenceUpdater interface {
	Update(ctx context.Context, client services.PresenceSetter) error
}

// PresenceJob rotates the bot's listening activity.
type PresenceJob struct {
	presence presenceUpdater
	client   services.PresenceSetter
}

func NewPresenceJob(presence presenceUpdater, client services.PresenceSetter) *PresenceJob {
	return &PresenceJob{presence: presence, client: client}
}

func (j *PresenceJob) Name() string { return "presence" }

func (j *PresenceJob) Run(ctx context.Context) error {
	return j.presence.Update(ctx, j.client)
}
