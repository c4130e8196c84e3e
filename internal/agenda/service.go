package agenda

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/schedule"
)

// Options configures how a day is assembled.
type Options struct {
	// AtVenue shows break blocks. Remote attendees do not see them.
	AtVenue bool
	// HideEmptyFree removes free blocks that already ended or that no
	// unstarred session starts in.
	HideEmptyFree bool
	// LivestreamOnly counts only livestreamed sessions for free blocks.
	LivestreamOnly bool
	// Location defines the day boundaries. Defaults to time.Local.
	Location *time.Location
}

// Service builds merged conference days from a Repository.
type Service struct {
	repo     Repository
	resolver *schedule.Resolver
	opts     Options
	now      func() time.Time
}

// NewService creates a Service.
func NewService(repo Repository, resolver *schedule.Resolver, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Service{repo: repo, resolver: resolver, opts: opts, now: time.Now}
}

// SetNow overrides the clock used to hide past free blocks.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// Day loads the blocks and starred sessions starting on day and merges
// them into one schedule.
func (s *Service) Day(ctx context.Context, day time.Time) (*Day, error) {
	start := dateutil.TruncateToDay(day.In(s.opts.Location))
	end := start.AddDate(0, 0, 1)

	mutable, immutable, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}

	items, err := s.resolver.Merge(mutable, immutable)
	if err != nil {
		return nil, fmt.Errorf("merging schedule: %w", err)
	}

	for i, it := range items {
		if it.ConflictsWithPrevious() && i > 0 {
			slog.DebugContext(ctx, "schedule item conflicts with previous",
				slog.String("item", it.String()),
				slog.String("previous", items[i-1].String()),
			)
		}
	}

	items, err = s.fillFreeBlocks(ctx, items, start, end)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "schedule day built",
		slog.String("date", start.Format("2006-01-02")),
		slog.Int("items", len(items)),
		slog.Int("conflicts", schedule.Conflicts(items)),
	)
	return &Day{Date: start, Items: items}, nil
}

func (s *Service) load(ctx context.Context, start, end time.Time) (mutable, immutable []schedule.Item, err error) {
	blocks, err := s.repo.ListBlocks(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("listing blocks: %w", err)
	}
	for _, b := range blocks {
		if b.Type == schedule.TypeBreak && !s.opts.AtVenue {
			continue
		}
		if b.IsFree() {
			mutable = append(mutable, b.Item())
		} else {
			immutable = append(immutable, b.Item())
		}
	}

	sessions, err := s.repo.ListSessions(ctx, start, end, SessionFilter{OnlyInSchedule: true})
	if err != nil {
		return nil, nil, fmt.Errorf("listing sessions: %w", err)
	}
	for _, sess := range sessions {
		immutable = append(immutable, sess.Item())
	}
	return mutable, immutable, nil
}

// fillFreeBlocks counts the unstarred sessions that start inside each free
// block and drops free blocks nobody can use.
func (s *Service) fillFreeBlocks(ctx context.Context, items []schedule.Item, start, end time.Time) ([]schedule.Item, error) {
	hasFree := false
	for _, it := range items {
		if it.Type == schedule.TypeFree {
			hasFree = true
			break
		}
	}
	if !hasFree {
		return items, nil
	}

	counts, err := s.repo.CountSessionsByStart(ctx, start, end, s.opts.LivestreamOnly)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	now := s.now()
	out := items[:0]
	for _, it := range items {
		if it.Type != schedule.TypeFree {
			out = append(out, it)
			continue
		}

		n := 0
		for _, c := range counts {
			if !c.Start.Before(it.Start) && c.Start.Before(it.End) {
				n += c.Count
			}
		}

		if s.opts.HideEmptyFree {
			if it.End.Before(now) {
				slog.DebugContext(ctx, "removing free block in the past", slog.String("item", it.String()))
				continue
			}
			if n == 0 {
				slog.DebugContext(ctx, "removing free block with zero sessions", slog.String("item", it.String()))
				continue
			}
		}
		if n > 0 {
			it.Subtitle = SessionsAvailableText(n)
		}
		out = append(out, it)
	}
	return out, nil
}
