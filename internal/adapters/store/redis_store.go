package store

import (
	"context"
	"encoding/json"
	"errors"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/ports"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix = "planner:schedule:"

	DefaultMaxRetries = 5
)

// RedisConfig tunes the Redis schedule store.
type RedisConfig struct {
	// TTL expires every key of a schedule; zero keeps them forever.
	TTL        time.Duration
	MaxRetries int
}

// RedisScheduleStore persists schedules as one metadata key plus one key per
// planned date, so a reschedule only rewrites the touched date.
//
// Day updates use optimistic locking: the date key is WATCHed, fn runs on the
// read value and the write is committed in MULTI/EXEC. A concurrent writer
// aborts the transaction and the update is retried.
type RedisScheduleStore struct {
	client *redis.Client
	cfg    RedisConfig
	log    zerolog.Logger
}

func NewRedisScheduleStore(client *redis.Client, cfg RedisConfig, log zerolog.Logger) *RedisScheduleStore {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &RedisScheduleStore{client: client, cfg: cfg, log: log}
}

// scheduleMeta is the stored envelope of a Schedule without its plan.
type scheduleMeta struct {
	ID            string           `json:"id"`
	Depot         domain.Depot     `json:"depot"`
	TeamCount     int              `json:"team_count"`
	StartDate     domain.DateKey   `json:"start_date"`
	HorizonDays   int              `json:"horizon_days"`
	WeekAnchor    time.Time        `json:"week_anchor"`
	IncludeReturn bool             `json:"include_return"`
	Warnings      []domain.Warning `json:"warnings"`
	CreatedAt     time.Time        `json:"created_at"`
}

func metaKey(id string) string { return keyPrefix + id }

func daysKey(id string) string { return keyPrefix + id + ":days" }

func dayKey(id string, date domain.DateKey) string {
	return keyPrefix + id + ":day:" + string(date)
}

func (r *RedisScheduleStore) Save(ctx context.Context, s *domain.Schedule) error {
	if s == nil || s.ID == "" {
		return errors.New("save schedule: schedule id is empty")
	}

	meta, err := json.Marshal(scheduleMeta{
		ID:            s.ID,
		Depot:         s.Depot,
		TeamCount:     s.TeamCount,
		StartDate:     s.StartDate,
		HorizonDays:   s.HorizonDays,
		WeekAnchor:    s.WeekAnchor,
		IncludeReturn: s.IncludeReturn,
		Warnings:      s.Warnings,
		CreatedAt:     s.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("save schedule %q: marshal meta: %w", s.ID, err)
	}

	days := make(map[string][]byte, len(s.Plan))
	for date, routes := range s.Plan {
		b, err := json.Marshal(routes)
		if err != nil {
			return fmt.Errorf("save schedule %q: marshal %s: %w", s.ID, date, err)
		}
		days[string(date)] = b
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, metaKey(s.ID), meta, r.cfg.TTL)
		pipe.Del(ctx, daysKey(s.ID))
		for date, b := range days {
			pipe.Set(ctx, dayKey(s.ID, domain.DateKey(date)), b, r.cfg.TTL)
			pipe.SAdd(ctx, daysKey(s.ID), date)
		}
		if r.cfg.TTL > 0 {
			pipe.Expire(ctx, daysKey(s.ID), r.cfg.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save schedule %q: %w", s.ID, err)
	}

	return nil
}

func (r *RedisScheduleStore) Get(ctx context.Context, id string) (*domain.Schedule, error) {
	raw, err := r.client.Get(ctx, metaKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get schedule %q: %w", id, ports.ErrScheduleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %q: %w", id, err)
	}

	var meta scheduleMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("get schedule %q: decode meta: %w", id, err)
	}

	s := &domain.Schedule{
		ID:            meta.ID,
		Depot:         meta.Depot,
		TeamCount:     meta.TeamCount,
		StartDate:     meta.StartDate,
		HorizonDays:   meta.HorizonDays,
		WeekAnchor:    meta.WeekAnchor,
		IncludeReturn: meta.IncludeReturn,
		Warnings:      meta.Warnings,
		CreatedAt:     meta.CreatedAt,
		Plan:          domain.Plan{},
	}

	dates, err := r.client.SMembers(ctx, daysKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get schedule %q: list days: %w", id, err)
	}
	if len(dates) == 0 {
		return s, nil
	}

	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = dayKey(id, domain.DateKey(d))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get schedule %q: load days: %w", id, err)
	}

	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// Day key expired or was removed; the date reads as unplanned.
			r.log.Warn().Str("schedule_id", id).Str("date", dates[i]).Msg("schedule day missing")
			continue
		}
		var routes []domain.Route
		if err := json.Unmarshal([]byte(str), &routes); err != nil {
			return nil, fmt.Errorf("get schedule %q: decode %s: %w", id, dates[i], err)
		}
		s.Plan[domain.DateKey(dates[i])] = routes
	}

	return s, nil
}

func (r *RedisScheduleStore) UpdateDay(
	ctx context.Context,
	id string,
	date domain.DateKey,
	fn ports.DayUpdate,
) ([]domain.Route, error) {
	mk, dk := metaKey(id), dayKey(id, date)

	var result []domain.Route
	txf := func(tx *redis.Tx) error {
		rawMeta, err := tx.Get(ctx, mk).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("update schedule %q day %s: %w", id, date, ports.ErrScheduleNotFound)
		}
		if err != nil {
			return err
		}

		var current []domain.Route
		rawDay, err := tx.Get(ctx, dk).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			var meta scheduleMeta
			if err := json.Unmarshal(rawMeta, &meta); err != nil {
				return fmt.Errorf("decode meta: %w", err)
			}
			current = domain.EmptyRoutes(meta.Depot, meta.TeamCount)
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(rawDay, &current); err != nil {
				return fmt.Errorf("decode %s: %w", date, err)
			}
		}

		updated, err := fn(current)
		if err != nil {
			return err
		}

		b, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", date, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, dk, b, r.cfg.TTL)
			pipe.SAdd(ctx, daysKey(id), string(date))
			return nil
		})
		if err != nil {
			return err
		}

		result = updated
		return nil
	}

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, mk, dk)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		r.log.Debug().Str("schedule_id", id).Str("date", string(date)).Int("attempt", attempt).Msg("day update raced, retrying")
	}

	return nil, fmt.Errorf("update schedule %q day %s: %w", id, date, ports.ErrConflict)
}
