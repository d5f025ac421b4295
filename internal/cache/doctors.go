// Package cache keeps doctor slot universes in Redis in front of the
// record store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"clinic-appointments-api/internal/model"
)

const keyPrefix = "clinic:doctor:"

// Source is the authoritative doctor lookup behind the cache.
type Source interface {
	Doctor(ctx context.Context, id int64) (*model.Doctor, error)
}

// Doctors is a read-through cache. Redis failures degrade to the source;
// they are logged, never returned.
type Doctors struct {
	rdb *redis.Client
	src Source
	ttl time.Duration
	log zerolog.Logger
}

func NewDoctors(rdb *redis.Client, src Source, ttl time.Duration, log zerolog.Logger) *Doctors {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Doctors{rdb: rdb, src: src, ttl: ttl, log: log}
}

// entry omits the password hash; only what availability and listings read
// is cached.
type entry struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	AvailableTimes []string `json:"available_times"`
}

func key(id int64) string { return keyPrefix + strconv.FormatInt(id, 10) }

func (c *Doctors) Doctor(ctx context.Context, id int64) (*model.Doctor, error) {
	if c.rdb == nil {
		return c.src.Doctor(ctx, id)
	}

	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var e entry
		if jerr := json.Unmarshal(raw, &e); jerr == nil {
			return &model.Doctor{
				ID: e.ID, Name: e.Name, Specialty: e.Specialty, Email: e.Email,
				Phone: e.Phone, AvailableTimes: e.AvailableTimes,
			}, nil
		}
		c.log.Warn().Int64("doctor_id", id).Msg("dropping undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Int64("doctor_id", id).Msg("doctor cache read failed")
	}

	d, err := c.src.Doctor(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, d)
	return d, nil
}

func (c *Doctors) put(ctx context.Context, d *model.Doctor) {
	b, err := json.Marshal(entry{
		ID: d.ID, Name: d.Name, Specialty: d.Specialty, Email: d.Email,
		Phone: d.Phone, AvailableTimes: d.AvailableTimes,
	})
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(d.ID), b, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Int64("doctor_id", d.ID).Msg("doctor cache write failed")
	}
}

// Invalidate drops the cached entry after the doctor changed or was removed.
func (c *Doctors) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(id)).Err(); err != nil {
		c.log.Warn().Err(err).Int64("doctor_id", id).Msg("doctor cache invalidate failed")
	}
}
