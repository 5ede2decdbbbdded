package seatmap

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Every key of a showtime carries the showtime id as a hash tag, so each
// script only touches keys of one cluster slot. A seat map hash stores a booked
// seat as "B" and a held seat as "H:<hold id>:<expiry unix ms>"; missing seats
// are available. The per showtime expiry zset scores hold ids by expiry.
const (
	bookedValue = "B"
	expiringKey = "seatmap:expiring"
)

const luaHelpers = `
local function split(s)
	local out = {}
	for label in string.gmatch(s, "[^,]+") do
		table.insert(out, label)
	end
	return out
end

local function is_taken(v, now)
	if not v then
		return false
	end
	if v == "B" then
		return true
	end
	local exp = tonumber(string.match(v, ":(%d+)$"))
	return exp ~= nil and exp > now
end
`

// KEYS = seatmap hash, hold hash, expiry zset
// ARGV = holdID, nowMs, expiresMs, showtimeID, userID, email, createdMs, labels...
var tryHoldScript = redis.NewScript(luaHelpers + `
	local now = tonumber(ARGV[2])
	local conflicts = {}

	for i = 8, #ARGV do
		if is_taken(redis.call("HGET", KEYS[1], ARGV[i]), now) then
			table.insert(conflicts, ARGV[i])
		end
	end

	if #conflicts > 0 then
		table.insert(conflicts, 1, "CONFLICT")
		return conflicts
	end

	local held = "H:" .. ARGV[1] .. ":" .. ARGV[3]
	local seats = {}

	for i = 8, #ARGV do
		redis.call("HSET", KEYS[1], ARGV[i], held)
		table.insert(seats, ARGV[i])
	end

	redis.call("HSET", KEYS[2],
		"showtime_id", ARGV[4],
		"user_id", ARGV[5],
		"email", ARGV[6],
		"expires_at", ARGV[3],
		"created_at", ARGV[7],
		"seats", table.concat(seats, ","))
	redis.call("PEXPIREAT", KEYS[2], ARGV[3])
	redis.call("ZADD", KEYS[3], ARGV[3], ARGV[1])

	return {"OK"}
`)

// KEYS = seatmap hash, hold hash, expiry zset
// ARGV = holdID, nowMs
var commitScript = redis.NewScript(luaHelpers + `
	local seats = redis.call("HGET", KEYS[2], "seats")
	local expRaw = redis.call("HGET", KEYS[2], "expires_at")

	if not seats or not expRaw or tonumber(expRaw) <= tonumber(ARGV[2]) then
		return {err = "hold expired"}
	end

	local held = "H:" .. ARGV[1] .. ":" .. expRaw
	local labels = split(seats)

	for _, label in ipairs(labels) do
		if redis.call("HGET", KEYS[1], label) ~= held then
			return {err = "hold expired"}
		end
	end

	for _, label in ipairs(labels) do
		redis.call("HSET", KEYS[1], label, "B")
	end

	redis.call("DEL", KEYS[2])
	redis.call("ZREM", KEYS[3], ARGV[1])

	return labels
`)

// KEYS = seatmap hash, hold hash, expiry zset
// ARGV = holdID
var releaseHoldScript = redis.NewScript(luaHelpers + `
	local seats = redis.call("HGET", KEYS[2], "seats")
	local expRaw = redis.call("HGET", KEYS[2], "expires_at")

	if seats and expRaw then
		local held = "H:" .. ARGV[1] .. ":" .. expRaw
		for _, label in ipairs(split(seats)) do
			if redis.call("HGET", KEYS[1], label) == held then
				redis.call("HDEL", KEYS[1], label)
			end
		end
	end

	redis.call("DEL", KEYS[2])
	redis.call("ZREM", KEYS[3], ARGV[1])

	return "OK"
`)

// KEYS = seatmap hash
// ARGV = labels...
var releaseSeatsScript = redis.NewScript(`
	for i = 1, #ARGV do
		if redis.call("HGET", KEYS[1], ARGV[i]) == "B" then
			redis.call("HDEL", KEYS[1], ARGV[i])
		end
	end

	return "OK"
`)

// KEYS = seatmap hash
// ARGV = nowMs, labels...
var bookScript = redis.NewScript(luaHelpers + `
	local now = tonumber(ARGV[1])
	local conflicts = {}

	for i = 2, #ARGV do
		if is_taken(redis.call("HGET", KEYS[1], ARGV[i]), now) then
			table.insert(conflicts, ARGV[i])
		end
	end

	if #conflicts > 0 then
		table.insert(conflicts, 1, "CONFLICT")
		return conflicts
	end

	for i = 2, #ARGV do
		redis.call("HSET", KEYS[1], ARGV[i], "B")
	end

	return {"OK"}
`)

// Returns the live seat entries of a showtime as a flat label/state list and
// drops the expired hold entries it finds on the way.
// KEYS = seatmap hash
// ARGV = nowMs
var seatStatesScript = redis.NewScript(luaHelpers + `
	local now = tonumber(ARGV[1])
	local entries = redis.call("HGETALL", KEYS[1])
	local result = {}
	local expired = {}

	for i = 1, #entries, 2 do
		local label, v = entries[i], entries[i + 1]
		if v == "B" then
			table.insert(result, label)
			table.insert(result, "BOOKED")
		elseif is_taken(v, now) then
			table.insert(result, label)
			table.insert(result, "HELD")
		else
			table.insert(expired, label)
		end
	end

	if #expired > 0 then
		redis.call("HDEL", KEYS[1], unpack(expired))
	end

	return result
`)

// Hold hashes expire on their own through PEXPIREAT, so a sweep only has to
// clear the expiry index and the stale seat entries of one showtime.
// KEYS = seatmap hash, expiry zset
// ARGV = nowMs
var sweepScript = redis.NewScript(luaHelpers + `
	local now = tonumber(ARGV[1])
	local n = redis.call("ZREMRANGEBYSCORE", KEYS[2], "-inf", now)

	if n > 0 then
		local entries = redis.call("HGETALL", KEYS[1])
		for i = 1, #entries, 2 do
			local v = entries[i + 1]
			if v ~= "B" and not is_taken(v, now) then
				redis.call("HDEL", KEYS[1], entries[i])
			end
		end
	end

	return n
`)

// RedisStore keeps seat state in Redis. Every mutation is a single Lua
// script, so it is atomic across all application instances.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

type RedisOption func(*RedisStore)

func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func seatMapKey(showtimeID int64) string {
	return fmt.Sprintf("seatmap:{%d}", showtimeID)
}

func expiryKey(showtimeID int64) string {
	return fmt.Sprintf("seatmap:{%d}:expiry", showtimeID)
}

func holdKey(showtimeID int64, holdID string) string {
	return fmt.Sprintf("seatmap:{%d}:hold:%s", showtimeID, holdID)
}

// holdIndexKey maps a hold id to its showtime, since checkout only knows the hold.
func holdIndexKey(holdID string) string {
	return fmt.Sprintf("hold:%s", holdID)
}

func (s *RedisStore) SeatStates(
	ctx context.Context,
	showtimeID int64,
	layout domain.SeatLayout) (domain.SeatStates, error) {

	entries, err := seatStatesScript.Run(ctx, s.client, []string{seatMapKey(showtimeID)}, s.now().UnixMilli()).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to run seat states script: %w", err)
	}

	states := make(domain.SeatStates, layout.Total())
	for _, label := range layout.Labels() {
		states[label] = domain.SeatAvailable
	}

	for i := 0; i+1 < len(entries); i += 2 {
		if _, ok := states[entries[i]]; ok {
			states[entries[i]] = domain.SeatState(entries[i+1])
		}
	}

	return states, nil
}

func (s *RedisStore) TryHold(ctx context.Context, hold *domain.Hold) error {
	keys := []string{seatMapKey(hold.ShowtimeID), holdKey(hold.ShowtimeID, hold.ID), expiryKey(hold.ShowtimeID)}

	args := []any{
		hold.ID,
		s.now().UnixMilli(),
		hold.ExpiresAt.UnixMilli(),
		hold.ShowtimeID,
		hold.UserID,
		hold.Email,
		hold.CreatedAt.UnixMilli(),
	}
	for _, label := range hold.Seats {
		args = append(args, label)
	}

	res, err := tryHoldScript.Run(ctx, s.client, keys, args...).StringSlice()
	if err != nil {
		return fmt.Errorf("failed to run hold script: %w", err)
	}

	if len(res) > 0 && res[0] == "CONFLICT" {
		return &domain.SeatConflictError{Seats: res[1:]}
	}

	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, holdIndexKey(hold.ID), hold.ShowtimeID, 0)
		pipe.PExpireAt(ctx, holdIndexKey(hold.ID), hold.ExpiresAt)
		pipe.SAdd(ctx, expiringKey, hold.ShowtimeID)
		return nil
	})
	if err != nil {
		releaseErr := s.ReleaseHold(ctx, hold.ShowtimeID, hold.ID)
		return errors.Join(fmt.Errorf("failed to index hold %s: %w", hold.ID, err), releaseErr)
	}

	return nil
}

func (s *RedisStore) Hold(ctx context.Context, holdID string) (*domain.Hold, error) {
	showtimeID, err := s.client.Get(ctx, holdIndexKey(holdID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrHoldExpired
		}
		return nil, err
	}

	fields, err := s.client.HGetAll(ctx, holdKey(showtimeID, holdID)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, domain.ErrHoldExpired
	}

	hold, err := parseHold(holdID, fields)
	if err != nil {
		return nil, err
	}

	if hold.Expired(s.now()) {
		return nil, domain.ErrHoldExpired
	}

	return hold, nil
}

func parseHold(holdID string, fields map[string]string) (*domain.Hold, error) {
	showtimeID, err := strconv.ParseInt(fields["showtime_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt hold %s: %w", holdID, err)
	}

	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt hold %s: %w", holdID, err)
	}

	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt hold %s: %w", holdID, err)
	}

	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt hold %s: %w", holdID, err)
	}

	return &domain.Hold{
		ID:         holdID,
		ShowtimeID: showtimeID,
		UserID:     userID,
		Email:      fields["email"],
		Seats:      strings.Split(fields["seats"], ","),
		ExpiresAt:  time.UnixMilli(expiresAt),
		CreatedAt:  time.UnixMilli(createdAt),
	}, nil
}

func (s *RedisStore) Commit(ctx context.Context, showtimeID int64, holdID string) ([]string, error) {
	keys := []string{seatMapKey(showtimeID), holdKey(showtimeID, holdID), expiryKey(showtimeID)}

	seats, err := commitScript.Run(ctx, s.client, keys, holdID, s.now().UnixMilli()).StringSlice()
	if err != nil {
		if redis.HasErrorPrefix(err, "hold expired") {
			return nil, domain.ErrHoldExpired
		}

		return nil, fmt.Errorf("failed to run commit script: %w", err)
	}

	s.client.Del(ctx, holdIndexKey(holdID))

	return seats, nil
}

func (s *RedisStore) ReleaseHold(ctx context.Context, showtimeID int64, holdID string) error {
	keys := []string{seatMapKey(showtimeID), holdKey(showtimeID, holdID), expiryKey(showtimeID)}

	err := releaseHoldScript.Run(ctx, s.client, keys, holdID).Err()
	if err != nil {
		return fmt.Errorf("failed to release hold %s: %w", holdID, err)
	}

	s.client.Del(ctx, holdIndexKey(holdID))

	return nil
}

func (s *RedisStore) ReleaseSeats(ctx context.Context, showtimeID int64, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	args := make([]any, len(labels))
	for i, label := range labels {
		args[i] = label
	}

	err := releaseSeatsScript.Run(ctx, s.client, []string{seatMapKey(showtimeID)}, args...).Err()
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	return nil
}

func (s *RedisStore) Book(ctx context.Context, showtimeID int64, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	args := []any{s.now().UnixMilli()}
	for _, label := range labels {
		args = append(args, label)
	}

	res, err := bookScript.Run(ctx, s.client, []string{seatMapKey(showtimeID)}, args...).StringSlice()
	if err != nil {
		return fmt.Errorf("failed to run book script: %w", err)
	}

	if len(res) > 0 && res[0] == "CONFLICT" {
		return &domain.SeatConflictError{Seats: res[1:]}
	}

	return nil
}

// Sweep clears expired holds of every showtime that has ever had a hold.
// Showtimes leave the expiring set only through DropShowtime.
func (s *RedisStore) Sweep(ctx context.Context) (int, error) {
	members, err := s.client.SMembers(ctx, expiringKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list showtimes with holds: %w", err)
	}

	now := s.now().UnixMilli()
	swept := 0

	for _, member := range members {
		showtimeID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}

		keys := []string{seatMapKey(showtimeID), expiryKey(showtimeID)}

		n, err := sweepScript.Run(ctx, s.client, keys, now).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			return swept, fmt.Errorf("failed to sweep showtime %d: %w", showtimeID, err)
		}

		swept += n
	}

	return swept, nil
}

func (s *RedisStore) DropShowtime(ctx context.Context, showtimeID int64) error {
	err := s.client.Del(ctx, seatMapKey(showtimeID), expiryKey(showtimeID)).Err()
	if err != nil {
		return fmt.Errorf("failed to drop seat map of showtime %d: %w", showtimeID, err)
	}

	return s.client.SRem(ctx, expiringKey, showtimeID).Err()
}
