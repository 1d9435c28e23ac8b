package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	authgate "github.com/MrEthical07/authgate"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "ag"

// insertUserScript checks the username index, assigns the next id, and
// writes the record in one atomic step. Returns -1 on a username collision.
// The account key is derived from the prefix inside the script, so this
// store targets single-instance Redis, not cluster mode.
const insertUserScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return -1
end
local id = redis.call("INCR", KEYS[2])
local userKey = ARGV[3] .. ":user:" .. id
redis.call("HSET", userKey, "id", id, "username", ARGV[1], "password", ARGV[2])
redis.call("SET", KEYS[1], id)
redis.call("SADD", KEYS[3], id)
return id
`

var insertUserLua = redis.NewScript(insertUserScript)

// RedisStore is a Redis-backed [authgate.UserStore]. Accounts are stored as
// hashes keyed by a monotonically assigned integer id, with a username →
// id index kept in the same atomic insert script.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

var _ authgate.UserStore = (*RedisStore)(nil)

// NewRedisStore creates a [RedisStore] with the given key prefix. An empty
// prefix selects the default "ag".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
	}
}

// FindByUsername returns the account with the exact username, or (nil, nil)
// when absent.
func (s *RedisStore) FindByUsername(ctx context.Context, username string) (*authgate.Account, error) {
	id, err := s.redis.Get(ctx, s.usernameKey(username)).Int64()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
	}

	return s.FindByID(ctx, id)
}

// FindByID returns the account with the given id, or (nil, nil) when absent.
func (s *RedisStore) FindByID(ctx context.Context, id int64) (*authgate.Account, error) {
	fields, err := s.redis.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	return accountFromFields(fields)
}

// Find returns all accounts ordered by id.
func (s *RedisStore) Find(ctx context.Context) ([]authgate.Account, error) {
	members, err := s.redis.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: corrupt id index entry %q", authgate.ErrStoreUnavailable, m)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]authgate.Account, 0, len(ids))
	for _, id := range ids {
		account, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if account != nil {
			out = append(out, *account)
		}
	}
	return out, nil
}

// Insert atomically assigns the next id and creates the account. A username
// collision — including one racing a concurrent Insert — returns
// [authgate.ErrDuplicateUsername] with nothing written.
func (s *RedisStore) Insert(ctx context.Context, username, passwordHash string) (int64, error) {
	keys := []string{s.usernameKey(username), s.counterKey(), s.idsKey()}
	id, err := insertUserLua.Run(ctx, s.redis, keys, username, passwordHash, s.prefix).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
	}
	if id < 0 {
		return 0, authgate.ErrDuplicateUsername
	}
	return id, nil
}

func (s *RedisStore) userKey(id int64) string {
	return s.prefix + ":user:" + strconv.FormatInt(id, 10)
}

func (s *RedisStore) usernameKey(username string) string {
	return s.prefix + ":username:" + username
}

func (s *RedisStore) counterKey() string {
	return s.prefix + ":user:next"
}

func (s *RedisStore) idsKey() string {
	return s.prefix + ":users"
}

func accountFromFields(fields map[string]string) (*authgate.Account, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt account record", authgate.ErrStoreUnavailable)
	}
	return &authgate.Account{
		ID:       id,
		Username: fields["username"],
		Password: fields["password"],
	}, nil
}
