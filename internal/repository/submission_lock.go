package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// 仅当 value 匹配时才删除，避免释放他人持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SubmissionLock 串行化同一学员对同一测评的提交。
// Redis 为 nil 时不加锁，总是成功
type SubmissionLock struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewSubmissionLock(rdb *redis.Client, ttl time.Duration) *SubmissionLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &SubmissionLock{Redis: rdb, TTL: ttl}
}

func submissionLockKey(kind string, userID, assessmentID uint) string {
	return fmt.Sprintf("assessment:submit:%s:%d:%d", kind, assessmentID, userID)
}

// Acquire 锁已被其他提交持有时返回 ok=false
func (l *SubmissionLock) Acquire(ctx context.Context, kind string, userID, assessmentID uint) (release func(), ok bool, err error) {
	if l == nil || l.Redis == nil {
		return func() {}, true, nil
	}

	key := submissionLockKey(kind, userID, assessmentID)
	token := uuid.NewString()
	ok, err = l.Redis.SetNX(ctx, key, token, l.TTL).Result()
	if err != nil || !ok {
		return func() {}, ok, err
	}

	release = func() {
		// 请求上下文可能已取消，释放锁使用独立超时
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		releaseScript.Run(rctx, l.Redis, []string{key}, token)
	}
	return release, true, nil
}
