package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

const otpTTL = 10 * time.Minute

func otpKey(email string) string {
	return fmt.Sprintf("otp:%s", email)
}

// StoreOTP keeps a password-reset code for ten minutes.
func StoreOTP(ctx context.Context, email, code string) error {
	rdb := GetRedisClient()
	return rdb.Set(ctx, otpKey(email), code, otpTTL).Err()
}

// CheckOTP reports whether the submitted code matches the stored one and
// consumes it on success.
func CheckOTP(ctx context.Context, email, code string) (bool, error) {
	rdb := GetRedisClient()
	val, err := rdb.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err := rdb.Del(ctx, otpKey(email)).Err(); err != nil {
		log.Printf("[redis] Error consuming OTP for %s: %s\n", email, err.Error())
	}
	return true, nil
}
