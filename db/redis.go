// api/db/redis.go
package db

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
)

var (
	RedisClient   *redis.Client
	encryptionKey []byte
)

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	encryptionKey = []byte(viper.GetString("redis.encryptionKey"))
	if len(encryptionKey) != 32 {
		return fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// CacheUser stores a user encrypted; user records carry PII.
func CacheUser(ctx context.Context, user *model.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	encryptedUser, err := encrypt(userJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt user: %w", err)
	}

	key := fmt.Sprintf("user:%s", user.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, base64.StdEncoding.EncodeToString(encryptedUser), defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}

	logger.Debug("User cached successfully", zap.String("userID", user.ID))
	return nil
}

func GetCachedUser(ctx context.Context, userID string) (*model.User, error) {
	key := fmt.Sprintf("user:%s", userID)
	encryptedUserStr, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("User not found in cache", zap.String("userID", userID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	encryptedUser, err := base64.StdEncoding.DecodeString(encryptedUserStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	userJSON, err := decrypt(encryptedUser)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt user: %w", err)
	}

	var user model.User
	err = json.Unmarshal(userJSON, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

func DeleteCachedUser(ctx context.Context, userID string) error {
	key := fmt.Sprintf("user:%s", userID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete user from cache: %w", err)
	}
	logger.Debug("User deleted from cache", zap.String("userID", userID))
	return nil
}

func CacheEvent(ctx context.Context, event *model.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := fmt.Sprintf("event:%s", event.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, eventJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache event: %w", err)
	}

	logger.Debug("Event cached successfully", zap.String("eventID", event.ID))
	return nil
}

func GetCachedEvent(ctx context.Context, eventID string) (*model.Event, error) {
	key := fmt.Sprintf("event:%s", eventID)
	eventJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Event not found in cache", zap.String("eventID", eventID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get event from cache: %w", err)
	}

	var event model.Event
	err = json.Unmarshal([]byte(eventJSON), &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

func DeleteCachedEvent(ctx context.Context, eventID string) error {
	key := fmt.Sprintf("event:%s", eventID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete event from cache: %w", err)
	}
	logger.Debug("Event deleted from cache", zap.String("eventID", eventID))
	return nil
}

func CachePartner(ctx context.Context, partner *model.Partner) error {
	partnerJSON, err := json.Marshal(partner)
	if err != nil {
		return fmt.Errorf("failed to marshal partner: %w", err)
	}

	key := fmt.Sprintf("partner:%s", partner.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, partnerJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache partner: %w", err)
	}

	logger.Debug("Partner cached successfully", zap.String("partnerID", partner.ID))
	return nil
}

func GetCachedPartner(ctx context.Context, partnerID string) (*model.Partner, error) {
	key := fmt.Sprintf("partner:%s", partnerID)
	partnerJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Partner not found in cache", zap.String("partnerID", partnerID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get partner from cache: %w", err)
	}

	var partner model.Partner
	err = json.Unmarshal([]byte(partnerJSON), &partner)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal partner: %w", err)
	}

	return &partner, nil
}

func DeleteCachedPartner(ctx context.Context, partnerID string) error {
	key := fmt.Sprintf("partner:%s", partnerID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete partner from cache: %w", err)
	}
	logger.Debug("Partner deleted from cache", zap.String("partnerID", partnerID))
	return nil
}

func CacheArea(ctx context.Context, area *model.Area) error {
	areaJSON, err := json.Marshal(area)
	if err != nil {
		return fmt.Errorf("failed to marshal area: %w", err)
	}

	key := fmt.Sprintf("area:%s", area.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, areaJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache area: %w", err)
	}

	logger.Debug("Area cached successfully", zap.String("areaID", area.ID))
	return nil
}

func GetCachedArea(ctx context.Context, areaID string) (*model.Area, error) {
	key := fmt.Sprintf("area:%s", areaID)
	areaJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Area not found in cache", zap.String("areaID", areaID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get area from cache: %w", err)
	}

	var area model.Area
	err = json.Unmarshal([]byte(areaJSON), &area)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal area: %w", err)
	}

	return &area, nil
}

func DeleteCachedArea(ctx context.Context, areaID string) error {
	key := fmt.Sprintf("area:%s", areaID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete area from cache: %w", err)
	}
	logger.Debug("Area deleted from cache", zap.String("areaID", areaID))
	return nil
}

func CacheTeam(ctx context.Context, team *model.Team) error {
	teamJSON, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("failed to marshal team: %w", err)
	}

	key := fmt.Sprintf("team:%s", team.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, teamJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache team: %w", err)
	}

	logger.Debug("Team cached successfully", zap.String("teamID", team.ID))
	return nil
}

func GetCachedTeam(ctx context.Context, teamID string) (*model.Team, error) {
	key := fmt.Sprintf("team:%s", teamID)
	teamJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Team not found in cache", zap.String("teamID", teamID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get team from cache: %w", err)
	}

	var team model.Team
	err = json.Unmarshal([]byte(teamJSON), &team)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal team: %w", err)
	}

	return &team, nil
}

func DeleteCachedTeam(ctx context.Context, teamID string) error {
	key := fmt.Sprintf("team:%s", teamID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete team from cache: %w", err)
	}
	logger.Debug("Team deleted from cache", zap.String("teamID", teamID))
	return nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}
