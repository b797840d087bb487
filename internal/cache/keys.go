package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	VideoKeyPrefix   = "video:%d"
	ChannelKeyPrefix = "channel:%s"
)

const (
	UserTTL    = 5 * time.Minute
	VideoTTL   = 10 * time.Minute
	ChannelTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func VideoKey(videoID uint) string {
	return fmt.Sprintf(VideoKeyPrefix, videoID)
}

func ChannelKey(handle string) string {
	return fmt.Sprintf(ChannelKeyPrefix, handle)
}

// Aside is a cache-aside read: on hit, dest is decoded from the cached value;
// on miss, load fills dest and the result is stored under key for ttl.
// All cache failures degrade to a plain load.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if client == nil {
		return load()
	}

	if raw, err := client.Get(ctx, key).Bytes(); err == nil {
		if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry: drop it and fall through to the loader.
		client.Del(ctx, key)
	}

	if err := load(); err != nil {
		return err
	}

	if raw, err := json.Marshal(dest); err == nil {
		client.Set(ctx, key, raw, ttl)
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateVideo(ctx context.Context, videoID uint) {
	Invalidate(ctx, VideoKey(videoID))
}
