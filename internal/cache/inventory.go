package cache

import (
	"context"
	"fmt"
	"time"

	"tavern/internal/models"
)

const (
	UserKeyPrefix     = "user:%d"
	PostKeyPrefix     = "post:%d"
	CategoryKeyPrefix = "feed:c:%s"
	FeedKey           = "feed:all"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 10 * time.Minute
	FeedTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CategoryKey(category string) string {
	return fmt.Sprintf(CategoryKeyPrefix, category)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the post entry plus the feed pages it can appear on.
func InvalidatePost(ctx context.Context, postID uint, category string) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, FeedKey)
	if category == "" {
		category = models.DefaultCategory
	}
	Invalidate(ctx, CategoryKey(category))
}

func InvalidateFeed(ctx context.Context, category string) {
	Invalidate(ctx, FeedKey)
	if category != "" {
		Invalidate(ctx, CategoryKey(category))
	}
}
