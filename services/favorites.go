package services

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// Favorites mirror the storefront's saved-restaurants list: a per-user
// set of restaurant ids, session state rather than a system of record.

func favoritesKey(userID string) string { return "favorites:" + userID }

func AddFavorite(ctx context.Context, rdb *redis.Client, userID string, restaurantID int64) error {
	return rdb.SAdd(ctx, favoritesKey(userID), restaurantID).Err()
}

func RemoveFavorite(ctx context.Context, rdb *redis.Client, userID string, restaurantID int64) error {
	return rdb.SRem(ctx, favoritesKey(userID), restaurantID).Err()
}

func ListFavorites(ctx context.Context, rdb *redis.Client, userID string) ([]int64, error) {
	members, err := rdb.SMembers(ctx, favoritesKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
