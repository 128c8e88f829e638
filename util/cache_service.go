// api/util/cache_service.go

package util

import (
	"context"

	"github.com/trashmob-eco/trashmob-api/db"
	"github.com/trashmob-eco/trashmob-api/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return db.GetCachedUser(ctx, userID)
}

func (c *CacheService) SetUser(ctx context.Context, user model.User) error {
	return db.CacheUser(ctx, &user)
}

func (c *CacheService) DeleteUser(ctx context.Context, userID string) error {
	return db.DeleteCachedUser(ctx, userID)
}

func (c *CacheService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	return db.GetCachedEvent(ctx, eventID)
}

func (c *CacheService) SetEvent(ctx context.Context, event model.Event) error {
	return db.CacheEvent(ctx, &event)
}

func (c *CacheService) DeleteEvent(ctx context.Context, eventID string) error {
	return db.DeleteCachedEvent(ctx, eventID)
}

func (c *CacheService) GetPartner(ctx context.Context, partnerID string) (*model.Partner, error) {
	return db.GetCachedPartner(ctx, partnerID)
}

func (c *CacheService) SetPartner(ctx context.Context, partner model.Partner) error {
	return db.CachePartner(ctx, &partner)
}

func (c *CacheService) DeletePartner(ctx context.Context, partnerID string) error {
	return db.DeleteCachedPartner(ctx, partnerID)
}

func (c *CacheService) GetArea(ctx context.Context, areaID string) (*model.Area, error) {
	return db.GetCachedArea(ctx, areaID)
}

func (c *CacheService) SetArea(ctx context.Context, area model.Area) error {
	return db.CacheArea(ctx, &area)
}

func (c *CacheService) DeleteArea(ctx context.Context, areaID string) error {
	return db.DeleteCachedArea(ctx, areaID)
}

func (c *CacheService) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	return db.GetCachedTeam(ctx, teamID)
}

func (c *CacheService) SetTeam(ctx context.Context, team model.Team) error {
	return db.CacheTeam(ctx, &team)
}

func (c *CacheService) DeleteTeam(ctx context.Context, teamID string) error {
	return db.DeleteCachedTeam(ctx, teamID)
}
