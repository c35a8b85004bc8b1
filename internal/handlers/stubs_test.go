package handlers

import (
	"context"
	"sync"

	"github.com/liketagger/backend/internal/models"
	"github.com/liketagger/backend/internal/repositories"
)

type storeStub struct {
	catalog     *catalogStub
	credentials []string
}

func (s *storeStub) Scope(credential string) repositories.Catalog {
	s.credentials = append(s.credentials, credential)
	return s.catalog
}

// catalogStub is an in-memory catalog good enough to exercise the gateway.
type catalogStub struct {
	mu sync.Mutex

	tags      []models.Tag
	nextID    int64
	created   []models.NewTag
	deleted   []int64
	links     map[models.VideoTag]bool
	page      models.VideoPage
	query     models.VideoQuery
	unliked   map[string]int
	captioned map[string]int

	err error
}

func newCatalogStub() *catalogStub {
	return &catalogStub{
		nextID:    1,
		links:     make(map[models.VideoTag]bool),
		unliked:   make(map[string]int),
		captioned: make(map[string]int),
		page:      models.VideoPage{Videos: []models.VideoWithTags{}},
	}
}

func (c *catalogStub) ListTags(context.Context) ([]models.Tag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return append([]models.Tag{}, c.tags...), nil
}

func (c *catalogStub) CreateTag(_ context.Context, tag models.NewTag) (models.Tag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, tag)
	if c.err != nil {
		return models.Tag{}, c.err
	}
	created := models.Tag{ID: c.nextID, Color: tag.Color}
	if tag.Name != nil {
		created.Name = *tag.Name
	}
	if tag.Keystroke != nil {
		created.Keystroke = *tag.Keystroke
	}
	c.nextID++
	c.tags = append(c.tags, created)
	return created, nil
}

func (c *catalogStub) DeleteTag(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, id)
	return c.err
}

func (c *catalogStub) ListVideos(_ context.Context, query models.VideoQuery) (models.VideoPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	if c.err != nil {
		return models.VideoPage{}, c.err
	}
	return c.page, nil
}

func (c *catalogStub) ToggleTag(_ context.Context, videoID string, tagID int64) (models.ToggleAction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	key := models.VideoTag{VideoID: videoID, TagID: tagID}
	if c.links[key] {
		delete(c.links, key)
		return models.ToggleRemoved, nil
	}
	c.links[key] = true
	return models.ToggleAdded, nil
}

func (c *catalogStub) UnlikeVideo(_ context.Context, videoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unliked[videoID]++
	return c.err
}

func (c *catalogStub) MarkNeedsCaption(_ context.Context, videoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.captioned[videoID]++
	return c.err
}

type limiterStub struct {
	allow bool
	keys  []string
}

func (l *limiterStub) Allow(key string) bool {
	l.keys = append(l.keys, key)
	return l.allow
}
