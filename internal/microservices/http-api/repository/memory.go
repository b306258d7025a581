package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"foodfinder/internal/microservices/http-api/models"
)

// In-memory backends. They back TALLY_BACKEND=memory and the tests; every one of them can be
// switched off with SetDown to exercise the ErrStoreUnavailable paths.

type outage struct {
	down atomic.Bool
}

func (o *outage) SetDown(down bool) { o.down.Store(down) }

func (o *outage) check(op string) error {
	if o.down.Load() {
		return fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}
	return nil
}

type MemoryCatalog struct {
	outage
	mu    sync.RWMutex
	items map[int64]models.MenuItem
}

func NewMemoryCatalog(items ...models.MenuItem) *MemoryCatalog {
	c := &MemoryCatalog{items: make(map[int64]models.MenuItem)}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

func (c *MemoryCatalog) ListByHall(ctx context.Context, hall models.DiningHall) ([]models.MenuItem, error) {
	if err := c.check("list menu items"); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]models.MenuItem, 0)
	for _, it := range c.items {
		if it.DiningHall == hall {
			list = append(list, it)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (c *MemoryCatalog) GetByID(ctx context.Context, hall models.DiningHall, id int64) (*models.MenuItem, error) {
	if err := c.check("get menu item"); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	if !ok || it.DiningHall != hall {
		return nil, errNotInHall(hall, id)
	}
	return &it, nil
}

func (c *MemoryCatalog) Upsert(ctx context.Context, items []models.MenuItem) error {
	if err := c.check("upsert menu items"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range items {
		c.items[it.ID] = it
	}
	return nil
}

type tallyCell struct {
	mu    sync.Mutex
	tally models.RatingTally
}

// MemoryTallyRepo serializes writers per item; the map lock is only held to find the cell,
// so votes on different items never wait on each other.
type MemoryTallyRepo struct {
	outage
	mu    sync.RWMutex
	cells map[int64]*tallyCell
}

func NewMemoryTallyRepo() *MemoryTallyRepo {
	return &MemoryTallyRepo{cells: make(map[int64]*tallyCell)}
}

func (r *MemoryTallyRepo) cell(itemID int64, create bool) *tallyCell {
	r.mu.RLock()
	c, ok := r.cells[itemID]
	r.mu.RUnlock()
	if ok || !create {
		return c
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok = r.cells[itemID]; !ok {
		c = &tallyCell{tally: models.ZeroTally(itemID)}
		r.cells[itemID] = c
	}
	return c
}

func (r *MemoryTallyRepo) Get(ctx context.Context, itemID int64) (*models.RatingTally, error) {
	if err := r.check("get tally"); err != nil {
		return nil, err
	}
	c := r.cell(itemID, false)
	if c == nil {
		zero := models.ZeroTally(itemID)
		return &zero, nil
	}
	c.mu.Lock()
	t := c.tally
	c.mu.Unlock()
	return &t, nil
}

func (r *MemoryTallyRepo) GetMany(ctx context.Context, itemIDs []int64) (map[int64]models.RatingTally, error) {
	if err := r.check("get tallies"); err != nil {
		return nil, err
	}
	out := make(map[int64]models.RatingTally, len(itemIDs))
	for _, id := range itemIDs {
		if c := r.cell(id, false); c != nil {
			c.mu.Lock()
			out[id] = c.tally
			c.mu.Unlock()
		}
	}
	return out, nil
}

func (r *MemoryTallyRepo) ApplyVote(ctx context.Context, itemID int64, dir models.VoteDirection) (*models.RatingTally, error) {
	if err := r.check("apply vote"); err != nil {
		return nil, err
	}
	c := r.cell(itemID, true)
	c.mu.Lock()
	defer c.mu.Unlock()
	if dir == models.VoteDown {
		c.tally.Downvotes++
	} else {
		c.tally.Upvotes++
	}
	c.tally.UpdatedAt = time.Now().UTC()
	t := c.tally
	return &t, nil
}

func (r *MemoryTallyRepo) Overwrite(ctx context.Context, itemID int64, upvotes, downvotes int64) (*models.RatingTally, error) {
	if err := r.check("overwrite tally"); err != nil {
		return nil, err
	}
	c := r.cell(itemID, true)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tally.Upvotes = upvotes
	c.tally.Downvotes = downvotes
	c.tally.UpdatedAt = time.Now().UTC()
	t := c.tally
	return &t, nil
}

type MemoryEventRepo struct {
	outage
	mu     sync.Mutex
	events []models.RatingEvent
}

func NewMemoryEventRepo() *MemoryEventRepo {
	return &MemoryEventRepo{}
}

func (r *MemoryEventRepo) Append(ctx context.Context, event *models.RatingEvent) error {
	if err := r.check("append rating event"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *MemoryEventRepo) List(ctx context.Context, filter EventFilter) ([]models.RatingEvent, error) {
	if err := r.check("list rating events"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.RatingEvent, 0, len(r.events))
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if filter.ItemName != "" && e.ItemName != filter.ItemName {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

type MemoryStarRepo struct {
	outage
	mu      sync.Mutex
	ratings map[int64]models.StarRating
}

func NewMemoryStarRepo() *MemoryStarRepo {
	return &MemoryStarRepo{ratings: make(map[int64]models.StarRating)}
}

func (r *MemoryStarRepo) Get(ctx context.Context, itemID int64) (*models.StarRating, error) {
	if err := r.check("get star rating"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.ratings[itemID]
	if !ok {
		s = models.StarRating{ItemID: itemID}
	}
	return &s, nil
}

func (r *MemoryStarRepo) Add(ctx context.Context, itemID int64, givenStars int) (*models.StarRating, error) {
	if err := r.check("add star rating"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.ratings[itemID]
	s.ItemID = itemID
	s.TotalGivenStars += int64(givenStars)
	s.TotalMaxStars += models.MaxStars
	s.RatingsCount++
	s.UpdatedAt = time.Now().UTC()
	r.ratings[itemID] = s
	return &s, nil
}
