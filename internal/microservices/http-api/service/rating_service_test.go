package service

import (
	"context"
	"sync"
	"testing"

	"foodfinder/internal/microservices/http-api/models"
	"foodfinder/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTally(t models.RatingTally) {
	m.Called(t)
}

type ratingFixture struct {
	catalog *repository.MemoryCatalog
	tallies *repository.MemoryTallyRepo
	events  *repository.MemoryEventRepo
	stars   *repository.MemoryStarRepo
	svc     RatingService
}

func newRatingFixture(pub TallyPublisher) *ratingFixture {
	f := &ratingFixture{
		catalog: repository.NewMemoryCatalog(
			models.MenuItem{ID: 1, DiningHall: models.Rathbone, MealType: "lunch", CourseName: "Entrees", Name: "Pizza"},
			models.MenuItem{ID: 2, DiningHall: models.Rathbone, MealType: "dinner", CourseName: "Sides", Name: "Fries"},
			models.MenuItem{ID: 3, DiningHall: models.HideawayCafe, MealType: "breakfast", CourseName: "Bakery", Name: "Bagel"},
		),
		tallies: repository.NewMemoryTallyRepo(),
		events:  repository.NewMemoryEventRepo(),
		stars:   repository.NewMemoryStarRepo(),
	}
	f.svc = NewRatingService(f.catalog, f.tallies, f.events, f.stars, pub, nil)
	return f
}

func TestRatingService_GetTallyUnknownItemIsZero(t *testing.T) {
	f := newRatingFixture(nil)

	tally, err := f.svc.GetTally(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, int64(999), tally.ItemID)
	assert.Zero(t, tally.Upvotes)
	assert.Zero(t, tally.Downvotes)
}

func TestRatingService_VoteIncrementsLogsAndPublishes(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishTally", mock.MatchedBy(func(t models.RatingTally) bool { return t.ItemID == 1 })).Twice()
	f := newRatingFixture(pub)
	ctx := context.Background()

	_, err := f.svc.Vote(ctx, "rathbone", 1, models.VoteUp)
	require.NoError(t, err)
	item, err := f.svc.Vote(ctx, "rathbone", 1, models.VoteDown)
	require.NoError(t, err)

	assert.Equal(t, int64(1), item.Upvotes)
	assert.Equal(t, int64(1), item.Downvotes)
	assert.Equal(t, "Pizza", item.MenuItemName)

	events, err := f.events.List(ctx, repository.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Pizza", events[0].ItemName)
	assert.Equal(t, int64(1), events[0].Downvotes)
	assert.Equal(t, int64(0), events[1].Downvotes)

	pub.AssertExpectations(t)
}

func TestRatingService_ConcurrentUpvotesBothCount(t *testing.T) {
	f := newRatingFixture(nil)
	ctx := context.Background()

	_, err := f.tallies.Overwrite(ctx, 1, 10, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Vote(ctx, "rathbone", 1, models.VoteUp)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tally, err := f.svc.GetTally(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(12), tally.Upvotes)
}

func TestRatingService_VoteRejectsWrongHallAndUnknownItem(t *testing.T) {
	f := newRatingFixture(nil)
	ctx := context.Background()

	_, err := f.svc.Vote(ctx, "rathbone", 3, models.VoteUp)
	assert.ErrorIs(t, err, repository.ErrItemNotFound)

	_, err = f.svc.Vote(ctx, "cafeteria", 1, models.VoteUp)
	assert.ErrorIs(t, err, ErrUnknownHall)

	tally, err := f.svc.GetTally(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, tally.Upvotes)
}

func TestRatingService_VoteStoreUnavailable(t *testing.T) {
	pub := new(MockPublisher)
	f := newRatingFixture(pub)
	f.tallies.SetDown(true)

	_, err := f.svc.Vote(context.Background(), "rathbone", 1, models.VoteUp)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)

	events, err := f.events.List(context.Background(), repository.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
	pub.AssertNotCalled(t, "PublishTally", mock.Anything)
}

func TestRatingService_VoteStandsWhenLogAppendFails(t *testing.T) {
	f := newRatingFixture(nil)
	f.events.SetDown(true)

	item, err := f.svc.Vote(context.Background(), "rathbone", 2, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.Upvotes)
}

func TestRatingService_OverwriteReplacesTally(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishTally", mock.Anything).Return()
	f := newRatingFixture(pub)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Vote(ctx, "rathbone", 2, models.VoteUp)
		require.NoError(t, err)
	}

	item, err := f.svc.OverwriteTally(ctx, "rathbone", 2, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Upvotes)
	assert.Equal(t, int64(2), item.Downvotes)

	tally, err := f.svc.GetTally(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), tally.Upvotes)
	assert.Equal(t, int64(2), tally.Downvotes)
	pub.AssertNumberOfCalls(t, "PublishTally", 4)
}

func TestRatingService_RecordEventIsNotDeduplicated(t *testing.T) {
	f := newRatingFixture(nil)
	ctx := context.Background()

	first, err := f.svc.RecordEvent(ctx, "Pizza", 3, 1)
	require.NoError(t, err)
	second, err := f.svc.RecordEvent(ctx, "Pizza", 3, 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	events, err := f.svc.ListEvents(ctx, "Pizza", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, int64(3), e.Upvotes)
		assert.Equal(t, int64(1), e.Downvotes)
	}
}

func TestRatingService_Stars(t *testing.T) {
	f := newRatingFixture(nil)
	ctx := context.Background()

	_, err := f.svc.RateStars(ctx, "hideaway", 3, 4)
	require.NoError(t, err)
	got, err := f.svc.RateStars(ctx, "hideaway", 3, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.RatingsCount)
	assert.InDelta(t, 3.5, got.AverageStars, 1e-9)

	read, err := f.svc.GetStars(ctx, "hideaway", 3)
	require.NoError(t, err)
	assert.Equal(t, got.TotalGivenStars, read.TotalGivenStars)

	_, err = f.svc.RateStars(ctx, "rathbone", 3, 4)
	assert.ErrorIs(t, err, repository.ErrItemNotFound)
}
