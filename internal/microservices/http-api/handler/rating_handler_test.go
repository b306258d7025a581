package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"foodfinder/internal/microservices/http-api/dto"
	"foodfinder/internal/microservices/http-api/handler"
	"foodfinder/internal/microservices/http-api/models"
	"foodfinder/internal/microservices/http-api/repository"
	"foodfinder/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type stores struct {
	catalog *repository.MemoryCatalog
	tallies *repository.MemoryTallyRepo
	events  *repository.MemoryEventRepo
	stars   *repository.MemoryStarRepo
}

func sampleMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: 1, DiningHall: models.Rathbone, MealType: "breakfast", CourseName: "Grill", Name: "Pancakes", CalorieText: strPtr("350 kcal"), Allergens: "Wheat,Egg"},
		{ID: 2, DiningHall: models.Rathbone, MealType: "lunch", CourseName: "Entree", Name: "Pizza", Allergens: "Wheat,Milk"},
		{ID: 3, DiningHall: models.Rathbone, MealType: "dinner", CourseName: "Soup", Name: "Tomato Soup"},
		{ID: 4, DiningHall: models.Rathbone, MealType: "brunch", CourseName: "Grill", Name: "Waffles"},
		{ID: 10, DiningHall: models.HideawayCafe, MealType: "lunch", CourseName: "Deli", Name: "Turkey Club"},
	}
}

func setupRouter(t *testing.T) (*gin.Engine, *stores) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &stores{
		catalog: repository.NewMemoryCatalog(sampleMenu()...),
		tallies: repository.NewMemoryTallyRepo(),
		events:  repository.NewMemoryEventRepo(),
		stars:   repository.NewMemoryStarRepo(),
	}
	r := handler.NewRouter(handler.RouterConfig{
		Catalog: service.NewCatalogService(s.catalog, s.tallies),
		Ratings: service.NewRatingService(s.catalog, s.tallies, s.events, s.stars, nil, nil),
	})
	return r, s
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListMenu_SnakeCaseWithZeroTallies(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/rathbone", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 4)

	first := raw[0]
	for _, key := range []string{"id", "meal_type", "course_name", "menu_item_name", "calorie_text", "allergen_names", "upvotes", "downvotes"} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "Pancakes", first["menu_item_name"])
	assert.EqualValues(t, 0, first["upvotes"])
	assert.EqualValues(t, 0, first["downvotes"])

	// calorie_text is present as null rather than omitted
	v, ok := raw[1]["calorie_text"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestListMenu_UnknownHallIsEmptyArray(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/commons", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestPutThenGet_ReflectsAbsoluteCounts(t *testing.T) {
	r, _ := setupRouter(t)

	body := map[string]any{
		"id": 2, "mealType": "lunch", "courseName": "Entree", "menuItemName": "Pizza",
		"calorieText": nil, "allergenNames": "Wheat,Milk", "upvotes": 5, "downvotes": 2,
	}
	w := doJSON(r, http.MethodPut, "/rathbone/2", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/rathbone", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []dto.MenuItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	var pizza dto.MenuItemResponse
	for _, it := range items {
		if it.ID == 2 {
			pizza = it
		}
	}
	assert.Equal(t, int64(5), pizza.Upvotes)
	assert.Equal(t, int64(2), pizza.Downvotes)
}

func TestPut_Validation(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"negative upvotes", "/rathbone/2", map[string]any{"upvotes": -1, "downvotes": 0}, http.StatusBadRequest},
		{"missing downvotes", "/rathbone/2", map[string]any{"upvotes": 1}, http.StatusBadRequest},
		{"non-numeric id", "/rathbone/abc", map[string]any{"upvotes": 1, "downvotes": 0}, http.StatusBadRequest},
		{"id mismatch", "/rathbone/2", map[string]any{"id": 3, "upvotes": 1, "downvotes": 0}, http.StatusBadRequest},
		{"unknown item", "/rathbone/999", map[string]any{"upvotes": 1, "downvotes": 0}, http.StatusNotFound},
		{"item in another hall", "/rathbone/10", map[string]any{"upvotes": 1, "downvotes": 0}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestFoodRatings_RepeatedPostCreatesTwoEvents(t *testing.T) {
	r, s := setupRouter(t)

	body := map[string]any{"itemName": "Pizza", "upvotes": 3, "downvotes": 1}
	w1 := doJSON(r, http.MethodPost, "/foodratings", body)
	w2 := doJSON(r, http.MethodPost, "/foodratings", body)
	require.Equal(t, http.StatusCreated, w1.Code)
	require.Equal(t, http.StatusCreated, w2.Code)

	events, err := s.events.List(context.Background(), repository.EventFilter{ItemName: "Pizza"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.NotEqual(t, events[0].ID, events[1].ID)
	for _, e := range events {
		assert.Equal(t, "Pizza", e.ItemName)
		assert.Equal(t, int64(3), e.Upvotes)
		assert.Equal(t, int64(1), e.Downvotes)
	}

	w := doJSON(r, http.MethodGet, "/foodratings?item_name=Pizza", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []dto.RatingEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestFoodRatings_RejectsMissingName(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/foodratings", map[string]any{"upvotes": 1, "downvotes": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHallRating(t *testing.T) {
	r, s := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/rathbone", map[string]any{"menuItemName": "Waffles", "upvotes": 1, "downvotes": 0})
	require.Equal(t, http.StatusCreated, w.Code)

	events, err := s.events.List(context.Background(), repository.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Waffles", events[0].ItemName)

	w = doJSON(r, http.MethodPost, "/commons", map[string]any{"menuItemName": "Waffles", "upvotes": 1, "downvotes": 0})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVote_ConcurrentUpvotes(t *testing.T) {
	r, s := setupRouter(t)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doJSON(r, http.MethodPost, "/rathbone/1/upvote", nil)
		}()
	}
	wg.Wait()

	tally, err := s.tallies.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), tally.Upvotes)
	assert.Equal(t, int64(0), tally.Downvotes)

	w := doJSON(r, http.MethodPost, "/rathbone/1/downvote", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var item dto.MenuItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, int64(2), item.Upvotes)
	assert.Equal(t, int64(1), item.Downvotes)

	// every vote leaves one event in the log
	events, err := s.events.List(context.Background(), repository.EventFilter{ItemName: "Pancakes"})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestTally_UnknownItemIsZero(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/rathbone/424242/tally", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"item_id":424242,"upvotes":0,"downvotes":0}`, w.Body.String())
}

func TestGrouped_DropsUnknownMealTypes(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/rathbone/grouped", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var grouped dto.GroupedMenuResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grouped))
	require.Len(t, grouped.Meals, 3)
	assert.Equal(t, "breakfast", grouped.Meals[0].MealType)
	assert.Equal(t, "lunch", grouped.Meals[1].MealType)
	assert.Equal(t, "dinner", grouped.Meals[2].MealType)

	// the raw list still carries the brunch item
	w = doJSON(r, http.MethodGet, "/rathbone", nil)
	assert.Contains(t, w.Body.String(), "Waffles")
}

func TestGetItem(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/hideaway/10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Turkey Club")

	w = doJSON(r, http.MethodGet, "/rathbone/10", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStars(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/rathbone/2/stars", map[string]any{"given_stars": 4})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/rathbone/2/stars", map[string]any{"given_stars": 3})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/rathbone/2/stars", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stars dto.StarRatingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stars))
	assert.Equal(t, int64(7), stars.TotalGivenStars)
	assert.Equal(t, int64(10), stars.TotalMaxStars)
	assert.InDelta(t, 3.5, stars.AverageStars, 0.001)

	w = doJSON(r, http.MethodPost, "/rathbone/2/stars", map[string]any{"given_stars": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreOutage_Returns503(t *testing.T) {
	r, s := setupRouter(t)
	s.tallies.SetDown(true)

	w := doJSON(r, http.MethodPost, "/rathbone/1/upvote", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(r, http.MethodGet, "/rathbone", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	s.tallies.SetDown(false)
	s.events.SetDown(true)
	w = doJSON(r, http.MethodPost, "/foodratings", map[string]any{"itemName": "Pizza", "upvotes": 0, "downvotes": 0})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCheckConn(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/check-conn", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// --- MOCK SERVICE ---

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) GetTally(ctx context.Context, itemID int64) (*dto.TallyResponse, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TallyResponse), args.Error(1)
}

func (m *MockRatingService) Vote(ctx context.Context, hall string, itemID int64, dir models.VoteDirection) (*dto.MenuItemResponse, error) {
	args := m.Called(ctx, hall, itemID, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MenuItemResponse), args.Error(1)
}

func (m *MockRatingService) OverwriteTally(ctx context.Context, hall string, itemID int64, upvotes, downvotes int64) (*dto.MenuItemResponse, error) {
	args := m.Called(ctx, hall, itemID, upvotes, downvotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MenuItemResponse), args.Error(1)
}

func (m *MockRatingService) RecordEvent(ctx context.Context, itemName string, upvotes, downvotes int64) (*dto.RatingEventResponse, error) {
	args := m.Called(ctx, itemName, upvotes, downvotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingEventResponse), args.Error(1)
}

func (m *MockRatingService) ListEvents(ctx context.Context, itemName string, limit int) ([]dto.RatingEventResponse, error) {
	args := m.Called(ctx, itemName, limit)
	return args.Get(0).([]dto.RatingEventResponse), args.Error(1)
}

func (m *MockRatingService) RateStars(ctx context.Context, hall string, itemID int64, givenStars int) (*dto.StarRatingResponse, error) {
	args := m.Called(ctx, hall, itemID, givenStars)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StarRatingResponse), args.Error(1)
}

func (m *MockRatingService) GetStars(ctx context.Context, hall string, itemID int64) (*dto.StarRatingResponse, error) {
	args := m.Called(ctx, hall, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StarRatingResponse), args.Error(1)
}

func TestListFoodRatings_LimitClamp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(MockRatingService)
	svc.On("ListEvents", mock.Anything, "", 50).Return([]dto.RatingEventResponse{}, nil).Twice()

	r := gin.New()
	handler.NewRatingHandler(svc, 0).RegisterRoutes(r, func(c *gin.Context) { c.Next() })

	for _, q := range []string{"/foodratings?limit=0", "/foodratings?limit=9999"} {
		w := doJSON(r, http.MethodGet, q, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	svc.AssertExpectations(t)
}

func TestVote_UnexpectedErrorIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(MockRatingService)
	svc.On("Vote", mock.Anything, "rathbone", int64(1), models.VoteUp).Return(nil, assert.AnError)

	r := gin.New()
	handler.NewRatingHandler(svc, 0).RegisterRoutes(r, func(c *gin.Context) { c.Next() })

	w := doJSON(r, http.MethodPost, "/rathbone/1/upvote", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	svc.AssertExpectations(t)
}
