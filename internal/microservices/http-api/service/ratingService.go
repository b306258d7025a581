package service

import (
	"context"
	"log/slog"
	"strings"

	"foodfinder/internal/microservices/http-api/dto"
	"foodfinder/internal/microservices/http-api/models"
	"foodfinder/internal/microservices/http-api/repository"
)

// TallyPublisher receives every server-confirmed tally after a write.
type TallyPublisher interface {
	PublishTally(tally models.RatingTally)
}

type RatingService interface {
	GetTally(ctx context.Context, itemID int64) (*dto.TallyResponse, error)
	Vote(ctx context.Context, hall string, itemID int64, dir models.VoteDirection) (*dto.MenuItemResponse, error)
	OverwriteTally(ctx context.Context, hall string, itemID int64, upvotes, downvotes int64) (*dto.MenuItemResponse, error)
	RecordEvent(ctx context.Context, itemName string, upvotes, downvotes int64) (*dto.RatingEventResponse, error)
	ListEvents(ctx context.Context, itemName string, limit int) ([]dto.RatingEventResponse, error)
	RateStars(ctx context.Context, hall string, itemID int64, givenStars int) (*dto.StarRatingResponse, error)
	GetStars(ctx context.Context, hall string, itemID int64) (*dto.StarRatingResponse, error)
}

type ratingService struct {
	catalog   repository.CatalogRepository
	tallies   repository.TallyRepository
	events    repository.EventRepository
	stars     repository.StarRepository
	publisher TallyPublisher
	logger    *slog.Logger
}

// NewRatingService wires the rating stores. publisher may be nil.
func NewRatingService(
	catalog repository.CatalogRepository,
	tallies repository.TallyRepository,
	events repository.EventRepository,
	stars repository.StarRepository,
	publisher TallyPublisher,
	logger *slog.Logger,
) RatingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ratingService{
		catalog:   catalog,
		tallies:   tallies,
		events:    events,
		stars:     stars,
		publisher: publisher,
		logger:    logger,
	}
}

// GetTally never fails for an unknown item; it reports a zero tally.
func (s *ratingService) GetTally(ctx context.Context, itemID int64) (*dto.TallyResponse, error) {
	t, err := s.tallies.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToTallyResponse(*t)
	return &resp, nil
}

// Vote is the only vote path for each direction. The increment is atomic in the store; the
// rating-log append that follows is a separate write and may fail on its own, in which case
// the vote stands and the failure is logged.
func (s *ratingService) Vote(ctx context.Context, hall string, itemID int64, dir models.VoteDirection) (*dto.MenuItemResponse, error) {
	item, err := lookupItem(ctx, s.catalog, hall, itemID)
	if err != nil {
		return nil, err
	}

	tally, err := s.tallies.ApplyVote(ctx, itemID, dir)
	if err != nil {
		s.logger.Error("vote_failed", "item_id", itemID, "direction", dir, "error", err)
		return nil, err
	}

	event := models.NewRatingEvent(item.Name, tally.Upvotes, tally.Downvotes)
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.Error("rating_event_append_failed",
			"item_id", itemID,
			"item_name", item.Name,
			"error", err,
		)
	}

	s.publish(*tally)
	s.logger.Debug("vote_applied", "item_id", itemID, "direction", dir,
		"upvotes", tally.Upvotes, "downvotes", tally.Downvotes)

	resp := dto.FromModelToMenuItemResponse(*item, *tally)
	return &resp, nil
}

// OverwriteTally stores client-supplied absolute counts (last writer wins). Kept for the
// existing client's PUT contract; new clients should use Vote.
func (s *ratingService) OverwriteTally(ctx context.Context, hall string, itemID int64, upvotes, downvotes int64) (*dto.MenuItemResponse, error) {
	item, err := lookupItem(ctx, s.catalog, hall, itemID)
	if err != nil {
		return nil, err
	}

	tally, err := s.tallies.Overwrite(ctx, itemID, upvotes, downvotes)
	if err != nil {
		s.logger.Error("tally_overwrite_failed", "item_id", itemID, "error", err)
		return nil, err
	}

	s.publish(*tally)
	resp := dto.FromModelToMenuItemResponse(*item, *tally)
	return &resp, nil
}

// RecordEvent appends one rating-log row. There is no idempotency key: the same body posted
// twice is two events.
func (s *ratingService) RecordEvent(ctx context.Context, itemName string, upvotes, downvotes int64) (*dto.RatingEventResponse, error) {
	event := models.NewRatingEvent(strings.TrimSpace(itemName), upvotes, downvotes)
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.Error("rating_event_append_failed", "item_name", itemName, "error", err)
		return nil, err
	}
	resp := dto.FromModelToRatingEventResponse(*event)
	return &resp, nil
}

func (s *ratingService) ListEvents(ctx context.Context, itemName string, limit int) ([]dto.RatingEventResponse, error) {
	events, err := s.events.List(ctx, repository.EventFilter{ItemName: itemName, Limit: limit})
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RatingEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, dto.FromModelToRatingEventResponse(e))
	}
	return resp, nil
}

func (s *ratingService) RateStars(ctx context.Context, hall string, itemID int64, givenStars int) (*dto.StarRatingResponse, error) {
	if _, err := lookupItem(ctx, s.catalog, hall, itemID); err != nil {
		return nil, err
	}
	rating, err := s.stars.Add(ctx, itemID, givenStars)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToStarRatingResponse(*rating)
	return &resp, nil
}

func (s *ratingService) GetStars(ctx context.Context, hall string, itemID int64) (*dto.StarRatingResponse, error) {
	if _, err := lookupItem(ctx, s.catalog, hall, itemID); err != nil {
		return nil, err
	}
	rating, err := s.stars.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToStarRatingResponse(*rating)
	return &resp, nil
}

func (s *ratingService) publish(t models.RatingTally) {
	if s.publisher != nil {
		s.publisher.PublishTally(t)
	}
}
