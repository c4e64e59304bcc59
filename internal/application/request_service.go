package application

import (
	"context"
	"fmt"

	"github.com/shareit-lending/service-shareit/internal/common/domain"
	itemDomain "github.com/shareit-lending/service-shareit/internal/domain/item"
	requestDomain "github.com/shareit-lending/service-shareit/internal/domain/request"
	userDomain "github.com/shareit-lending/service-shareit/internal/domain/user"
	"go.uber.org/zap"
)

// CreateItemRequestRequest holds the description of a wanted item.
type CreateItemRequestRequest struct {
	Description string `json:"description"`
}

// RequestService orchestrates item request use cases.
type RequestService struct {
	requests requestDomain.RequestRepository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	clock    Clock
	logger   *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.RequestRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	clock Clock,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		clock:    clock,
		logger:   logger,
	}
}

// CreateRequest records a new item request by userID.
func (s *RequestService) CreateRequest(ctx context.Context, userID int64, req CreateItemRequestRequest) (*ItemRequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	r, err := requestDomain.NewRequest(userID, req.Description, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save item request: %w", err)
	}

	s.logger.Info("item request created", zap.Int64("request_id", r.ID()), zap.Int64("requester_id", userID))
	result := toItemRequestDTO(r, nil)
	return &result, nil
}

// ListOwnRequests returns the user's requests, oldest first, with answering items.
func (s *RequestService) ListOwnRequests(ctx context.Context, userID int64) ([]ItemRequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.requests.FindByRequesterID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return s.withAnswers(ctx, requests)
}

// ListOtherRequests pages through other users' requests, oldest first. Unless both from and
// size are given the result is empty; from is a page index.
func (s *RequestService) ListOtherRequests(ctx context.Context, userID int64, page domain.Pagination) ([]ItemRequestDTO, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if !page.Enabled() {
		return []ItemRequestDTO{}, nil
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	offset, limit := page.PageOffset()
	requests, err := s.requests.FindOthers(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return s.withAnswers(ctx, requests)
}

// GetRequest returns one request with its answering items.
func (s *RequestService) GetRequest(ctx context.Context, requestID, userID int64) (*ItemRequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	r, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	dtos, err := s.withAnswers(ctx, []*requestDomain.Request{r})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *RequestService) withAnswers(ctx context.Context, requests []*requestDomain.Request) ([]ItemRequestDTO, error) {
	dtos := make([]ItemRequestDTO, len(requests))
	if len(requests) == 0 {
		return dtos, nil
	}

	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID()
	}
	answers, err := s.items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load answering items: %w", err)
	}

	byRequest := make(map[int64][]*itemDomain.Item)
	for _, it := range answers {
		if it.RequestID() != nil {
			byRequest[*it.RequestID()] = append(byRequest[*it.RequestID()], it)
		}
	}

	for i, r := range requests {
		dtos[i] = toItemRequestDTO(r, byRequest[r.ID()])
	}
	return dtos, nil
}
