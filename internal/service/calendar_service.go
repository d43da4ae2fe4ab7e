package service

import (
	"context"

	"ai-notecapture-be/internal/dto"
	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/pkg/apperror"
)

const calendarServiceModule = "CALENDAR"

type CalendarAdapter interface {
	CalendarSync
	Connect(ctx context.Context, accessToken, refreshToken string) error
	Disconnect(ctx context.Context) error
	ListUpcomingEvents(ctx context.Context, max int) ([]*entity.CalendarEvent, error)
}

type ICalendarService interface {
	Status(ctx context.Context) *dto.CalendarStatusResponse
	Connect(ctx context.Context, req *dto.CalendarConnectRequest) error
	Disconnect(ctx context.Context) error
	ListEvents(ctx context.Context, max int) ([]*entity.CalendarEvent, error)
}

type calendarService struct {
	adapter CalendarAdapter
	logger  logger.ILogger
}

// NewCalendarService accepts a nil adapter when calendar sync is disabled.
func NewCalendarService(adapter CalendarAdapter, log logger.ILogger) ICalendarService {
	return &calendarService{
		adapter: adapter,
		logger:  log,
	}
}

func (s *calendarService) Status(ctx context.Context) *dto.CalendarStatusResponse {
	if s.adapter == nil {
		return &dto.CalendarStatusResponse{}
	}
	return &dto.CalendarStatusResponse{
		Enabled:   true,
		Connected: s.adapter.IsConnected(ctx),
	}
}

func (s *calendarService) Connect(ctx context.Context, req *dto.CalendarConnectRequest) error {
	if s.adapter == nil {
		return &apperror.ConfigurationError{Setting: "CALENDAR_ENABLED"}
	}
	if err := s.adapter.Connect(ctx, req.AccessToken, req.RefreshToken); err != nil {
		return err
	}
	s.logger.Info(calendarServiceModule, "Calendar connected", map[string]interface{}{
		"refreshable": req.RefreshToken != "",
	})
	return nil
}

func (s *calendarService) Disconnect(ctx context.Context) error {
	if s.adapter == nil {
		return nil
	}
	if err := s.adapter.Disconnect(ctx); err != nil {
		return err
	}
	s.logger.Info(calendarServiceModule, "Calendar disconnected", nil)
	return nil
}

func (s *calendarService) ListEvents(ctx context.Context, max int) ([]*entity.CalendarEvent, error) {
	if s.adapter == nil {
		return nil, &apperror.ConfigurationError{Setting: "CALENDAR_ENABLED"}
	}
	return s.adapter.ListUpcomingEvents(ctx, max)
}
