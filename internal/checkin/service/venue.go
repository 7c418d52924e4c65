package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/checkinhq/checkin/internal/checkin/domain"
	"github.com/checkinhq/checkin/internal/checkin/store"
	"github.com/checkinhq/checkin/pkg/idx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

var (
	ErrVenueNotFound      = errors.New("venue not found")
	ErrVenueInactive      = errors.New("venue is inactive")
	ErrVenueUserNotFound  = errors.New("venue participant not found")
	ErrInvalidCheckInStep = errors.New("invalid check-in status")
	ErrInvalidVenue       = errors.New("invalid venue request")
)

type VenueService struct {
	Store store.Store
}

// NewVenue describes a venue to create within a workspace.
type NewVenue struct {
	WorkspaceID string
	Name        string
}

// CreateVenue creates an active venue inside an existing workspace.
func (s *VenueService) CreateVenue(ctx context.Context, req NewVenue) (domain.Venue, error) {
	log := slogx.FromContext(ctx)

	if req.Name == "" {
		return domain.Venue{}, ErrInvalidVenue
	}

	if _, err := s.Store.Workspaces().GetWorkspaceByID(ctx, req.WorkspaceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Venue{}, ErrWorkspaceNotFound
		}
		return domain.Venue{}, err
	}

	venue := domain.Venue{
		ID:          idx.New().String(),
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Active:      true,
	}
	if err := s.Store.Venues().CreateVenue(ctx, venue); err != nil {
		log.Error("failed to create venue", slog.Any("error", err))
		return domain.Venue{}, err
	}

	log.Info("venue created",
		slog.String("venue_id", venue.ID),
		slog.String("workspace_id", venue.WorkspaceID),
	)
	return venue, nil
}

// SetVenueActive opens or closes a venue for new participants.
func (s *VenueService) SetVenueActive(ctx context.Context, venueID string, active bool) error {
	if _, err := s.Store.Venues().GetVenueByID(ctx, venueID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVenueNotFound
		}
		return err
	}
	return s.Store.Venues().SetVenueActive(ctx, venueID, active)
}

// AddVenueMember describes a participant joining a venue.
type AddVenueMember struct {
	UserID   string
	Comments string
}

// VenueMemberResult reports what AddMemberToVenue did.
type VenueMemberResult struct {
	IsNew        bool `json:"isNew"`
	AddedToVenue bool `json:"addedToVenue"`
}

// AddMemberToVenue attaches a participant to an active venue. Unlike
// workspace membership there is no duplicate check: every call that passes
// the existence and active gates inserts a new participation row.
func (s *VenueService) AddMemberToVenue(
	ctx context.Context,
	venueID string,
	member AddVenueMember,
) (VenueMemberResult, error) {
	log := slogx.FromContext(ctx)

	venue, err := s.Store.Venues().GetVenueByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("attempted to join non-existent venue", slog.String("venue_id", venueID))
			return VenueMemberResult{}, ErrVenueNotFound
		}
		log.Error("failed to fetch venue", slog.Any("error", err))
		return VenueMemberResult{}, err
	}

	if !venue.Active {
		log.Warn("attempted to join inactive venue",
			slog.String("venue_id", venueID),
			slog.String("user_id", member.UserID),
		)
		return VenueMemberResult{}, ErrVenueInactive
	}

	participant := domain.VenueUser{
		ID:       idx.New().String(),
		VenueID:  venueID,
		UserID:   member.UserID,
		Status:   domain.CheckInJoined,
		Comments: member.Comments,
	}
	if err := s.Store.VenueUsers().CreateVenueUser(ctx, participant); err != nil {
		log.Error("failed to create venue participant", slog.Any("error", err))
		return VenueMemberResult{}, err
	}

	log.Info("participant added to venue",
		slog.String("venue_id", venueID),
		slog.String("venue_user_id", participant.ID),
		slog.String("user_id", member.UserID),
	)
	return VenueMemberResult{IsNew: true, AddedToVenue: true}, nil
}

// UpdateCheckInStatus moves a participant through the check-in lifecycle
// (joined, checking, completed, failed).
func (s *VenueService) UpdateCheckInStatus(ctx context.Context, venueUserID, status string) error {
	log := slogx.FromContext(ctx)

	if !domain.ValidCheckInStatus(status) {
		return ErrInvalidCheckInStep
	}

	if _, err := s.Store.VenueUsers().GetVenueUserByID(ctx, venueUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVenueUserNotFound
		}
		return err
	}

	if err := s.Store.VenueUsers().UpdateVenueUserStatus(ctx, venueUserID, status); err != nil {
		log.Error("failed to update check-in status",
			slog.String("venue_user_id", venueUserID),
			slog.Any("error", err),
		)
		return err
	}

	log.Debug("check-in status updated",
		slog.String("venue_user_id", venueUserID),
		slog.String("status", status),
	)
	return nil
}

// ListVenueParticipants returns the participants of a venue.
func (s *VenueService) ListVenueParticipants(ctx context.Context, venueID string) ([]domain.VenueUser, error) {
	if _, err := s.Store.Venues().GetVenueByID(ctx, venueID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return s.Store.VenueUsers().ListVenueUsers(ctx, venueID)
}
