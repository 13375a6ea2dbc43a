package services

import (
	"context"

	"tsharaki/internal/domain"
	"tsharaki/internal/domain/models"
	"tsharaki/internal/repositories"
	"tsharaki/internal/session"
	"tsharaki/internal/utils"

	"github.com/google/uuid"
)

// CallService covers the emergency-contact surface: assistance requests,
// the call lifecycle and post-call feedback.
type CallService struct {
	CallRepo repositories.CallRepository
	Activity ActivityService
}

// RequestCall opens a waiting emergency assistance request.
func (s CallService) RequestCall(ctx context.Context, sess session.Session, language domain.Language) (models.CallRequest, error) {
	if !sess.Authenticated() {
		return models.CallRequest{}, domain.UnauthenticatedError{Msg: "sign in to request assistance"}
	}
	if sess.Profile == nil {
		return models.CallRequest{}, domain.ProfileIncompleteError{AuthID: sess.AuthID}
	}
	if !language.Valid() {
		return models.CallRequest{}, domain.ValidationError{Field: "language", Msg: "unsupported language"}
	}

	now := utils.NowUTC()
	req := models.CallRequest{
		ID:        uuid.NewString(),
		UserID:    sess.Profile.ID,
		Language:  language,
		Status:    domain.CallWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CallRepo.CreateRequest(ctx, req); err != nil {
		return models.CallRequest{}, domain.InternalError{Err: err}
	}

	s.Activity.Log(ctx, req.UserID, "emergency_request", "", map[string]any{
		"request_id": req.ID,
		"language":   string(language),
	})
	return req, nil
}

// ConnectRequest pairs a waiting request with a responder and opens the
// call.
func (s CallService) ConnectRequest(ctx context.Context, requestID, calleeID string) (models.Call, error) {
	req, err := s.CallRepo.GetRequest(ctx, requestID)
	if err != nil {
		return models.Call{}, err
	}
	if req.Status != domain.CallWaiting {
		return models.Call{}, domain.ConflictError{Resource: "call request", Msg: "request is not waiting"}
	}

	call := models.Call{
		ID:        uuid.NewString(),
		CallerID:  req.UserID,
		CalleeID:  calleeID,
		Language:  req.Language,
		Status:    domain.CallConnected,
		RoomID:    uuid.NewString(),
		StartedAt: utils.NowUTC(),
	}
	if err := s.CallRepo.ConnectRequest(ctx, requestID, call); err != nil {
		return models.Call{}, err
	}
	return call, nil
}

// EndCall closes a connected call and records its duration. Only the two
// parties on the call may end it.
func (s CallService) EndCall(ctx context.Context, sess session.Session, callID string) (models.Call, error) {
	if !sess.Authenticated() {
		return models.Call{}, domain.UnauthenticatedError{}
	}
	if sess.Profile == nil {
		return models.Call{}, domain.ProfileIncompleteError{AuthID: sess.AuthID}
	}

	call, err := s.CallRepo.GetCall(ctx, callID)
	if err != nil {
		return models.Call{}, err
	}
	if actor := sess.Profile.ID; actor != call.CallerID && actor != call.CalleeID {
		return models.Call{}, domain.ValidationError{Field: "call_id", Msg: "you did not take part in this call"}
	}

	endedAt := utils.NowUTC()
	duration := int(endedAt.Sub(call.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	if err := s.CallRepo.EndCall(ctx, callID, endedAt, duration); err != nil {
		return models.Call{}, err
	}

	call.Status = domain.CallEnded
	call.EndedAt = &endedAt
	call.DurationSeconds = duration
	return call, nil
}

// SubmitFeedback stores a 1..5 rating for the other party of a call and
// folds it into their running mean.
func (s CallService) SubmitFeedback(ctx context.Context, sess session.Session, callID string, rating int, comment string) (models.CallFeedback, error) {
	if !sess.Authenticated() {
		return models.CallFeedback{}, domain.UnauthenticatedError{}
	}
	if sess.Profile == nil {
		return models.CallFeedback{}, domain.ProfileIncompleteError{AuthID: sess.AuthID}
	}
	if rating < 1 || rating > 5 {
		return models.CallFeedback{}, domain.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}

	call, err := s.CallRepo.GetCall(ctx, callID)
	if err != nil {
		return models.CallFeedback{}, err
	}

	reviewer := sess.Profile.ID
	var reviewee string
	switch reviewer {
	case call.CallerID:
		reviewee = call.CalleeID
	case call.CalleeID:
		reviewee = call.CallerID
	default:
		return models.CallFeedback{}, domain.ValidationError{Field: "call_id", Msg: "you did not take part in this call"}
	}

	fb := models.CallFeedback{
		ID:         uuid.NewString(),
		CallID:     callID,
		ReviewerID: reviewer,
		RevieweeID: reviewee,
		Rating:     rating,
		Comment:    utils.TrimOrEmpty(comment),
		CreatedAt:  utils.NowUTC(),
	}
	if err := s.CallRepo.CreateFeedback(ctx, fb); err != nil {
		return models.CallFeedback{}, err
	}
	return fb, nil
}
