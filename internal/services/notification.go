package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anonto42/linkup/backend/internal/metrics"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

// NotificationLimit caps how many notifications a list returns.
const NotificationLimit = 50

type NotificationList struct {
	Notifications []models.NotificationView `json:"notifications"`
	UnreadCount   int                       `json:"unread_count"`
}

type GroupedNotifications struct {
	Today       []models.NotificationView `json:"today"`
	Yesterday   []models.NotificationView `json:"yesterday"`
	ThisWeek    []models.NotificationView `json:"this_week"`
	Older       []models.NotificationView `json:"older"`
	UnreadCount int                       `json:"unread_count"`
}

type NotificationService struct {
	repo      repositories.NotificationRepository
	enricher  *Enricher
	publisher realtime.Publisher
	now       func() time.Time
}

func NewNotificationService(repo repositories.NotificationRepository, enricher *Enricher, publisher realtime.Publisher) *NotificationService {
	return &NotificationService{repo: repo, enricher: enricher, publisher: publisher, now: time.Now}
}

// Notify stores n and announces it to the recipient. Notifications about a
// user's own actions are dropped.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	if n.ActorID != nil && *n.ActorID == n.UserID {
		return nil
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	publish(ctx, s.publisher, realtime.Insert(realtime.TableNotifications, n.ID, n.UserID))
	return nil
}

// send builds "<actor name> <verb>" and notifies recipient. Failures are
// logged; the action that triggered the notification has already happened.
func (s *NotificationService) send(ctx context.Context, recipient, actor uint, typ models.NotificationType, verb string, postID *string, commentID *uint) {
	if recipient == actor {
		return
	}
	log := logger.FromContext(ctx)

	name := models.UnknownProfile(actor).Name
	if profiles, err := s.enricher.Profiles(ctx, []uint{actor}); err != nil {
		log.Warn("notification actor lookup failed", zap.Uint("actor_id", actor), zap.Error(err))
	} else if p, ok := profiles[actor]; ok {
		name = p.Name
	}

	n := &models.Notification{
		UserID:    recipient,
		ActorID:   &actor,
		Type:      typ,
		PostID:    postID,
		CommentID: commentID,
		Message:   name + " " + verb,
	}
	if err := s.Notify(ctx, n); err != nil {
		log.Warn("notification not delivered",
			zap.Uint("user_id", recipient), zap.String("type", string(typ)), zap.Error(err))
	}
}

// List returns the latest notifications with actor profiles. UnreadCount is
// counted over the returned rows only.
func (s *NotificationService) List(ctx context.Context, userID uint) (*NotificationList, error) {
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	rows, err := s.repo.GetByUserID(ctx, userID, NotificationLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	actorIDs := make([]uint, 0, len(rows))
	for _, n := range rows {
		if n.ActorID != nil {
			actorIDs = append(actorIDs, *n.ActorID)
		}
	}
	profiles, err := s.enricher.Profiles(ctx, actorIDs)
	if err != nil {
		return nil, err
	}

	list := &NotificationList{Notifications: make([]models.NotificationView, len(rows))}
	for i, n := range rows {
		view := models.NotificationView{Notification: n}
		if n.ActorID != nil {
			view.Actor = profilePtr(profiles, *n.ActorID)
		}
		if !n.Read {
			list.UnreadCount++
		}
		list.Notifications[i] = view
	}
	return list, nil
}

func (s *NotificationService) Grouped(ctx context.Context, userID uint) (*GroupedNotifications, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	g := GroupNotifications(list.Notifications, s.now())
	g.UnreadCount = list.UnreadCount
	return &g, nil
}

// GroupNotifications buckets notifications by calendar day relative to now.
// ThisWeek covers the five days before yesterday.
func GroupNotifications(list []models.NotificationView, now time.Time) GroupedNotifications {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	weekStart := today.AddDate(0, 0, -6)

	g := GroupedNotifications{
		Today:     []models.NotificationView{},
		Yesterday: []models.NotificationView{},
		ThisWeek:  []models.NotificationView{},
		Older:     []models.NotificationView{},
	}
	for _, n := range list {
		at := n.CreatedAt.In(now.Location())
		switch {
		case !at.Before(today):
			g.Today = append(g.Today, n)
		case !at.Before(yesterday):
			g.Yesterday = append(g.Yesterday, n)
		case !at.Before(weekStart):
			g.ThisWeek = append(g.ThisWeek, n)
		default:
			g.Older = append(g.Older, n)
		}
	}
	return g
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	if err := requireViewer(userID); err != nil {
		return 0, err
	}
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	if err := requireViewer(userID); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := requireViewer(userID); err != nil {
		return err
	}
	return s.repo.MarkAllAsRead(ctx, userID)
}

// publish announces an insert. The row is already stored, so a broker
// failure is only logged.
func publish(ctx context.Context, p realtime.Publisher, event realtime.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("realtime publish failed",
			zap.String("table", event.Table), zap.Uint("record_id", event.RecordID), zap.Error(err))
		return
	}
	metrics.RealtimeEvents.WithLabelValues(event.Table).Inc()
}
