package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

const (
	// listConcurrency bounds the per-conversation loads of a list call.
	listConcurrency = 8
	sharePreviewLen = 50
)

type MessagingService struct {
	conversations repositories.ConversationRepository
	groups        repositories.GroupChatRepository
	posts         repositories.PostRepository
	users         repositories.UserRepository
	enricher      *Enricher
	notifier      *NotificationService
	publisher     realtime.Publisher
	now           func() time.Time
}

func NewMessagingService(
	conversations repositories.ConversationRepository,
	groups repositories.GroupChatRepository,
	posts repositories.PostRepository,
	users repositories.UserRepository,
	enricher *Enricher,
	notifier *NotificationService,
	publisher realtime.Publisher,
) *MessagingService {
	return &MessagingService{
		conversations: conversations,
		groups:        groups,
		posts:         posts,
		users:         users,
		enricher:      enricher,
		notifier:      notifier,
		publisher:     publisher,
		now:           time.Now,
	}
}

// ListConversations returns the viewer's conversations, most recently active
// first, each with the other participants and its latest message.
func (s *MessagingService) ListConversations(ctx context.Context, viewerID uint) ([]models.ConversationView, error) {
	if err := requireViewer(viewerID); err != nil {
		return nil, err
	}
	ids, err := s.conversations.ConversationIDsForUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("conversation ids: %w", err)
	}
	convs, err := s.conversations.GetConversationsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("conversations: %w", err)
	}

	views := make([]models.ConversationView, len(convs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i := range convs {
		i := i
		g.Go(func() error {
			v, err := s.conversationView(gctx, viewerID, convs[i])
			if err != nil {
				return err
			}
			views[i] = *v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *MessagingService) conversationView(ctx context.Context, viewerID uint, conv models.Conversation) (*models.ConversationView, error) {
	view := &models.ConversationView{Conversation: conv, Participants: []models.Profile{}}

	var (
		memberIDs []uint
		latest    *models.Message
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		memberIDs, err = s.conversations.ParticipantIDs(gctx, conv.ID)
		return err
	})
	g.Go(func() (err error) {
		latest, err = s.conversations.LatestMessage(gctx, conv.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("conversation %d: %w", conv.ID, err)
	}

	others := make([]uint, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != viewerID {
			others = append(others, id)
		}
	}
	lookup := others
	if latest != nil {
		lookup = append(lookup[:len(lookup):len(lookup)], latest.SenderID)
	}
	profiles, err := s.enricher.Profiles(ctx, lookup)
	if err != nil {
		return nil, err
	}
	for _, id := range others {
		view.Participants = append(view.Participants, profileOr(profiles, id))
	}
	if latest != nil {
		view.LastMessage = &models.MessageView{Message: *latest, Profile: profilePtr(profiles, latest.SenderID)}
	}
	return view, nil
}

// Messages returns a conversation's messages oldest first.
func (s *MessagingService) Messages(ctx context.Context, viewerID, conversationID uint) ([]models.MessageView, error) {
	if err := s.requireParticipant(ctx, viewerID, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.conversations.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("messages of %d: %w", conversationID, err)
	}

	senders := make([]uint, len(msgs))
	shared := make([]string, 0)
	for i, m := range msgs {
		senders[i] = m.SenderID
		if m.SharedPostID != nil {
			shared = append(shared, *m.SharedPostID)
		}
	}
	profiles, posts, err := s.messageContext(ctx, viewerID, senders, shared)
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, len(msgs))
	for i, m := range msgs {
		views[i] = models.MessageView{Message: m, Profile: profilePtr(profiles, m.SenderID)}
		if m.SharedPostID != nil {
			views[i].SharedPost = posts[*m.SharedPostID]
		}
	}
	return views, nil
}

// SendMessage appends a message and bumps the conversation to the top of
// every participant's list.
func (s *MessagingService) SendMessage(ctx context.Context, viewerID, conversationID uint, req models.SendMessageRequest) (*models.MessageView, error) {
	return s.sendDirect(ctx, viewerID, conversationID, req.Content, req.SharedPostID,
		models.NotificationMessage, "sent you a message")
}

// SharePost sends postID into a conversation as a message with a preview of
// its content.
func (s *MessagingService) SharePost(ctx context.Context, viewerID uint, postID string, conversationID uint) (*models.MessageView, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, notFound("post "+postID, err)
	}
	return s.sendDirect(ctx, viewerID, conversationID, SharePreview(post.Content), &postID,
		models.NotificationShare, "shared a post with you")
}

// SharePreview is the message text used when a post is shared.
func SharePreview(content string) string {
	r := []rune(content)
	if len(r) > sharePreviewLen {
		r = r[:sharePreviewLen]
	}
	return "Check out this post: " + string(r) + "..."
}

func (s *MessagingService) sendDirect(
	ctx context.Context,
	viewerID, conversationID uint,
	content string,
	sharedPostID *string,
	typ models.NotificationType,
	verb string,
) (*models.MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if err := s.requireParticipant(ctx, viewerID, conversationID); err != nil {
		return nil, err
	}
	var shared *models.PostView
	if sharedPostID != nil {
		post, err := s.posts.GetPostByID(ctx, *sharedPostID)
		if err != nil {
			return nil, notFound("post "+*sharedPostID, err)
		}
		if shared, err = s.enricher.EnrichOne(ctx, viewerID, *post); err != nil {
			return nil, err
		}
	}

	msg := &models.Message{ConversationID: conversationID, SenderID: viewerID, Content: content, SharedPostID: sharedPostID}
	if err := s.conversations.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	log := logger.FromContext(ctx).With(zap.Uint("conversation_id", conversationID))
	if err := s.conversations.Touch(ctx, conversationID, s.now()); err != nil {
		log.Warn("conversation not touched", zap.Error(err))
	}

	members, err := s.conversations.ParticipantIDs(ctx, conversationID)
	if err != nil {
		log.Warn("participants not loaded, skipping fan-out", zap.Error(err))
	} else {
		publish(ctx, s.publisher, realtime.Insert(realtime.TableMessages, msg.ID, members...))
		for _, id := range members {
			s.notifier.send(ctx, id, viewerID, typ, verb, sharedPostID, nil)
		}
	}

	profiles, err := s.enricher.Profiles(ctx, []uint{viewerID})
	if err != nil {
		return nil, err
	}
	return &models.MessageView{Message: *msg, Profile: profilePtr(profiles, viewerID), SharedPost: shared}, nil
}

// StartConversation returns the existing conversation between the viewer and
// target, creating it when there is none. created reports which happened.
func (s *MessagingService) StartConversation(ctx context.Context, viewerID, targetID uint) (view *models.ConversationView, created bool, err error) {
	if err := requireViewer(viewerID); err != nil {
		return nil, false, err
	}
	if viewerID == targetID {
		return nil, false, ErrSelfConversation
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return nil, false, notFound(fmt.Sprintf("user %d", targetID), err)
	}

	var conv *models.Conversation
	id, err := s.conversations.FindDirect(ctx, viewerID, targetID)
	switch {
	case err == nil:
		convs, err := s.conversations.GetConversationsByIDs(ctx, []uint{id})
		if err != nil {
			return nil, false, fmt.Errorf("conversation %d: %w", id, err)
		}
		if len(convs) == 0 {
			return nil, false, fmt.Errorf("conversation %d: %w", id, ErrNotFound)
		}
		conv = &convs[0]
	case repositories.IsNotFound(err):
		if conv, err = s.conversations.CreateConversation(ctx, []uint{viewerID, targetID}); err != nil {
			return nil, false, fmt.Errorf("create conversation: %w", err)
		}
		created = true
	default:
		return nil, false, fmt.Errorf("find conversation: %w", err)
	}

	view, err = s.conversationView(ctx, viewerID, *conv)
	if err != nil {
		return nil, false, err
	}
	return view, created, nil
}

// ShareTargets lists, per conversation, the other participant a post can be
// shared with. Conversations without another participant are skipped.
func (s *MessagingService) ShareTargets(ctx context.Context, viewerID uint) ([]models.ShareTarget, error) {
	if err := requireViewer(viewerID); err != nil {
		return nil, err
	}
	ids, err := s.conversations.ConversationIDsForUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("conversation ids: %w", err)
	}
	convs, err := s.conversations.GetConversationsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("conversations: %w", err)
	}
	rows, err := s.conversations.OtherParticipants(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("share participants: %w", err)
	}

	other := make(map[uint]uint, len(rows))
	userIDs := make([]uint, 0, len(rows))
	for _, r := range rows {
		if _, ok := other[r.ConversationID]; !ok {
			other[r.ConversationID] = r.UserID
			userIDs = append(userIDs, r.UserID)
		}
	}
	profiles, err := s.enricher.Profiles(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	targets := make([]models.ShareTarget, 0, len(convs))
	for _, c := range convs {
		uid, ok := other[c.ID]
		if !ok {
			continue
		}
		targets = append(targets, models.ShareTarget{ConversationID: c.ID, Participant: profileOr(profiles, uid)})
	}
	return targets, nil
}

func (s *MessagingService) requireParticipant(ctx context.Context, viewerID, conversationID uint) error {
	if err := requireViewer(viewerID); err != nil {
		return err
	}
	ok, err := s.conversations.IsParticipant(ctx, conversationID, viewerID)
	if err != nil {
		return fmt.Errorf("participant check: %w", err)
	}
	if !ok {
		return ErrNotParticipant
	}
	return nil
}

// messageContext loads sender profiles and enriched shared posts in parallel.
func (s *MessagingService) messageContext(ctx context.Context, viewerID uint, senders []uint, sharedIDs []string) (map[uint]models.Profile, map[string]*models.PostView, error) {
	var (
		profiles map[uint]models.Profile
		posts    = map[string]*models.PostView{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profiles, err = s.enricher.Profiles(gctx, senders)
		return err
	})
	if len(sharedIDs) > 0 {
		g.Go(func() error {
			found, err := s.posts.GetPostsByIDs(gctx, distinct(sharedIDs))
			if err != nil {
				return fmt.Errorf("shared posts: %w", err)
			}
			views, err := s.enricher.Enrich(gctx, viewerID, found)
			if err != nil {
				return err
			}
			for i := range views {
				posts[views[i].ID.Hex()] = &views[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profiles, posts, nil
}
