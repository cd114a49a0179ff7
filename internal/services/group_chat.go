package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

// ListGroupChats returns the viewer's groups, most recently active first.
func (s *MessagingService) ListGroupChats(ctx context.Context, viewerID uint) ([]models.GroupChatView, error) {
	if err := requireViewer(viewerID); err != nil {
		return nil, err
	}
	ids, err := s.groups.GroupIDsForUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("group ids: %w", err)
	}
	groups, err := s.groups.GetGroupsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("groups: %w", err)
	}

	views := make([]models.GroupChatView, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i := range groups {
		i := i
		g.Go(func() error {
			v, err := s.groupView(gctx, groups[i])
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

func (s *MessagingService) groupView(ctx context.Context, group models.GroupChat) (*models.GroupChatView, error) {
	var (
		members []models.GroupChatMember
		latest  *models.GroupChatMessage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		members, err = s.groups.Members(gctx, group.ID)
		return err
	})
	g.Go(func() (err error) {
		latest, err = s.groups.LatestMessage(gctx, group.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("group %d: %w", group.ID, err)
	}

	ids := make([]uint, 0, len(members)+1)
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	if latest != nil {
		ids = append(ids, latest.SenderID)
	}
	profiles, err := s.enricher.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &models.GroupChatView{GroupChat: group, Members: make([]models.Profile, len(members)), MemberCount: len(members)}
	for i, m := range members {
		view.Members[i] = profileOr(profiles, m.UserID)
	}
	if latest != nil {
		view.LastMessage = &models.GroupMessageView{GroupChatMessage: *latest, Profile: profilePtr(profiles, latest.SenderID)}
	}
	return view, nil
}

// CreateGroupChat makes the viewer admin of a new group. The requested
// members are deduplicated and the creator is dropped from them. Every
// member gets a group_invite notification.
func (s *MessagingService) CreateGroupChat(ctx context.Context, viewerID uint, req models.CreateGroupChatRequest) (*models.GroupChatView, error) {
	if err := requireViewer(viewerID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyContent
	}

	invited := make([]uint, 0, len(req.MemberIDs))
	for _, id := range distinct(req.MemberIDs) {
		if id != 0 && id != viewerID {
			invited = append(invited, id)
		}
	}
	if len(invited) > 0 {
		found, err := s.users.GetUsersByIDs(ctx, invited)
		if err != nil {
			return nil, fmt.Errorf("group members: %w", err)
		}
		if len(found) != len(invited) {
			return nil, fmt.Errorf("group members: %w", ErrNotFound)
		}
	}

	group := &models.GroupChat{Name: name, Description: strings.TrimSpace(req.Description), CreatedBy: viewerID}
	members := make([]models.GroupChatMember, 0, len(invited)+1)
	members = append(members, models.GroupChatMember{UserID: viewerID, Role: models.GroupRoleAdmin})
	for _, id := range invited {
		members = append(members, models.GroupChatMember{UserID: id, Role: models.GroupRoleMember})
	}
	if err := s.groups.CreateGroup(ctx, group, members); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	for _, id := range invited {
		s.notifier.send(ctx, id, viewerID, models.NotificationGroupInvite, "added you to "+name, nil, nil)
	}
	return s.groupView(ctx, *group)
}

// AddGroupMember lets a group admin add userID as a member.
func (s *MessagingService) AddGroupMember(ctx context.Context, viewerID, groupID, userID uint) error {
	if err := requireViewer(viewerID); err != nil {
		return err
	}
	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return notFound(fmt.Sprintf("group %d", groupID), err)
	}
	members, err := s.groups.Members(ctx, groupID)
	if err != nil {
		return fmt.Errorf("group %d members: %w", groupID, err)
	}
	admin := false
	for _, m := range members {
		if m.UserID == userID {
			return nil
		}
		if m.UserID == viewerID && m.Role == models.GroupRoleAdmin {
			admin = true
		}
	}
	if !admin {
		return ErrForbidden
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return notFound(fmt.Sprintf("user %d", userID), err)
	}
	if err := s.groups.AddMember(ctx, &models.GroupChatMember{GroupChatID: groupID, UserID: userID, Role: models.GroupRoleMember}); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	s.notifier.send(ctx, userID, viewerID, models.NotificationGroupInvite, "added you to "+group.Name, nil, nil)
	return nil
}

// GroupMessages returns a group's messages oldest first.
func (s *MessagingService) GroupMessages(ctx context.Context, viewerID, groupID uint) ([]models.GroupMessageView, error) {
	if err := s.requireMember(ctx, viewerID, groupID); err != nil {
		return nil, err
	}
	msgs, err := s.groups.GetMessages(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group %d messages: %w", groupID, err)
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

	views := make([]models.GroupMessageView, len(msgs))
	for i, m := range msgs {
		views[i] = models.GroupMessageView{GroupChatMessage: m, Profile: profilePtr(profiles, m.SenderID)}
		if m.SharedPostID != nil {
			views[i].SharedPost = posts[*m.SharedPostID]
		}
	}
	return views, nil
}

// SendGroupMessage appends a message to a group and bumps its activity.
func (s *MessagingService) SendGroupMessage(ctx context.Context, viewerID, groupID uint, req models.SendMessageRequest) (*models.GroupMessageView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if err := s.requireMember(ctx, viewerID, groupID); err != nil {
		return nil, err
	}
	var shared *models.PostView
	if req.SharedPostID != nil {
		post, err := s.posts.GetPostByID(ctx, *req.SharedPostID)
		if err != nil {
			return nil, notFound("post "+*req.SharedPostID, err)
		}
		if shared, err = s.enricher.EnrichOne(ctx, viewerID, *post); err != nil {
			return nil, err
		}
	}

	msg := &models.GroupChatMessage{GroupChatID: groupID, SenderID: viewerID, Content: content, SharedPostID: req.SharedPostID}
	if err := s.groups.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("send group message: %w", err)
	}

	log := logger.FromContext(ctx).With(zap.Uint("group_chat_id", groupID))
	if err := s.groups.Touch(ctx, groupID, s.now()); err != nil {
		log.Warn("group not touched", zap.Error(err))
	}
	if members, err := s.groups.Members(ctx, groupID); err != nil {
		log.Warn("members not loaded, skipping fan-out", zap.Error(err))
	} else {
		ids := make([]uint, len(members))
		for i, m := range members {
			ids[i] = m.UserID
		}
		publish(ctx, s.publisher, realtime.Insert(realtime.TableGroupMessages, msg.ID, ids...))
	}

	profiles, err := s.enricher.Profiles(ctx, []uint{viewerID})
	if err != nil {
		return nil, err
	}
	return &models.GroupMessageView{GroupChatMessage: *msg, Profile: profilePtr(profiles, viewerID), SharedPost: shared}, nil
}

func (s *MessagingService) requireMember(ctx context.Context, viewerID, groupID uint) error {
	if err := requireViewer(viewerID); err != nil {
		return err
	}
	ok, err := s.groups.IsMember(ctx, groupID, viewerID)
	if err != nil {
		return fmt.Errorf("member check: %w", err)
	}
	if !ok {
		return ErrNotParticipant
	}
	return nil
}
