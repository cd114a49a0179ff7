package live

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/anonto42/linkup/backend/internal/metrics"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/timeline"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

type Inbox interface {
	ListConversations(ctx context.Context, viewerID uint) ([]models.ConversationView, error)
	ListGroupChats(ctx context.Context, viewerID uint) ([]models.GroupChatView, error)
}

type Notifications interface {
	List(ctx context.Context, userID uint) (*services.NotificationList, error)
}

type Commenter interface {
	Add(ctx context.Context, userID uint, postID string, req models.CreateCommentRequest) (*models.CommentView, error)
}

// Deps are the data sources a live session reads from.
type Deps struct {
	Timelines     func(viewerID uint) *timeline.Timeline
	Inbox         Inbox
	Notifications Notifications
	Comments      Commenter
	Events        realtime.Subscriber
}

var watchedTables = []string{
	realtime.TableMessages,
	realtime.TableGroupMessages,
	realtime.TableNotifications,
	realtime.TablePosts,
}

// Client binds one session to its user's views.
type Client struct {
	session  *Session
	deps     Deps
	timeline *timeline.Timeline
}

func NewClient(s *Session, deps Deps) *Client {
	return &Client{session: s, deps: deps, timeline: deps.Timelines(s.UserID)}
}

// Sync loads every view and pushes it.
func (c *Client) Sync(ctx context.Context) {
	if err := c.timeline.Load(ctx); err != nil {
		c.fail(ctx, "", err)
	} else {
		c.pushFeed()
	}
	c.pushConversations(ctx)
	c.pushGroupChats(ctx)
	c.pushNotifications(ctx)
}

// Run subscribes to change events, pushes every view and then refetches
// views as events arrive, until ctx is done. Events published while the
// first views load are queued and replayed afterwards.
func (c *Client) Run(ctx context.Context) error {
	events, err := c.Subscribe(ctx)
	if err != nil {
		return err
	}
	c.Sync(ctx)
	c.Consume(ctx, events)
	return nil
}

func (c *Client) Subscribe(ctx context.Context) (<-chan realtime.Event, error) {
	return c.deps.Events.Subscribe(ctx, watchedTables...)
}

// Consume handles events until the channel closes.
func (c *Client) Consume(ctx context.Context, events <-chan realtime.Event) {
	for ev := range events {
		c.OnEvent(ctx, ev)
	}
}

// OnEvent refetches the whole view the event touches. Events for other
// users are ignored.
func (c *Client) OnEvent(ctx context.Context, ev realtime.Event) {
	if !ev.Concerns(c.session.UserID) {
		return
	}
	switch ev.Table {
	case realtime.TableMessages:
		c.pushConversations(ctx)
	case realtime.TableGroupMessages:
		c.pushGroupChats(ctx)
	case realtime.TableNotifications:
		c.pushNotifications(ctx)
	case realtime.TablePosts:
		// skipped while a page load is in flight
		if err := c.timeline.Refresh(ctx); err != nil {
			if !errors.Is(err, timeline.ErrBusy) {
				c.fail(ctx, "", err)
			}
			return
		}
		c.pushFeed()
	default:
		return
	}
	metrics.RealtimeRefetches.WithLabelValues(ev.Table).Inc()
}

// Handle runs one client command and pushes the result.
func (c *Client) Handle(ctx context.Context, cmd Command) {
	var err error
	switch cmd.Type {
	case CmdLoadMore:
		if err = c.timeline.LoadMore(ctx); err == nil {
			c.pushFeed()
		}
	case CmdRefresh:
		if err = c.timeline.Refresh(ctx); err == nil {
			c.pushFeed()
		}
	case CmdToggleLike:
		var post models.PostView
		if post, err = c.timeline.ToggleLike(ctx, cmd.PostID); err == nil {
			c.session.Send(Frame{Type: FramePost, Data: post})
		}
	case CmdToggleBookmark:
		var post models.PostView
		if post, err = c.timeline.ToggleBookmark(ctx, cmd.PostID); err == nil {
			c.session.Send(Frame{Type: FramePost, Data: post})
		}
	case CmdDeletePost:
		if err = c.timeline.Delete(ctx, cmd.PostID); err == nil {
			c.pushFeed()
		}
	case CmdComment:
		req := models.CreateCommentRequest{Content: cmd.Content, ParentCommentID: cmd.ParentID}
		if _, err = c.deps.Comments.Add(ctx, c.session.UserID, cmd.PostID, req); err == nil {
			c.timeline.BumpComments(cmd.PostID, 1)
			c.pushFeed()
		}
	default:
		err = errors.New("unknown command")
	}
	if err != nil {
		c.fail(ctx, cmd.Type, err)
	}
}

func (c *Client) pushFeed() {
	c.session.Send(Frame{Type: FrameFeed, Data: c.timeline.Snapshot()})
}

func (c *Client) pushConversations(ctx context.Context) {
	list, err := c.deps.Inbox.ListConversations(ctx, c.session.UserID)
	if err != nil {
		c.fail(ctx, "", err)
		return
	}
	c.session.Send(Frame{Type: FrameConversations, Data: list})
}

func (c *Client) pushGroupChats(ctx context.Context) {
	list, err := c.deps.Inbox.ListGroupChats(ctx, c.session.UserID)
	if err != nil {
		c.fail(ctx, "", err)
		return
	}
	c.session.Send(Frame{Type: FrameGroupChats, Data: list})
}

func (c *Client) pushNotifications(ctx context.Context) {
	list, err := c.deps.Notifications.List(ctx, c.session.UserID)
	if err != nil {
		c.fail(ctx, "", err)
		return
	}
	c.session.Send(Frame{Type: FrameNotifications, Data: list})
}

func (c *Client) fail(ctx context.Context, command string, err error) {
	if ctx.Err() != nil {
		return
	}
	if !errors.Is(err, timeline.ErrBusy) {
		logger.FromContext(ctx).Warn("live: command failed", zap.String("command", command), zap.Error(err))
	}
	c.session.Send(Frame{Type: FrameError, Data: ErrorData{Command: command, Message: err.Error()}})
}
