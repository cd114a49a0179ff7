package live

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/timeline"
)

type fakeInbox struct {
	conversations atomic.Int32
	groups        atomic.Int32
	// onConversations runs inside ListConversations with the call number.
	onConversations func(call int32)
}

func (f *fakeInbox) ListConversations(context.Context, uint) ([]models.ConversationView, error) {
	n := f.conversations.Add(1)
	if f.onConversations != nil {
		f.onConversations(n)
	}
	return []models.ConversationView{}, nil
}

func (f *fakeInbox) ListGroupChats(context.Context, uint) ([]models.GroupChatView, error) {
	f.groups.Add(1)
	return []models.GroupChatView{}, nil
}

type fakeNotifications struct{ calls atomic.Int32 }

func (f *fakeNotifications) List(context.Context, uint) (*services.NotificationList, error) {
	f.calls.Add(1)
	return &services.NotificationList{UnreadCount: 2}, nil
}

type fakeComments struct{ err error }

func (f fakeComments) Add(_ context.Context, userID uint, postID string, req models.CreateCommentRequest) (*models.CommentView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.CommentView{}, nil
}

type fakeMutator struct{ err error }

func (f fakeMutator) SetLike(context.Context, string, bool) error     { return f.err }
func (f fakeMutator) SetBookmark(context.Context, string, bool) error { return f.err }
func (f fakeMutator) DeletePost(context.Context, string) error        { return f.err }

type fixture struct {
	session *Session
	client  *Client
	inbox   *fakeInbox
	notes   *fakeNotifications
	posts   []models.PostView
}

func newFixture(t *testing.T, mutErr error) *fixture {
	t.Helper()
	f := &fixture{inbox: &fakeInbox{}, notes: &fakeNotifications{}}
	f.posts = []models.PostView{
		{Post: models.Post{ID: primitive.NewObjectID(), Content: "one"}},
		{Post: models.Post{ID: primitive.NewObjectID(), Content: "two"}},
	}
	f.session = NewSession("s1", 7, nil)
	f.client = NewClient(f.session, Deps{
		Timelines: func(uint) *timeline.Timeline {
			return timeline.New(func(context.Context, int) ([]models.PostView, error) {
				return append([]models.PostView(nil), f.posts...), nil
			}, fakeMutator{err: mutErr})
		},
		Inbox:         f.inbox,
		Notifications: f.notes,
		Comments:      fakeComments{},
		Events:        realtime.NewLocalBroker(),
	})
	return f
}

func (f *fixture) next(t *testing.T) Frame {
	t.Helper()
	select {
	case raw := <-f.session.SendQueue:
		var frame struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &frame))
		return Frame{Type: frame.Type, Data: frame.Data}
	case <-time.After(time.Second):
		t.Fatal("no frame queued")
		return Frame{}
	}
}

func TestSyncPushesEveryView(t *testing.T) {
	f := newFixture(t, nil)
	f.client.Sync(context.Background())

	var types []string
	for i := 0; i < 4; i++ {
		types = append(types, f.next(t).Type)
	}
	assert.Equal(t, []string{FrameFeed, FrameConversations, FrameGroupChats, FrameNotifications}, types)
}

func TestHandleToggleLike(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.client.Sync(ctx)
	for i := 0; i < 4; i++ {
		f.next(t)
	}

	f.client.Handle(ctx, Command{Type: CmdToggleLike, PostID: f.posts[0].ID.Hex()})
	frame := f.next(t)
	require.Equal(t, FramePost, frame.Type)
	var post models.PostView
	require.NoError(t, json.Unmarshal(frame.Data.(json.RawMessage), &post))
	assert.True(t, post.IsLiked)
	assert.Equal(t, int64(1), post.LikesCount)
}

func TestHandleFailureSendsError(t *testing.T) {
	f := newFixture(t, errors.New("forbidden"))
	ctx := context.Background()
	f.client.Sync(ctx)
	for i := 0; i < 4; i++ {
		f.next(t)
	}

	f.client.Handle(ctx, Command{Type: CmdToggleBookmark, PostID: f.posts[0].ID.Hex()})
	frame := f.next(t)
	assert.Equal(t, FrameError, frame.Type)

	var data ErrorData
	require.NoError(t, json.Unmarshal(frame.Data.(json.RawMessage), &data))
	assert.Equal(t, CmdToggleBookmark, data.Command)
	assert.Equal(t, "forbidden", data.Message)

	f.client.Handle(ctx, Command{Type: "dance"})
	assert.Equal(t, FrameError, f.next(t).Type)
}

func TestHandleComment(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.client.Sync(ctx)
	for i := 0; i < 4; i++ {
		f.next(t)
	}

	f.client.Handle(ctx, Command{Type: CmdComment, PostID: f.posts[1].ID.Hex(), Content: "nice"})
	frame := f.next(t)
	require.Equal(t, FrameFeed, frame.Type)
	var snap timeline.Snapshot
	require.NoError(t, json.Unmarshal(frame.Data.(json.RawMessage), &snap))
	assert.Equal(t, int64(1), snap.Posts[1].CommentsCount)
}

func TestOnEventRefetchesOnlyConcernedViews(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.client.OnEvent(ctx, realtime.Insert(realtime.TableMessages, 1, 7, 8))
	assert.Equal(t, FrameConversations, f.next(t).Type)
	assert.Equal(t, int32(1), f.inbox.conversations.Load())

	f.client.OnEvent(ctx, realtime.Insert(realtime.TableNotifications, 2, 9))
	assert.Zero(t, f.notes.calls.Load(), "notification for another user")
	assert.Empty(t, f.session.SendQueue)

	f.client.OnEvent(ctx, realtime.Insert(realtime.TableGroupMessages, 3, 7))
	assert.Equal(t, FrameGroupChats, f.next(t).Type)
}

func TestRunFollowsBroker(t *testing.T) {
	broker := realtime.NewLocalBroker()
	f := newFixture(t, nil)
	f.client.deps.Events = broker

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.client.Run(ctx) }()

	// the first List comes from the initial sync
	require.Eventually(t, func() bool {
		_ = broker.Publish(ctx, realtime.Insert(realtime.TableNotifications, 1, 7))
		return f.notes.calls.Load() > 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRunKeepsEventsPublishedDuringSync(t *testing.T) {
	broker := realtime.NewLocalBroker()
	f := newFixture(t, nil)
	f.client.deps.Events = broker
	f.inbox.onConversations = func(call int32) {
		if call == 1 {
			_ = broker.Publish(context.Background(), realtime.Insert(realtime.TableMessages, 1, 7, 8))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.client.Run(ctx) }()

	require.Eventually(t, func() bool {
		return f.inbox.conversations.Load() == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestOwnPostRefreshesFeed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.client.Sync(ctx)
	for i := 0; i < 4; i++ {
		f.next(t)
	}

	f.posts = append([]models.PostView{{Post: models.Post{ID: primitive.NewObjectID(), Content: "new"}}}, f.posts...)

	f.client.OnEvent(ctx, realtime.Insert(realtime.TablePosts, 0, 8))
	assert.Empty(t, f.session.SendQueue, "post by another user")

	f.client.OnEvent(ctx, realtime.Insert(realtime.TablePosts, 0, 7))
	frame := f.next(t)
	require.Equal(t, FrameFeed, frame.Type)
	var snap timeline.Snapshot
	require.NoError(t, json.Unmarshal(frame.Data.(json.RawMessage), &snap))
	require.Len(t, snap.Posts, 3)
	assert.Equal(t, "new", snap.Posts[0].Content)
}

func TestSessionOverflowCloses(t *testing.T) {
	s := NewSession("s2", 1, nil)
	for i := 0; i < SendQueueSize; i++ {
		require.True(t, s.TrySend([]byte("x")))
	}
	assert.False(t, s.TrySend([]byte("x")))

	select {
	case <-s.Done():
	default:
		t.Fatal("session should be closed after overflow")
	}
	assert.False(t, s.TrySend([]byte("x")))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := NewSession("a", 1, nil)
	b := NewSession("b", 1, nil)
	c := NewSession("c", 2, nil)
	r.Add(a)
	r.Add(b)
	r.Add(c)
	r.Add(a)

	assert.Equal(t, 3, r.Count())
	assert.Len(t, r.UserSessions(1), 2)

	r.Remove(b)
	r.Remove(b)
	assert.Equal(t, 2, r.Count())

	r.CloseAll()
	for _, s := range []*Session{a, c} {
		select {
		case <-s.Done():
		default:
			t.Fatalf("session %s still open", s.ID)
		}
	}
}
