package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/realtime"
)

func TestStartConversationReusesDirect(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	conv, created, err := e.messaging.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, conv.Participants, 1)
	assert.Equal(t, "bob", conv.Participants[0].Username)

	again, created, err := e.messaging.StartConversation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv.ID, again.ID)

	_, _, err = e.messaging.StartConversation(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfConversation)
	_, _, err = e.messaging.StartConversation(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendMessageFlow(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	carol := e.user(t, "carol")

	events, err := e.broker.Subscribe(ctx, realtime.TableMessages)
	require.NoError(t, err)

	withBob, _, err := e.messaging.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	withCarol, _, err := e.messaging.StartConversation(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	_, err = e.messaging.SendMessage(ctx, carol.ID, withBob.ID, models.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrNotParticipant)
	_, err = e.messaging.SendMessage(ctx, alice.ID, withBob.ID, models.SendMessageRequest{Content: "  "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	e.messaging.now = func() time.Time { return time.Now().Add(time.Hour) }
	msg, err := e.messaging.SendMessage(ctx, bob.ID, withBob.ID, models.SendMessageRequest{Content: "hello alice"})
	require.NoError(t, err)
	assert.Equal(t, "bob", msg.Profile.Username)

	select {
	case ev := <-events:
		assert.Equal(t, msg.ID, ev.RecordID)
		assert.True(t, ev.Concerns(alice.ID))
		assert.False(t, ev.Concerns(carol.ID))
	case <-time.After(time.Second):
		t.Fatal("no realtime event")
	}

	list, err := e.messaging.ListConversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, withBob.ID, list[0].ID, "touched conversation first")
	assert.Equal(t, withCarol.ID, list[1].ID)
	require.NotNil(t, list[0].LastMessage)
	assert.Equal(t, "hello alice", list[0].LastMessage.Content)
	assert.Equal(t, "bob", list[0].LastMessage.Profile.Username)
	assert.Nil(t, list[1].LastMessage)
	assert.Zero(t, list[0].UnreadCount)

	msgs, err := e.messaging.Messages(ctx, alice.ID, withBob.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	_, err = e.messaging.Messages(ctx, carol.ID, withBob.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	notes := e.notificationsFor(t, alice.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationMessage, notes[0].Type)
	assert.Empty(t, e.notificationsFor(t, bob.ID))
}

func TestSharePost(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	long := strings.Repeat("a", 60)
	post := e.createPost(t, bob.ID, long)
	conv, _, err := e.messaging.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	msg, err := e.messaging.SharePost(ctx, alice.ID, post.ID.Hex(), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Check out this post: "+strings.Repeat("a", 50)+"...", msg.Content)
	require.NotNil(t, msg.SharedPostID)
	require.NotNil(t, msg.SharedPost)
	assert.Equal(t, "bob", msg.SharedPost.Profile.Username)

	msgs, err := e.messaging.Messages(ctx, bob.ID, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].SharedPost)
	assert.Equal(t, post.ID, msgs[0].SharedPost.ID)

	notes := e.notificationsFor(t, bob.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationShare, notes[0].Type)

	targets, err := e.messaging.ShareTargets(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, conv.ID, targets[0].ConversationID)
	assert.Equal(t, "bob", targets[0].Participant.Username)
}

func TestSharePreview(t *testing.T) {
	assert.Equal(t, "Check out this post: short...", SharePreview("short"))
	assert.Equal(t, "Check out this post: "+strings.Repeat("é", 50)+"...", SharePreview(strings.Repeat("é", 70)))
}

func TestGroupChats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	carol := e.user(t, "carol")
	dave := e.user(t, "dave")

	group, err := e.messaging.CreateGroupChat(ctx, alice.ID, models.CreateGroupChatRequest{
		Name:      " Hikers ",
		MemberIDs: []uint{bob.ID, bob.ID, alice.ID, carol.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hikers", group.Name)
	assert.Equal(t, 3, group.MemberCount)

	members, err := e.groups.Members(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, models.GroupRoleAdmin, members[0].Role)
	assert.Equal(t, models.GroupRoleMember, members[1].Role)

	invites := e.notificationsFor(t, bob.ID)
	require.Len(t, invites, 1)
	assert.Equal(t, models.NotificationGroupInvite, invites[0].Type)
	assert.Equal(t, "Alice added you to Hikers", invites[0].Message)

	_, err = e.messaging.SendGroupMessage(ctx, dave.ID, group.ID, models.SendMessageRequest{Content: "let me in"})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = e.messaging.SendGroupMessage(ctx, carol.ID, group.ID, models.SendMessageRequest{Content: "trail at 9"})
	require.NoError(t, err)

	list, err := e.messaging.ListGroupChats(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].LastMessage)
	assert.Equal(t, "carol", list[0].LastMessage.Profile.Username)

	assert.ErrorIs(t, e.messaging.AddGroupMember(ctx, bob.ID, group.ID, dave.ID), ErrForbidden)
	require.NoError(t, e.messaging.AddGroupMember(ctx, alice.ID, group.ID, dave.ID))

	msgs, err := e.messaging.GroupMessages(ctx, dave.ID, group.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = e.messaging.CreateGroupChat(ctx, alice.ID, models.CreateGroupChatRequest{Name: "x", MemberIDs: []uint{404}})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.messaging.CreateGroupChat(ctx, alice.ID, models.CreateGroupChatRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrEmptyContent)
}
