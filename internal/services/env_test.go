package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/testutil"
)

type testEnv struct {
	db     *gorm.DB
	posts  *testutil.MemPosts
	broker *realtime.LocalBroker

	users         repositories.UserRepository
	likes         repositories.LikeRepository
	bookmarks     repositories.BookmarkRepository
	comments      repositories.CommentRepository
	follows       repositories.FollowRepository
	tags          repositories.HashtagRepository
	notifications repositories.NotificationRepository
	conversations repositories.ConversationRepository
	groups        repositories.GroupChatRepository

	enricher  *Enricher
	feed      *FeedService
	post      *PostService
	comment   *CommentService
	hashtag   *HashtagService
	follow    *FollowService
	notify    *NotificationService
	messaging *MessagingService
	search    *SearchService
	profile   *ProfileService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	e := &testEnv{
		db:            db,
		posts:         testutil.NewMemPosts(),
		broker:        realtime.NewLocalBroker(),
		users:         repositories.NewPostgresUserRepository(db),
		likes:         repositories.NewPostgresLikeRepository(db),
		bookmarks:     repositories.NewPostgresBookmarkRepository(db),
		comments:      repositories.NewPostgresCommentRepository(db),
		follows:       repositories.NewPostgresFollowRepository(db),
		tags:          repositories.NewPostgresHashtagRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
		conversations: repositories.NewPostgresConversationRepository(db),
		groups:        repositories.NewPostgresGroupChatRepository(db),
	}
	e.enricher = NewEnricher(e.users, e.likes, e.comments, e.bookmarks)
	e.notify = NewNotificationService(e.notifications, e.enricher, e.broker)
	e.hashtag = NewHashtagService(e.tags, e.posts, e.enricher)
	e.feed = NewFeedService(e.posts, e.bookmarks, e.enricher)
	e.post = NewPostService(e.posts, e.likes, e.bookmarks, e.comments, e.hashtag, e.enricher, e.notify, e.broker)
	e.comment = NewCommentService(e.comments, e.posts, e.enricher, e.notify)
	e.follow = NewFollowService(e.follows, e.users, e.notify)
	e.messaging = NewMessagingService(e.conversations, e.groups, e.posts, e.users, e.enricher, e.notify, e.broker)
	e.search = NewSearchService(e.users, e.posts, e.enricher)
	e.profile = NewProfileService(e.users, e.follow, e.feed)
	return e
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	return testutil.CreateUser(t, e.db, username)
}

func (e *testEnv) createPost(t *testing.T, authorID uint, content string) *models.PostView {
	t.Helper()
	v, err := e.post.Create(context.Background(), authorID, models.CreatePostRequest{Content: content})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return v
}

func (e *testEnv) notificationsFor(t *testing.T, userID uint) []models.Notification {
	t.Helper()
	rows, err := e.notifications.GetByUserID(context.Background(), userID, 100)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	return rows
}
