package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

// Repos groups the data-access objects the services read and write.
type Repos struct {
	Users         repositories.UserRepository
	Posts         repositories.PostRepository
	Likes         repositories.LikeRepository
	Bookmarks     repositories.BookmarkRepository
	Comments      repositories.CommentRepository
	Follows       repositories.FollowRepository
	Hashtags      repositories.HashtagRepository
	Notifications repositories.NotificationRepository
	Conversations repositories.ConversationRepository
	Groups        repositories.GroupChatRepository
}

// PostgresRepos builds every relational repository on db. Posts live in a
// separate document store and are passed in.
func PostgresRepos(db *gorm.DB, posts repositories.PostRepository) Repos {
	return Repos{
		Users:         repositories.NewPostgresUserRepository(db),
		Posts:         posts,
		Likes:         repositories.NewPostgresLikeRepository(db),
		Bookmarks:     repositories.NewPostgresBookmarkRepository(db),
		Comments:      repositories.NewPostgresCommentRepository(db),
		Follows:       repositories.NewPostgresFollowRepository(db),
		Hashtags:      repositories.NewPostgresHashtagRepository(db),
		Notifications: repositories.NewPostgresNotificationRepository(db),
		Conversations: repositories.NewPostgresConversationRepository(db),
		Groups:        repositories.NewPostgresGroupChatRepository(db),
	}
}

// Options carries the non-repository dependencies. Verifier and Store may be
// nil, which disables Firebase login and uploads respectively.
type Options struct {
	Publisher realtime.Publisher
	Verifier  TokenVerifier
	Store     ObjectStore
	JWTSecret string
	JWTTTL    time.Duration
}

type Services struct {
	Enricher      *Enricher
	Auth          *AuthService
	Feed          *FeedService
	Posts         *PostService
	Comments      *CommentService
	Hashtags      *HashtagService
	Follows       *FollowService
	Notifications *NotificationService
	Messaging     *MessagingService
	Search        *SearchService
	Profiles      *ProfileService
	Uploads       *UploadService
}

func New(r Repos, opts Options) *Services {
	s := &Services{}
	s.Enricher = NewEnricher(r.Users, r.Likes, r.Comments, r.Bookmarks)
	s.Notifications = NewNotificationService(r.Notifications, s.Enricher, opts.Publisher)
	s.Hashtags = NewHashtagService(r.Hashtags, r.Posts, s.Enricher)
	s.Feed = NewFeedService(r.Posts, r.Bookmarks, s.Enricher)
	s.Posts = NewPostService(r.Posts, r.Likes, r.Bookmarks, r.Comments, s.Hashtags, s.Enricher, s.Notifications, opts.Publisher)
	s.Comments = NewCommentService(r.Comments, r.Posts, s.Enricher, s.Notifications)
	s.Follows = NewFollowService(r.Follows, r.Users, s.Notifications)
	s.Messaging = NewMessagingService(r.Conversations, r.Groups, r.Posts, r.Users, s.Enricher, s.Notifications, opts.Publisher)
	s.Search = NewSearchService(r.Users, r.Posts, s.Enricher)
	s.Profiles = NewProfileService(r.Users, s.Follows, s.Feed)
	s.Uploads = NewUploadService(opts.Store)
	s.Auth = NewAuthService(r.Users, opts.Verifier, opts.JWTSecret, opts.JWTTTL)
	return s
}
