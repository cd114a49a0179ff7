package live

// Commands sent by the client.
const (
	CmdLoadMore       = "load_more"
	CmdRefresh        = "refresh"
	CmdToggleLike     = "toggle_like"
	CmdToggleBookmark = "toggle_bookmark"
	CmdDeletePost     = "delete_post"
	CmdComment        = "comment"
)

// Frames pushed by the server.
const (
	FrameFeed          = "feed"
	FramePost          = "post"
	FrameConversations = "conversations"
	FrameGroupChats    = "group_chats"
	FrameNotifications = "notifications"
	FrameError         = "error"
)

type Command struct {
	Type     string `json:"type"`
	PostID   string `json:"post_id,omitempty"`
	Content  string `json:"content,omitempty"`
	ParentID *uint  `json:"parent_comment_id,omitempty"`
}

type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ErrorData struct {
	Command string `json:"command,omitempty"`
	Message string `json:"message"`
}
