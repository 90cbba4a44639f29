package controllers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/middleware"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
	"github.com/acadcentral/acportal_backend/internal/utils"
)

// ChatController handles direct messages. A conversation is identified by the
// two participant ids sorted and joined with an underscore, so either side
// derives the same key.
type ChatController struct {
	Store *store.Store
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

type contactEntry struct {
	models.User
	LastMessage string `json:"lastMessage,omitempty"`
	LastTime    string `json:"lastTime,omitempty"`
	Unread      int    `json:"unread"`
}

// ConversationKey derives the shared key for a pair of user ids.
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// Messages returns the conversation with the given peer, oldest first.
func (cc *ChatController) Messages(c *gin.Context) {
	user := middleware.CurrentUser(c)
	key := ConversationKey(user.ID, c.Param("peer_id"))

	out := []models.ChatMessage{}
	for _, m := range store.Load[models.ChatMessage](cc.Store, collections.ChatMessages) {
		if m.Key == key {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	c.JSON(http.StatusOK, out)
}

func (cc *ChatController) Send(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty message"})
		return
	}

	msg := models.ChatMessage{
		ID:         utils.NewID("msg"),
		Key:        ConversationKey(user.ID, req.ReceiverID),
		SenderID:   user.ID,
		SenderName: user.Name,
		SenderRole: user.Role,
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
		Timestamp:  utils.NowISO(),
		Read:       false,
	}
	messages := store.Load[models.ChatMessage](cc.Store, collections.ChatMessages)
	messages = append(messages, msg)
	store.Save(cc.Store, collections.ChatMessages, messages)
	c.JSON(http.StatusCreated, msg)
}

// Contacts lists who the caller can message: students see faculty and admin,
// everyone else sees all users. Contacts with conversation history sort by
// most recent message; each entry carries the caller's unread count.
func (cc *ChatController) Contacts(c *gin.Context) {
	user := middleware.CurrentUser(c)
	users := store.Load[models.User](cc.Store, collections.Users)
	messages := store.Load[models.ChatMessage](cc.Store, collections.ChatMessages)

	type convoInfo struct {
		lastText string
		lastTime string
		unread   int
	}
	byKey := map[string]*convoInfo{}
	for _, m := range messages {
		info := byKey[m.Key]
		if info == nil {
			info = &convoInfo{}
			byKey[m.Key] = info
		}
		if m.Timestamp >= info.lastTime {
			info.lastTime = m.Timestamp
			info.lastText = m.Text
		}
		if m.ReceiverID == user.ID && !m.Read {
			info.unread++
		}
	}

	out := []contactEntry{}
	for _, u := range users {
		if u.ID == user.ID {
			continue
		}
		if user.Role == models.RoleStudent && u.Role == models.RoleStudent {
			continue
		}
		entry := contactEntry{User: u.Sanitized()}
		if info := byKey[ConversationKey(user.ID, u.ID)]; info != nil {
			entry.LastMessage = info.lastText
			entry.LastTime = info.lastTime
			entry.Unread = info.unread
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].LastTime != "") != (out[j].LastTime != "") {
			return out[i].LastTime != ""
		}
		if out[i].LastTime != out[j].LastTime {
			return out[i].LastTime > out[j].LastTime
		}
		return out[i].Name < out[j].Name
	})
	c.JSON(http.StatusOK, out)
}

// UnreadCount totals unread messages addressed to the caller. Messages from
// senders that no longer exist are skipped so stale rows cannot pin the badge.
func (cc *ChatController) UnreadCount(c *gin.Context) {
	user := middleware.CurrentUser(c)
	known := map[string]bool{}
	for _, u := range store.Load[models.User](cc.Store, collections.Users) {
		known[u.ID] = true
	}
	count := 0
	for _, m := range store.Load[models.ChatMessage](cc.Store, collections.ChatMessages) {
		if m.ReceiverID == user.ID && !m.Read && known[m.SenderID] {
			count++
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead flags every message from the given peer to the caller as read.
func (cc *ChatController) MarkRead(c *gin.Context) {
	user := middleware.CurrentUser(c)
	peerID := c.Param("peer_id")

	messages := store.Load[models.ChatMessage](cc.Store, collections.ChatMessages)
	changed := false
	for i := range messages {
		if messages[i].SenderID == peerID && messages[i].ReceiverID == user.ID && !messages[i].Read {
			messages[i].Read = true
			changed = true
		}
	}
	if changed {
		store.Save(cc.Store, collections.ChatMessages, messages)
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
