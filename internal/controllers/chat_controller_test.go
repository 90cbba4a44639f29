package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/models"
	"github.com/acadcentral/acportal_backend/internal/store"
)

func newChatRouter(st *store.Store, user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(user))
	ctrl := &ChatController{Store: st}
	r.GET("/chat/contacts", ctrl.Contacts)
	r.GET("/chat/unread-count", ctrl.UnreadCount)
	r.GET("/chat/:peer_id/messages", ctrl.Messages)
	r.POST("/chat/messages", ctrl.Send)
	r.POST("/chat/:peer_id/read", ctrl.MarkRead)
	return r
}

func seedChatUsers(st *store.Store) {
	store.Save(st, collections.Users, []models.User{testAdmin, testFaculty, testStudent})
}

func TestConversationKey(t *testing.T) {
	if got := ConversationKey("b", "a"); got != "a_b" {
		t.Errorf("key = %q, want a_b", got)
	}
	if ConversationKey("stu-1", "fac-1") != ConversationKey("fac-1", "stu-1") {
		t.Error("key must be order independent")
	}
}

func TestSendAndReceiveMessages(t *testing.T) {
	st := newTestStore(t)
	seedChatUsers(st)

	w := doJSON(t, newChatRouter(st, testStudent), http.MethodPost, "/chat/messages",
		`{"receiverId":"fac-1","text":"hello"}`)
	wantStatus(t, w, http.StatusCreated)
	msg := decodeBody[models.ChatMessage](t, w)
	if msg.Key != "fac-1_stu-1" {
		t.Errorf("key = %q", msg.Key)
	}
	if msg.Read {
		t.Error("new messages start unread")
	}

	// Both participants resolve the same conversation.
	w = doJSON(t, newChatRouter(st, testFaculty), http.MethodGet, "/chat/stu-1/messages", "")
	wantStatus(t, w, http.StatusOK)
	if msgs := decodeBody[[]models.ChatMessage](t, w); len(msgs) != 1 || msgs[0].Text != "hello" {
		t.Errorf("messages = %v", msgs)
	}
}

func TestSendRejectsBlankText(t *testing.T) {
	st := newTestStore(t)
	seedChatUsers(st)
	w := doJSON(t, newChatRouter(st, testStudent), http.MethodPost, "/chat/messages",
		`{"receiverId":"fac-1","text":"   "}`)
	wantStatus(t, w, http.StatusBadRequest)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	st := newTestStore(t)
	seedChatUsers(st)

	student := newChatRouter(st, testStudent)
	faculty := newChatRouter(st, testFaculty)

	doJSON(t, student, http.MethodPost, "/chat/messages", `{"receiverId":"fac-1","text":"one"}`)
	doJSON(t, student, http.MethodPost, "/chat/messages", `{"receiverId":"fac-1","text":"two"}`)

	w := doJSON(t, faculty, http.MethodGet, "/chat/unread-count", "")
	wantStatus(t, w, http.StatusOK)
	count := decodeBody[map[string]int](t, w)
	if count["count"] != 2 {
		t.Errorf("count = %d, want 2", count["count"])
	}

	w = doJSON(t, faculty, http.MethodPost, "/chat/stu-1/read", "")
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, faculty, http.MethodGet, "/chat/unread-count", "")
	count = decodeBody[map[string]int](t, w)
	if count["count"] != 0 {
		t.Errorf("count after mark-read = %d, want 0", count["count"])
	}
}

func TestUnreadCountIgnoresDeletedSenders(t *testing.T) {
	st := newTestStore(t)
	seedChatUsers(st)

	// A message whose sender no longer has an account.
	store.Save(st, collections.ChatMessages, []models.ChatMessage{{
		ID: "m1", Key: "fac-1_ghost", SenderID: "ghost", ReceiverID: "fac-1",
		Text: "boo", Read: false,
	}})

	w := doJSON(t, newChatRouter(st, testFaculty), http.MethodGet, "/chat/unread-count", "")
	count := decodeBody[map[string]int](t, w)
	if count["count"] != 0 {
		t.Errorf("count = %d, want 0 for orphaned sender", count["count"])
	}
}

func TestContactsVisibilityAndOrdering(t *testing.T) {
	st := newTestStore(t)
	other := models.User{ID: "stu-2", Role: models.RoleStudent, Name: "Bela", Email: "bela@dept.edu"}
	store.Save(st, collections.Users, []models.User{testAdmin, testFaculty, testStudent, other})

	// Students never see fellow students in contacts.
	w := doJSON(t, newChatRouter(st, testStudent), http.MethodGet, "/chat/contacts", "")
	wantStatus(t, w, http.StatusOK)
	contacts := decodeBody[[]contactEntry](t, w)
	for _, entry := range contacts {
		if entry.Role == models.RoleStudent {
			t.Errorf("student contact list leaked student %s", entry.ID)
		}
	}

	// A conversation bubbles its contact to the top for faculty.
	doJSON(t, newChatRouter(st, other), http.MethodPost, "/chat/messages",
		`{"receiverId":"fac-1","text":"hi"}`)
	w = doJSON(t, newChatRouter(st, testFaculty), http.MethodGet, "/chat/contacts", "")
	contacts = decodeBody[[]contactEntry](t, w)
	if len(contacts) == 0 || contacts[0].ID != "stu-2" {
		t.Errorf("contacts[0] = %v, want stu-2 first", contacts)
	}
	if contacts[0].Unread != 1 || contacts[0].LastMessage != "hi" {
		t.Errorf("contact entry = %+v", contacts[0])
	}
}
