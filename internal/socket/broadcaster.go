package socket

// Broadcaster provides high-level methods for broadcasting events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// ============================================
// Messaging Broadcasting
// ============================================

// SendMessageReceived notifies each recipient of a new internal message
func (b *Broadcaster) SendMessageReceived(recipientIDs []int, message map[string]interface{}) {
	for _, userID := range recipientIDs {
		b.hub.SendToUser(userID, MessageReceived, message)
	}
}

// SendMessageRead notifies the sender that a recipient read their message
func (b *Broadcaster) SendMessageRead(senderID int, messageID, recipientID int) {
	b.hub.SendToUser(senderID, MessageRead, map[string]interface{}{
		"messageId":   messageID,
		"recipientId": recipientID,
	})
}

// ============================================
// Notice Broadcasting
// ============================================

// BroadcastNoticePublished pushes a published notice to the shared notices room
func (b *Broadcaster) BroadcastNoticePublished(notice map[string]interface{}) {
	b.hub.SendToRoom("notices", MessageNoticePublished, notice, 0)
}

// ============================================
// Membership Lifecycle Broadcasting
// ============================================

// SendMemberApproved notifies an applicant that their membership was approved
func (b *Broadcaster) SendMemberApproved(userID int, payload map[string]interface{}) {
	b.hub.SendToUser(userID, MessageMemberApproved, payload)
}

// SendMemberRejected notifies an applicant that their membership was rejected
func (b *Broadcaster) SendMemberRejected(userID int, payload map[string]interface{}) {
	b.hub.SendToUser(userID, MessageMemberRejected, payload)
}

// SendStudentApproved notifies a student applicant of approval
func (b *Broadcaster) SendStudentApproved(userID int, payload map[string]interface{}) {
	b.hub.SendToUser(userID, MessageStudentApproved, payload)
}

// SendStudentRejected notifies a student applicant of rejection
func (b *Broadcaster) SendStudentRejected(userID int, payload map[string]interface{}) {
	b.hub.SendToUser(userID, MessageStudentRejected, payload)
}

// ============================================
// Chapter Broadcasting
// ============================================

// BroadcastChapterAssignment announces an affiliation change to a chapter room
func (b *Broadcaster) BroadcastChapterAssignment(chapterRoom string, assigned bool, payload map[string]interface{}) {
	msgType := MessageChapterMemberRemoved
	if assigned {
		msgType = MessageChapterMemberAssigned
	}
	b.hub.SendToRoom(chapterRoom, msgType, payload, 0)
}
