package portal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"siar/internal/models"

	"gorm.io/gorm"
)

// Contact is one row of the conversation list.
type Contact struct {
	ID              uint        `json:"id"`
	NamaLengkap     string      `json:"nama_lengkap"`
	Email           string      `json:"email"`
	Divisi          string      `json:"divisi"`
	Role            models.Role `json:"role"`
	ProfilePicture  *string     `json:"profile_picture"`
	LastMessage     *string     `json:"lastMessage"`
	LastMessageTime *time.Time  `json:"lastMessageTime"`
	UnreadCount     int         `json:"unreadCount"`
}

// ThreadMessage is a message enriched with the title of the record it refers to.
type ThreadMessage struct {
	models.Message
	SubjectTitle *string `json:"subjectTitle"`
}

type MessageInput struct {
	ReceiverID  FlexID              `json:"receiverId"`
	Content     string              `json:"content"`
	SubjectType *models.SubjectType `json:"subjectType"`
	SubjectID   *FlexID             `json:"subjectId"`
}

const chatPreviewLen = 50

// Conversations lists every other user with the latest exchanged message and the
// number of unread messages they sent to the caller.
func (s *Service) Conversations(ctx context.Context, a Actor) ([]Contact, error) {
	db := s.db.WithContext(ctx)

	var users []models.User
	if err := db.Where("id <> ?", a.ID).Order("id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	var msgs []models.Message
	if err := db.Where("sender_id = ? OR receiver_id = ?", a.ID, a.ID).
		Order("created_at desc").Order("id desc").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	last := make(map[uint]models.Message, len(users))
	unread := make(map[uint]int)
	for _, m := range msgs {
		other := m.SenderID
		if other == a.ID {
			other = m.ReceiverID
		}
		if _, ok := last[other]; !ok {
			last[other] = m
		}
		if m.ReceiverID == a.ID && !m.IsRead {
			unread[m.SenderID]++
		}
	}

	contacts := make([]Contact, 0, len(users))
	for _, u := range users {
		c := Contact{
			ID:             u.ID,
			NamaLengkap:    u.NamaLengkap,
			Email:          u.Email,
			Divisi:         u.Divisi,
			Role:           u.Role,
			ProfilePicture: u.ProfilePicture,
			UnreadCount:    unread[u.ID],
		}
		if m, ok := last[u.ID]; ok {
			content, at := m.Content, m.CreatedAt
			c.LastMessage = &content
			c.LastMessageTime = &at
		}
		contacts = append(contacts, c)
	}
	sortContacts(contacts)
	return contacts, nil
}

// sortContacts orders IT contacts first, then by most recent message, silent contacts last.
func sortContacts(cs []Contact) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		aIT, bIT := a.Role == models.RoleIT, b.Role == models.RoleIT
		if aIT != bIT {
			return aIT
		}
		switch {
		case a.LastMessageTime == nil:
			return false
		case b.LastMessageTime == nil:
			return true
		}
		return a.LastMessageTime.After(*b.LastMessageTime)
	})
}

// Thread returns the messages exchanged with contactID, oldest first, and marks
// the contact's unread messages to the caller as read.
func (s *Service) Thread(ctx context.Context, a Actor, contactID uint) ([]ThreadMessage, error) {
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", contactID, a.ID, false).
		Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("mark thread read: %w", err)
	}

	var msgs []models.Message
	if err := db.Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a.ID, contactID, contactID, a.ID).
		Order("created_at asc").Order("id asc").
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}

	titles := map[string]*string{}
	out := make([]ThreadMessage, 0, len(msgs))
	for _, m := range msgs {
		tm := ThreadMessage{Message: m}
		if m.SubjectType != nil && m.SubjectID != nil {
			key := fmt.Sprintf("%s:%d", *m.SubjectType, *m.SubjectID)
			title, ok := titles[key]
			if !ok {
				title = s.subjectTitle(ctx, *m.SubjectType, *m.SubjectID)
				titles[key] = title
			}
			tm.SubjectTitle = title
		}
		out = append(out, tm)
	}
	return out, nil
}

// subjectTitle resolves a subject reference; a missing record yields nil.
func (s *Service) subjectTitle(ctx context.Context, typ models.SubjectType, id uint) *string {
	db := s.db.WithContext(ctx)
	var found []string
	var err error
	switch typ {
	case models.SubjectMaintenance:
		err = db.Model(&models.MaintenanceIssue{}).Where("id = ?", id).Limit(1).Pluck("jenis_masalah", &found).Error
	case models.SubjectProject:
		err = db.Model(&models.ProjectItem{}).Where("id = ?", id).Limit(1).Pluck("title", &found).Error
	default:
		return nil
	}
	if err != nil {
		s.lg.Warnw("subject lookup failed", "subject_type", typ, "subject_id", id, "error", err)
		return nil
	}
	if len(found) == 0 {
		return nil
	}
	title := found[0]
	return &title
}

func (s *Service) SendMessage(ctx context.Context, a Actor, in MessageInput) (*models.Message, error) {
	content := strings.TrimSpace(in.Content)
	if in.ReceiverID == 0 || content == "" {
		return nil, invalid("receiverId", "Penerima dan pesan wajib diisi")
	}
	var subjectType *models.SubjectType
	var subjectID *uint
	if in.SubjectType != nil && *in.SubjectType != "" {
		if *in.SubjectType != models.SubjectMaintenance && *in.SubjectType != models.SubjectProject {
			return nil, invalid("subjectType", fmt.Sprintf("Subjek %q tidak valid", *in.SubjectType))
		}
		t := *in.SubjectType
		subjectType = &t
		if in.SubjectID != nil && *in.SubjectID != 0 {
			id := uint(*in.SubjectID)
			subjectID = &id
		}
	}

	db := s.db.WithContext(ctx)
	var receiver models.User
	if err := db.Select("id").First(&receiver, uint(in.ReceiverID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("receiver")
		}
		return nil, fmt.Errorf("load receiver: %w", err)
	}

	var sender models.User
	if err := db.Select("id", "nama_lengkap").First(&sender, a.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load sender: %w", err)
	}

	msg := models.Message{
		SenderID:    a.ID,
		ReceiverID:  receiver.ID,
		Content:     content,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		CreatedAt:   s.clock(),
	}
	if err := db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	s.notify(ctx, receiver.ID, models.NotifyChat, "Pesan Baru",
		fmt.Sprintf("%s mengirim pesan: \"%s\"", sender.NamaLengkap, preview(content)), msg.ID)

	if err := db.Preload("Sender").First(&msg, msg.ID).Error; err != nil {
		return nil, fmt.Errorf("reload message: %w", err)
	}
	return &msg, nil
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= chatPreviewLen {
		return content
	}
	return string([]rune(content)[:chatPreviewLen]) + "..."
}
