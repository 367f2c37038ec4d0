package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
)

// ListConversations assembles the caller's conversation directory: every
// conversation the user belongs to, enriched with member identities, the
// newest visible message, and the unread count against the member's read
// cursor. Direct conversations only surface when the counterpart is an
// accepted friend. Any fetch failure aborts the whole build; no partial
// directory is ever returned.
func (s *Service) ListConversations(ctx context.Context, userID string) (model.ConversationPreviewList, error) {
	memberships, err := s.repository.GetUserMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %v", err)
	}

	if len(*memberships) == 0 {
		return model.ConversationPreviewList{}, nil
	}

	membershipByConversation := make(map[uuid.UUID]model.ConversationMember, len(*memberships))
	conversationIDs := make([]string, 0, len(*memberships))
	for _, membership := range *memberships {
		membershipByConversation[membership.ConversationID] = membership
		conversationIDs = append(conversationIDs, membership.ConversationID.String())
	}

	conversations, err := s.repository.GetConversations(ctx, conversationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %v", err)
	}

	allMembers, err := s.repository.GetConversationMembers(ctx, conversationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %v", err)
	}

	membersByConversation := make(map[uuid.UUID][]model.ConversationMember)
	memberUserIDs := make([]string, 0, len(*allMembers))
	seenUsers := make(map[uuid.UUID]struct{})
	for _, member := range *allMembers {
		membersByConversation[member.ConversationID] = append(membersByConversation[member.ConversationID], member)
		if _, ok := seenUsers[member.UserID]; !ok {
			seenUsers[member.UserID] = struct{}{}
			memberUserIDs = append(memberUserIDs, member.UserID.String())
		}
	}

	users, err := s.repository.GetUsers(ctx, memberUserIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %v", err)
	}

	usersByID := make(map[uuid.UUID]model.UserInfo, len(*users))
	for _, user := range *users {
		usersByID[user.ID] = user
	}

	friendIDs, err := s.repository.GetAcceptedFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %v", err)
	}

	friendSet := make(map[string]struct{}, len(friendIDs))
	for _, friendID := range friendIDs {
		friendSet[friendID] = struct{}{}
	}

	previews, err := s.repository.GetMessagePreviews(ctx, conversationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %v", err)
	}

	// previews arrive newest first, so the first row per conversation is
	// its last message.
	lastMessageByConversation := make(map[uuid.UUID]model.MessagePreview)
	for _, preview := range previews {
		if _, ok := lastMessageByConversation[preview.ConversationID]; !ok {
			lastMessageByConversation[preview.ConversationID] = preview
		}
	}

	unreadByConversation := make(map[uuid.UUID]int)
	for _, preview := range previews {
		membership, ok := membershipByConversation[preview.ConversationID]
		if !ok || preview.SenderID.String() == userID {
			continue
		}
		if membership.LastReadAt == nil || preview.CreatedAt.After(*membership.LastReadAt) {
			unreadByConversation[preview.ConversationID]++
		}
	}

	result := make(model.ConversationPreviewList, 0, len(*conversations))
	for _, conversation := range *conversations {
		membership := membershipByConversation[conversation.ID]

		memberInfos := make([]model.MemberInfo, 0, len(membersByConversation[conversation.ID]))
		var otherUser *model.UserInfo
		for _, member := range membersByConversation[conversation.ID] {
			info := model.MemberInfo{ConversationMember: member}
			if user, ok := usersByID[member.UserID]; ok {
				info.User = user
			}
			memberInfos = append(memberInfos, info)

			if conversation.Type == model.DirectConversationType && member.UserID.String() != userID {
				if user, ok := usersByID[member.UserID]; ok {
					u := user
					otherUser = &u
				}
			}
		}

		entry := model.ConversationPreview{
			Conversation: conversation,
			Members:      memberInfos,
			UnreadCount:  unreadByConversation[conversation.ID],
			IsPinned:     membership.IsPinned,
			IsMuted:      membership.IsMuted,
			OtherUser:    otherUser,
		}
		if lastMessage, ok := lastMessageByConversation[conversation.ID]; ok {
			entry.LastMessage = &lastMessage
		}

		if conversation.Type == model.DirectConversationType {
			if otherUser == nil {
				continue
			}
			if _, ok := friendSet[otherUser.ID.String()]; !ok {
				// visibility rule only: the membership and history stay
				// intact until the friendship is accepted
				continue
			}
		}

		result = append(result, entry)
	}

	return result, nil
}
