package validator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
	"github.com/s21platform/messenger-service/internal/rest"
)

const maxContentLength = 4000

var allowedMessageTypes = map[string]struct{}{
	model.TextMessageType:  {},
	model.ImageMessageType: {},
	model.VideoMessageType: {},
	model.VoiceMessageType: {},
	model.FileMessageType:  {},
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateSendMessage(req *rest.SendMessageRequest) error {
	if strings.TrimSpace(req.MessageType) == "" {
		return fmt.Errorf("message_type is required")
	}

	if _, ok := allowedMessageTypes[req.MessageType]; !ok {
		return fmt.Errorf("message type '%s' is not supported", req.MessageType)
	}

	if strings.TrimSpace(req.Content) == "" && len(req.Attachments) == 0 {
		return fmt.Errorf("content cannot be empty")
	}

	if len([]rune(req.Content)) > maxContentLength {
		return fmt.Errorf("content exceeds maximum length of %d characters", maxContentLength)
	}

	if req.MessageType != model.TextMessageType && len(req.Attachments) == 0 {
		return fmt.Errorf("message type '%s' requires an attachment", req.MessageType)
	}

	for _, attachment := range req.Attachments {
		if strings.TrimSpace(attachment.FilePath) == "" {
			return fmt.Errorf("attachment file_path is required")
		}
		if strings.TrimSpace(attachment.FileName) == "" {
			return fmt.Errorf("attachment file_name is required")
		}
	}

	if req.ReplyToID != nil && *req.ReplyToID != "" {
		if _, err := uuid.Parse(*req.ReplyToID); err != nil {
			return fmt.Errorf("reply_to_id is not a valid uuid")
		}
	}

	return nil
}

func (v *Validator) ValidateCreateDirect(req *rest.CreateDirectConversationRequest, creatorID string) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}

	if _, err := uuid.Parse(req.UserID); err != nil {
		return fmt.Errorf("user_id is not a valid uuid")
	}

	if req.UserID == creatorID {
		return fmt.Errorf("direct conversation requires a second participant")
	}

	return nil
}

func (v *Validator) ValidateCreateGroup(req *rest.CreateGroupConversationRequest, creatorID string) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("group name is required")
	}

	uniqueMembers := make(map[string]struct{})
	for _, memberID := range req.MemberIDs {
		if _, err := uuid.Parse(memberID); err != nil {
			return fmt.Errorf("member id '%s' is not a valid uuid", memberID)
		}
		if memberID != creatorID {
			uniqueMembers[memberID] = struct{}{}
		}
	}

	if len(uniqueMembers) == 0 {
		return fmt.Errorf("group requires at least one member besides the creator")
	}

	return nil
}

func (v *Validator) ValidateReaction(req *rest.ReactionRequest) error {
	if strings.TrimSpace(req.Emoji) == "" {
		return fmt.Errorf("emoji is required")
	}

	if len([]rune(req.Emoji)) > 16 {
		return fmt.Errorf("emoji is too long")
	}

	return nil
}
