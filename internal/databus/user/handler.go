//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=handler.go
package user

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/model"
)

type DBRepo interface {
	UpsertUser(ctx context.Context, user *model.UserInfo) error
}

// Handler keeps the local users table in step with profile events from the
// databus; the directory and timeline identity lookups read from that table.
type Handler struct {
	repository DBRepo
}

func New(repo DBRepo) *Handler {
	return &Handler{
		repository: repo,
	}
}

func (h *Handler) Handler(ctx context.Context, in []byte) {
	logger, ok := ctx.Value(config.KeyLogger).(logger_lib.LoggerInterface)
	if !ok {
		return
	}
	logger.AddFuncName("UserUpdateHandler")

	var params model.UserUpdateParams
	if err := json.Unmarshal(in, &params); err != nil {
		logger.Error(fmt.Sprintf("failed to unmarshal user update: %v", err))
		return
	}

	userID, err := uuid.Parse(params.UserID)
	if err != nil {
		logger.Error(fmt.Sprintf("invalid user uuid in update: %v", err))
		return
	}

	userInfo := model.UserInfo{
		ID:        userID,
		Nickname:  params.Nickname,
		FullName:  params.FullName,
		AvatarURL: params.AvatarURL,
	}

	if err := h.repository.UpsertUser(ctx, &userInfo); err != nil {
		logger.Error(fmt.Sprintf("failed to upsert user %s: %v", params.UserID, err))
	}
}
