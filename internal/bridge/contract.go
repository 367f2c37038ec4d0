//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package bridge

import (
	"context"

	"github.com/s21platform/messenger-service/internal/model"
)

type Publisher interface {
	Publish(ctx context.Context, channel string, event model.ChangeEvent) error
}
