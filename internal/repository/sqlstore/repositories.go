package sqlstore

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/pkg/crypto"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, sealer *crypto.Sealer, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Shop:     NewShopRepository(db, sealer, logger),
		Campaign: NewCampaignRepository(db, logger),
	}
}
