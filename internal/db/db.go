package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kindredapp/kindred/internal/config"
)

// Models lists every table in migration order.
var Models = []interface{}{
	&User{}, &Profile{}, &ProfilePrompt{},
	&Like{}, &SuperLike{}, &Match{}, &Message{},
	&Standout{}, &Compliment{}, &Boost{}, &Block{},
}

// NewDB initializes the database connection using the DSN from config.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey; the duplicate-edge and match-race handling depend
// on that.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DB.GetDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
