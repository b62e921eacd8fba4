package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	"github.com/yungbote/promptlib-backend/internal/platform/envutil"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&types.Prompt{},
		&types.PromptTag{},
		&types.PromptVersion{},
		&types.PromptVersionTag{},
		&types.PromptVariable{},
		&types.PromptMessage{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SetupJoinTables registers the explicit version↔tag join model. It must run before migrating and
// on every connection that saves or preloads the many2many edge.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&types.PromptVersion{}, "Tags", &types.PromptVersionTag{}); err != nil {
		return fmt.Errorf("setup prompt_version_tags: %w", err)
	}
	return nil
}

// Open connects to the driver selected by DB_DRIVER ("postgres" or "sqlite").
func Open(logg *logger.Logger) (Service, error) {
	driver := strings.ToLower(envutil.GetEnv("DB_DRIVER", "postgres", logg))
	var (
		svc Service
		err error
	)
	switch driver {
	case "postgres", "postgresql":
		svc, err = NewPostgresService(logg)
	case "sqlite", "sqlite3":
		svc, err = NewSQLiteService(logg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := SetupJoinTables(svc.DB()); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}
