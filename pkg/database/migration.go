package database

import (
	"fmt"
	"os"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationLogger adapts ectologger to the migrate logging interface.
type MigrationLogger struct {
	ectologger.Logger
}

func (l MigrationLogger) Verbose() bool {
	return true
}

func (l MigrationLogger) Printf(format string, v ...any) {
	l.Info(fmt.Sprintf(format, v...))
}

// MigrationService applies the SQL migrations under the configured folder.
type MigrationService struct {
	folderPath string
	version    uint
	force      int
	logger     ectologger.Logger
}

// NewMigrationService creates a migration service. version 0 means migrate
// to the latest.
func NewMigrationService(logger ectologger.Logger, folderPath string, version uint, force int) *MigrationService {
	return &MigrationService{
		folderPath: folderPath,
		version:    version,
		force:      force,
		logger:     logger,
	}
}

// Migrate runs the migrations against the given database driver instance.
func (ms *MigrationService) Migrate(databaseName string, instance migratedb.Driver) error {
	if _, err := os.Stat(ms.folderPath); err != nil {
		return fmt.Errorf("migration folder %s does not exist: %w", ms.folderPath, err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+ms.folderPath, databaseName, instance)
	if err != nil {
		ms.logger.WithError(err).Error("Failed to create migrate instance")
		return err
	}
	m.Log = MigrationLogger{Logger: ms.logger}

	if ms.force != 0 {
		if err := m.Force(ms.force); err != nil {
			ms.logger.WithError(err).Error(fmt.Sprintf("Failed to force database to version %d", ms.force))
			return err
		}
	}

	if ms.version > 0 {
		err = m.Migrate(ms.version)
	} else {
		err = m.Up()
	}
	if err != nil && err != migrate.ErrNoChange {
		ms.logger.WithError(err).Error("Migration failed")
		return err
	}

	return nil
}
