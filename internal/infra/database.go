package infra

import (
	"fmt"

	"assistec/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express (partial unique indexes, counter backfills).
//
// TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey — the service layer relies on this to detect a
// concurrent turno open.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Empresa{},
		&model.Usuario{},
		&model.Cliente{},
		&model.ProdutoServico{},
		&model.TurnoCaixa{},
		&model.MovimentacaoCaixa{},
		&model.Venda{},
		&model.VendaItem{},
		&model.OrdemServico{},
		&model.HistoricoStatus{},
		&model.Notificacao{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded by an existence check so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open turno per empresa. The application checks before
		// inserting, but only this index makes the invariant hold under
		// concurrent opens — the loser gets a unique violation.
		{"partial unique index: one open turno per empresa", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_turnos_caixa_aberto') THEN
    CREATE UNIQUE INDEX uni_turnos_caixa_aberto
        ON turnos_caixa (empresa_id)
        WHERE status = 'aberto';
  END IF;
END $$`},
		// Partial index backing the notification retry cron query.
		{"partial index: pending notification retries", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_notificacoes_retry') THEN
    CREATE INDEX idx_notificacoes_retry
        ON notificacoes (next_retry_at)
        WHERE estado = 'falhada' AND next_retry_at IS NOT NULL;
  END IF;
END $$`},
		// Kanban board groups by status constantly.
		{"index: ordens_servico status per empresa", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ordens_empresa_status') THEN
    CREATE INDEX idx_ordens_empresa_status
        ON ordens_servico (empresa_id, status);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
